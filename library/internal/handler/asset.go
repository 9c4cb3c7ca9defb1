package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

const uploadField = "file0"

// ListAvailableAssets godoc
// @Summary  assets not currently on loan
// @Tags     assets
// @Produce  json
// @Success  200 {object} envelope{assets=[]model.Asset}
// @Router   /assets [get]
func (h *Handler) ListAvailableAssets(c echo.Context) error {
	assets, err := h.librarySvc.ListAvailableAssets(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": statusSuccess,
		"assets": orEmpty(assets),
	})
}

// ListLoanedAssets godoc
// @Summary  assets currently on loan
// @Tags     assets
// @Produce  json
// @Success  200 {object} envelope{assets=[]model.Asset}
// @Router   /assets/loans [get]
func (h *Handler) ListLoanedAssets(c echo.Context) error {
	assets, err := h.librarySvc.ListLoanedAssets(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status": statusSuccess,
		"assets": orEmpty(assets),
	})
}

// CreateAsset godoc
// @Summary  create an asset
// @Tags     assets
// @Accept   json
// @Produce  json
// @Param    asset body model.CreateAssetRequest true "asset"
// @Success  201 {object} envelope{created=model.Asset}
// @Failure  400 {object} envelope
// @Router   /assets [post]
func (h *Handler) CreateAsset(c echo.Context) error {
	var req model.CreateAssetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	asset, err := h.librarySvc.CreateAsset(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"status":  statusSuccess,
		"created": asset,
	})
}

// DeleteAsset godoc
// @Summary  delete an asset and any loan on it
// @Tags     assets
// @Produce  json
// @Param    id path string true "asset id"
// @Success  200 {object} envelope
// @Failure  400,404 {object} envelope
// @Router   /assets/{id} [delete]
func (h *Handler) DeleteAsset(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.librarySvc.DeleteAsset(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, envelope{
		Status:  statusSuccess,
		Message: "asset deleted",
	})
}

// UploadImage godoc
// @Summary  attach a cover image to an asset
// @Tags     assets
// @Accept   multipart/form-data
// @Produce  json
// @Param    id    path     string true "asset id"
// @Param    file0 formData file   true "png, jpg, jpeg or gif"
// @Success  200 {object} envelope{image=string}
// @Failure  400,404 {object} envelope
// @Router   /assets/uploads/{id} [post]
func (h *Handler) UploadImage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrNoFile.Error()).SetInternal(err)
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer src.Close()

	file, err := h.librarySvc.UploadImage(c.Request().Context(), id, fh.Filename, src)
	if err != nil {
		return httpError(err)
	}
	h.log.Debug("image attached", zap.Stringer("asset", id), zap.String("file", file.Filename))
	return c.JSON(http.StatusOK, echo.Map{
		"status":  statusSuccess,
		"message": "image uploaded",
		"image":   file.Filename,
	})
}

// GetImage godoc
// @Summary  download a stored image
// @Tags     assets
// @Produce  octet-stream
// @Param    fichero path string true "stored file name"
// @Success  200 {file} binary
// @Failure  404 {object} envelope
// @Router   /assets/uploads/{fichero} [get]
func (h *Handler) GetImage(c echo.Context) error {
	path, err := h.librarySvc.ImagePath(c.Request().Context(), c.Param("fichero"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "image does not exist")
		}
		return httpError(err)
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		c.Response().Header().Set(echo.HeaderContentType, ct)
	}
	return c.File(path)
}

