package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/validate"
	_ "github.com/Astemirdum/library-management/swagger"
)

const (
	statusSuccess = "Success"
	statusError   = "Error"
)

// envelope is the body of every error and of responses that carry only a message.
// Data responses add their payload next to status.
type envelope struct {
	Status  string                `json:"status"`
	Message string                `json:"message,omitempty"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
}

type Handler struct {
	librarySvc LibraryService
	log        *zap.Logger
}

func New(librarySvc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.HTTPErrorHandler = h.errorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(md.Metrics())

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.GET("/", h.Root)

	api.GET("/programs", h.ListPrograms)
	api.POST("/programs", h.CreateProgram)

	api.POST("/students", h.CreateStudent)
	api.POST("/students/find", h.FindStudent)

	api.GET("/assets", h.ListAvailableAssets)
	api.GET("/assets/loans", h.ListLoanedAssets)
	api.POST("/assets", h.CreateAsset)
	api.DELETE("/assets/:id", h.DeleteAsset)
	api.POST("/assets/uploads/:id", h.UploadImage)
	api.GET("/assets/uploads/:fichero", h.GetImage)

	api.GET("/loans", h.ListLoans)
	api.GET("/loans/history", h.ListLoanEvents)
	api.POST("/loans", h.CreateLoan)
	api.PUT("/loans/:id", h.UpdateLoan)
	api.DELETE("/loans/:id", h.DeleteLoan)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Root godoc
// @Summary  service liveness message
// @Tags     health
// @Produce  json
// @Success  200 {object} envelope
// @Router   / [get]
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{
		Status:  statusSuccess,
		Message: "It's ok!",
	})
}

// errorHandler renders every error as {"status":"Error","message":...}.
// Validation failures also carry the offending fields under "errors".
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	body := envelope{Status: statusError, Message: err.Error()}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		body.Message = fmt.Sprint(he.Message)
		if fields, ok := validate.FieldErrors(he.Internal); ok {
			body.Errors = fields
		}
	}

	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

// httpError maps domain errors onto status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidID), errors.Is(err, errs.ErrInvalidFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrNoFile):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "validation failed").SetInternal(err)
	}
	return nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errs.ErrInvalidID.Error())
	}
	return id, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
