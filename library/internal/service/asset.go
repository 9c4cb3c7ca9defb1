package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var imageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

func (s *Service) CreateAsset(ctx context.Context, req model.CreateAssetRequest) (model.Asset, error) {
	asset := model.Asset{
		Asset:           req.Asset,
		PublicationDate: req.PublicationDate.Time,
		Image:           model.DefaultImage,
		CreatedAt:       s.now().UTC(),
	}
	if req.Author != nil {
		asset.Author = model.Author{
			Name:         req.Author.Name,
			DateOfBirth:  req.Author.DateOfBirth.Time,
			PlaceOfBirth: req.Author.PlaceOfBirth,
		}
	}
	return s.repo.CreateAsset(ctx, asset)
}

// ListAvailableAssets returns assets no loan references, newest first.
func (s *Service) ListAvailableAssets(ctx context.Context) ([]model.Asset, error) {
	return s.repo.ListAssets(ctx, false)
}

// ListLoanedAssets returns assets referenced by a loan, newest first.
func (s *Service) ListLoanedAssets(ctx context.Context) ([]model.Asset, error) {
	return s.repo.ListAssets(ctx, true)
}

func (s *Service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAsset(ctx, id)
}

// UploadImage stores src and attaches it to the asset.
func (s *Service) UploadImage(ctx context.Context, id uuid.UUID, originalName string, src io.Reader) (model.UploadedFile, error) {
	file, err := s.images.Save(src, originalName)
	if err != nil {
		return model.UploadedFile{}, errors.Wrap(err, "save upload")
	}
	if err := s.AttachImage(ctx, id, file); err != nil {
		return model.UploadedFile{}, err
	}
	return file, nil
}

// AttachImage sets the asset image to an already stored file. The file is
// removed again when its extension is not allowed or the asset does not exist.
func (s *Service) AttachImage(ctx context.Context, id uuid.UUID, file model.UploadedFile) error {
	if !validImageExtension(file.Filename) {
		s.discard(file)
		return errors.Wrapf(errs.ErrInvalidFormat, "extension of %s", file.Filename)
	}
	if err := s.repo.SetAssetImage(ctx, id, file.Filename); err != nil {
		s.discard(file)
		return err
	}
	return nil
}

func (s *Service) ImagePath(_ context.Context, name string) (string, error) {
	return s.images.Path(name)
}

func (s *Service) discard(file model.UploadedFile) {
	if err := s.images.Delete(file.Filename); err != nil {
		s.log.Error("discard upload", zap.String("file", file.Filename), zap.Error(err))
	}
}

// validImageExtension checks the text after the last dot. Matching is case sensitive.
func validImageExtension(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return false
	}
	_, ok := imageExtensions[name[i+1:]]
	return ok
}
