package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/model"
	libraryRepo "github.com/Astemirdum/library-management/library/internal/repository"
)

type ImageStore interface {
	Save(r io.Reader, originalName string) (model.UploadedFile, error)
	Delete(name string) error
	Path(name string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.LoanEvent) error
}

type Service struct {
	log       *zap.Logger
	repo      libraryRepo.Repository
	images    ImageStore
	publisher EventPublisher
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for creation timestamps and due dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo libraryRepo.Repository, images ImageStore, publisher EventPublisher, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		images:    images,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateProgram(ctx context.Context, req model.CreateProgramRequest) (model.Program, error) {
	return s.repo.CreateProgram(ctx, model.Program{
		Name:      req.Name,
		CreatedAt: s.now().UTC(),
	})
}

func (s *Service) ListPrograms(ctx context.Context) ([]model.Program, error) {
	return s.repo.ListPrograms(ctx)
}
