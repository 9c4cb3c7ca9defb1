package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) CreateStudent(ctx context.Context, req model.CreateStudentRequest) (model.Student, error) {
	programID, err := uuid.Parse(req.Program)
	if err != nil {
		return model.Student{}, errors.Wrap(errs.ErrInvalidID, "program")
	}
	return s.repo.CreateStudent(ctx, model.Student{
		Identification: req.Identification,
		Name:           req.Name,
		LastNames:      req.LastNames,
		Program:        &programID,
		CreatedAt:      s.now().UTC(),
	})
}

// FindStudent returns the most recently registered student with the given identification.
func (s *Service) FindStudent(ctx context.Context, identification int64) (model.Student, error) {
	return s.repo.FindStudent(ctx, identification)
}
