package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

// CreateLoan lends an asset to a student. The due date defaults to ten days
// from now. ErrConflict is returned when the asset is already on loan.
func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	studentID, err := uuid.Parse(req.Student)
	if err != nil {
		return model.Loan{}, errors.Wrap(errs.ErrInvalidID, "student")
	}
	assetID, err := uuid.Parse(req.Asset)
	if err != nil {
		return model.Loan{}, errors.Wrap(errs.ErrInvalidID, "asset")
	}

	now := s.now().UTC()
	period := now.Add(model.LoanPeriod)
	if req.Period != nil && !req.Period.IsZero() {
		period = req.Period.Time
	}

	loan, err := s.repo.CreateLoan(ctx, model.Loan{
		Student:   studentID,
		Asset:     assetID,
		Period:    period,
		CreatedAt: now,
	})
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(ctx, model.LoanCreated, loan)
	return loan, nil
}

func (s *Service) UpdateLoan(ctx context.Context, id uuid.UUID, req model.UpdateLoanRequest) (model.Loan, error) {
	var patch model.LoanPatch
	if req.Student != "" {
		studentID, err := uuid.Parse(req.Student)
		if err != nil {
			return model.Loan{}, errors.Wrap(errs.ErrInvalidID, "student")
		}
		patch.Student = &studentID
	}
	if req.Asset != "" {
		assetID, err := uuid.Parse(req.Asset)
		if err != nil {
			return model.Loan{}, errors.Wrap(errs.ErrInvalidID, "asset")
		}
		patch.Asset = &assetID
	}
	if req.Period != nil && !req.Period.IsZero() {
		period := req.Period.Time
		patch.Period = &period
	}

	loan, err := s.repo.UpdateLoan(ctx, id, patch)
	if err != nil {
		return model.Loan{}, err
	}
	if !patch.Empty() {
		s.publish(ctx, model.LoanUpdated, loan)
	}
	return loan, nil
}

// DeleteLoan ends a loan; the asset becomes available again.
func (s *Service) DeleteLoan(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	loan, err := s.repo.DeleteLoan(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(ctx, model.LoanReturned, loan)
	return loan, nil
}

func (s *Service) ListLoans(ctx context.Context) ([]model.LoanDetails, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) RecordLoanEvent(ctx context.Context, event model.LoanEvent) error {
	return s.repo.SaveLoanEvent(ctx, event)
}

func (s *Service) ListLoanEvents(ctx context.Context) ([]model.LoanEvent, error) {
	return s.repo.ListLoanEvents(ctx)
}

// publish never fails the caller; the loan is already committed.
func (s *Service) publish(ctx context.Context, t model.LoanEventType, loan model.Loan) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, model.NewLoanEvent(t, loan, s.now().UTC())); err != nil {
		s.log.Warn("publish loan event",
			zap.String("type", string(t)),
			zap.Stringer("loan", loan.ID),
			zap.Error(err))
	}
}
