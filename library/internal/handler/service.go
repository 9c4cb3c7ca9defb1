package handler

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ LibraryService = (*service.Service)(nil)

type LibraryService interface {
	CreateProgram(ctx context.Context, req model.CreateProgramRequest) (model.Program, error)
	ListPrograms(ctx context.Context) ([]model.Program, error)

	CreateStudent(ctx context.Context, req model.CreateStudentRequest) (model.Student, error)
	FindStudent(ctx context.Context, identification int64) (model.Student, error)

	CreateAsset(ctx context.Context, req model.CreateAssetRequest) (model.Asset, error)
	ListAvailableAssets(ctx context.Context) ([]model.Asset, error)
	ListLoanedAssets(ctx context.Context) ([]model.Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, id uuid.UUID, originalName string, src io.Reader) (model.UploadedFile, error)
	ImagePath(ctx context.Context, name string) (string, error)

	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	UpdateLoan(ctx context.Context, id uuid.UUID, req model.UpdateLoanRequest) (model.Loan, error)
	DeleteLoan(ctx context.Context, id uuid.UUID) (model.Loan, error)
	ListLoans(ctx context.Context) ([]model.LoanDetails, error)

	RecordLoanEvent(ctx context.Context, event model.LoanEvent) error
	ListLoanEvents(ctx context.Context) ([]model.LoanEvent, error)
}
