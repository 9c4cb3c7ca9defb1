package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateProgram(ctx context.Context, program model.Program) (model.Program, error)
	ListPrograms(ctx context.Context) ([]model.Program, error)

	CreateStudent(ctx context.Context, student model.Student) (model.Student, error)
	FindStudent(ctx context.Context, identification int64) (model.Student, error)

	CreateAsset(ctx context.Context, asset model.Asset) (model.Asset, error)
	ListAssets(ctx context.Context, onLoan bool) ([]model.Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
	SetAssetImage(ctx context.Context, id uuid.UUID, image string) error

	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	UpdateLoan(ctx context.Context, id uuid.UUID, patch model.LoanPatch) (model.Loan, error)
	DeleteLoan(ctx context.Context, id uuid.UUID) (model.Loan, error)
	ListLoans(ctx context.Context) ([]model.LoanDetails, error)

	SaveLoanEvent(ctx context.Context, event model.LoanEvent) error
	ListLoanEvents(ctx context.Context) ([]model.LoanEvent, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	programsTableName   = `programs`
	studentsTableName   = `students`
	assetsTableName     = `assets`
	loansTableName      = `loans`
	loanEventsTableName = `loan_events`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// pgError translates constraint violations into domain errors.
func pgError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(errs.ErrNotFound, op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrap(errs.ErrConflict, op)
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrapf(errs.ErrNotFound, "%s: referenced %s", op, referencedEntity(pgErr.ConstraintName))
		}
	}
	return errors.Wrap(err, op)
}

func referencedEntity(constraint string) string {
	switch constraint {
	case "loans_student_id_fkey":
		return "student"
	case "loans_asset_id_fkey":
		return "asset"
	case "students_program_id_fkey":
		return "program"
	default:
		return "entity"
	}
}
