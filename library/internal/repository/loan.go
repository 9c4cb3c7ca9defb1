package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

var loanColumns = []string{"id", "student_id", "asset_id", "period", "created_at"}

var returningLoan = "returning " + strings.Join(loanColumns, ", ")

// CreateLoan inserts the loan unless the asset already has one. The unique
// constraint on asset_id makes check and insert a single atomic write.
func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	loan.ID = uuid.New()
	query, args, err := qb.Insert(loansTableName).
		Columns(loanColumns...).
		Values(loan.ID, loan.Student, loan.Asset, loan.Period, loan.CreatedAt).
		Suffix("on conflict (asset_id) do nothing " + returningLoan).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, pgError(err, "CreateLoan")
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Debug("CreateLoan: asset already on loan", zap.Stringer("asset", loan.Asset))
			return model.Loan{}, errors.Wrap(errs.ErrConflict, "asset already on loan")
		}
		return model.Loan{}, pgError(err, "CreateLoan")
	}
	return created, nil
}

// UpdateLoan applies the non-nil fields of patch. Moving a loan onto an asset
// that already has one violates the unique constraint and yields ErrConflict.
func (r *repository) UpdateLoan(ctx context.Context, id uuid.UUID, patch model.LoanPatch) (model.Loan, error) {
	var (
		query string
		args  []interface{}
		err   error
	)
	if patch.Empty() {
		query, args, err = qb.Select(loanColumns...).
			From(loansTableName).
			Where("id = ?", id).
			ToSql()
	} else {
		set := make(map[string]interface{}, 3)
		if patch.Student != nil {
			set["student_id"] = *patch.Student
		}
		if patch.Asset != nil {
			set["asset_id"] = *patch.Asset
		}
		if patch.Period != nil {
			set["period"] = *patch.Period
		}
		query, args, err = qb.Update(loansTableName).
			SetMap(set).
			Where("id = ?", id).
			Suffix(returningLoan).
			ToSql()
	}
	if err != nil {
		return model.Loan{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, pgError(err, "UpdateLoan")
	}
	defer rows.Close()

	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return model.Loan{}, pgError(err, "UpdateLoan")
	}
	return updated, nil
}

func (r *repository) DeleteLoan(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	query, args, err := qb.Delete(loansTableName).
		Where("id = ?", id).
		Suffix(returningLoan).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, pgError(err, "DeleteLoan")
	}
	defer rows.Close()

	deleted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		return model.Loan{}, pgError(err, "DeleteLoan")
	}
	return deleted, nil
}

// ListLoans resolves each loan's student and asset in a single join.
func (r *repository) ListLoans(ctx context.Context) ([]model.LoanDetails, error) {
	query, args, err := qb.Select(
		"l.id", "l.period", "l.created_at",
		"s.id", "s.identification", "s.name", "s.last_names", "s.program_id", "s.created_at",
		"a.id", "a.asset", "a.publication_date", "a.image", "a.author", "a.created_at",
	).
		From(loansTableName + " l").
		Join(fmt.Sprintf("%s s on s.id = l.student_id", studentsTableName)).
		Join(fmt.Sprintf("%s a on a.id = l.asset_id", assetsTableName)).
		OrderBy("l.created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "ListLoans")
	}
	defer rows.Close()

	loans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.LoanDetails, error) {
		var (
			d model.LoanDetails
			s = &d.Student
			a = &d.Asset
		)
		err := row.Scan(
			&d.ID, &d.Period, &d.CreatedAt,
			&s.ID, &s.Identification, &s.Name, &s.LastNames, &s.Program, &s.CreatedAt,
			&a.ID, &a.Asset, &a.PublicationDate, &a.Image, &a.Author, &a.CreatedAt,
		)
		return d, err
	})
	if err != nil {
		return nil, pgError(err, "ListLoans")
	}
	return loans, nil
}
