package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-management/library/internal/model"
)

var loanEventColumns = []string{"id", "loan_id", "student_id", "asset_id", "event_type", "period", "occurred_at"}

// SaveLoanEvent is idempotent on the event id, so redelivered messages are harmless.
func (r *repository) SaveLoanEvent(ctx context.Context, event model.LoanEvent) error {
	query, args, err := qb.Insert(loanEventsTableName).
		Columns(loanEventColumns...).
		Values(event.ID, event.LoanID, event.Student, event.Asset, event.Type, event.Period, event.Timestamp).
		Suffix("on conflict (id) do nothing").
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return pgError(err, "SaveLoanEvent")
}

func (r *repository) ListLoanEvents(ctx context.Context) ([]model.LoanEvent, error) {
	query, args, err := qb.Select(loanEventColumns...).
		From(loanEventsTableName).
		OrderBy("occurred_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "ListLoanEvents")
	}
	defer rows.Close()

	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LoanEvent])
	if err != nil {
		return nil, pgError(err, "ListLoanEvents")
	}
	return events, nil
}
