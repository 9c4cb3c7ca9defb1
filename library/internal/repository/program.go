package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-management/library/internal/model"
)

var programColumns = []string{"id", "name", "created_at"}

func (r *repository) CreateProgram(ctx context.Context, program model.Program) (model.Program, error) {
	program.ID = uuid.New()
	query, args, err := qb.Insert(programsTableName).
		Columns(programColumns...).
		Values(program.ID, program.Name, program.CreatedAt).
		ToSql()
	if err != nil {
		return model.Program{}, err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return model.Program{}, pgError(err, "CreateProgram")
	}
	return program, nil
}

func (r *repository) ListPrograms(ctx context.Context) ([]model.Program, error) {
	query, args, err := qb.Select(programColumns...).
		From(programsTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, pgError(err, "ListPrograms")
	}
	defer rows.Close()

	programs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Program])
	if err != nil {
		return nil, pgError(err, "ListPrograms")
	}
	return programs, nil
}
