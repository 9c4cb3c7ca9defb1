package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/library-management/library/internal/model"
)

var studentColumns = []string{"id", "identification", "name", "last_names", "program_id", "created_at"}

func (r *repository) CreateStudent(ctx context.Context, student model.Student) (model.Student, error) {
	student.ID = uuid.New()
	query, args, err := qb.Insert(studentsTableName).
		Columns(studentColumns...).
		Values(student.ID, student.Identification, student.Name, student.LastNames, student.Program, student.CreatedAt).
		ToSql()
	if err != nil {
		return model.Student{}, err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return model.Student{}, pgError(err, "CreateStudent")
	}
	return student, nil
}

// FindStudent returns the most recently created student with the identification.
func (r *repository) FindStudent(ctx context.Context, identification int64) (model.Student, error) {
	query, args, err := qb.Select(studentColumns...).
		From(studentsTableName).
		Where(sq.Eq{"identification": identification}).
		OrderBy("created_at desc").
		Limit(1).
		ToSql()
	if err != nil {
		return model.Student{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Student{}, pgError(err, "FindStudent")
	}
	defer rows.Close()

	student, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Student])
	if err != nil {
		return model.Student{}, pgError(err, "FindStudent")
	}
	return student, nil
}
