// Package repository provides PostgreSQL persistence for users, tasks and items.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/lib/pq"
)

// Postgres error codes the store translates.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate wraps err with op and maps store failures onto the models
// error taxonomy.
func translate(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, models.ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w: still referenced by %s", op, models.ErrConflict, pqErr.Table)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// setList accumulates "col = $n" assignments for partial updates.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

// next returns the placeholder for an argument appended after the SET list.
func (s *setList) next(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}
