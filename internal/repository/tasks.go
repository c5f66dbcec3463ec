package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// PostgresTaskRepository stores tasks in PostgreSQL. Every mutating method
// takes the owner id and keeps it in the WHERE clause.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository using the provided *sql.DB.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

const taskColumns = `id, title, description, due_at, completed, owner_id`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueAt, &t.Completed, &t.OwnerID); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts t and returns it with its new id.
func (r *PostgresTaskRepository) Create(ctx context.Context, t models.Task) (*models.Task, error) {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, due_at, completed, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, t.Title, t.Description, t.DueAt, t.Completed, t.OwnerID).Scan(&t.ID)
	if err != nil {
		return nil, translate("create task", err)
	}
	t.Items = []models.Item{}
	return &t, nil
}

// GetByID fetches a task by id regardless of owner. The caller decides
// whether the owner may see it.
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.DB.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, translate("get task", err)
	}
	return t, nil
}

// ListByOwner returns the tasks owned by ownerID ordered by due date.
func (r *PostgresTaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY due_at, id`, ownerID)
	if err != nil {
		return nil, translate("list tasks", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list tasks", err)
	}
	return tasks, nil
}

// Update applies the non-nil fields of p to task id owned by ownerID and
// returns the stored row. A task not owned by ownerID is models.ErrNotFound.
func (r *PostgresTaskRepository) Update(ctx context.Context, ownerID, id int64, p models.TaskPatch) (*models.Task, error) {
	var set setList
	if p.Title != nil {
		set.add("title", *p.Title)
	}
	if p.Description != nil {
		set.add("description", *p.Description)
	}
	if p.DueAt != nil {
		set.add("due_at", *p.DueAt)
	}
	if p.Completed != nil {
		set.add("completed", *p.Completed)
	}
	if len(set.cols) == 0 {
		return nil, fmt.Errorf("update task: %w: no fields", models.ErrValidation)
	}

	query := `UPDATE tasks SET ` + strings.Join(set.cols, ", ") +
		` WHERE id = ` + set.next(id) + ` AND owner_id = ` + set.next(ownerID) +
		` RETURNING ` + taskColumns

	t, err := scanTask(r.DB.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return nil, translate("update task", err)
	}
	return t, nil
}

// Delete removes task id owned by ownerID together with its items in one
// transaction.
func (r *PostgresTaskRepository) Delete(ctx context.Context, ownerID, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM items
		 WHERE task_id IN (SELECT id FROM tasks WHERE id = $1 AND owner_id = $2)
	`, id, ownerID); err != nil {
		return translate("delete items", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return translate("delete task", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete task: %w", models.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
