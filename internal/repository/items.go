package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/lib/pq"
)

// PostgresItemRepository stores task items in PostgreSQL. Items have no
// owner column; owner checks join through tasks.
type PostgresItemRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresItemRepository creates a new PostgresItemRepository using the provided *sql.DB.
func NewPostgresItemRepository(db *sql.DB) *PostgresItemRepository {
	return &PostgresItemRepository{DB: db}
}

const itemColumns = `id, title, description, task_id`

// ownedBy restricts an items statement to rows whose parent task belongs to
// the owner bound at placeholder ph.
func ownedBy(ph string) string {
	return `task_id IN (SELECT id FROM tasks WHERE owner_id = ` + ph + `)`
}

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var it models.Item
	if err := row.Scan(&it.ID, &it.Title, &it.Description, &it.TaskID); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts it under its task only if that task belongs to ownerID.
// Otherwise nothing is written and models.ErrNotFound is returned.
func (r *PostgresItemRepository) Create(ctx context.Context, ownerID int64, it models.Item) (*models.Item, error) {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO items (title, description, task_id)
		SELECT $1, $2, id FROM tasks WHERE id = $3 AND owner_id = $4
		RETURNING id
	`, it.Title, it.Description, it.TaskID, ownerID).Scan(&it.ID)
	if err != nil {
		return nil, translate("create item", err)
	}
	return &it, nil
}

// GetWithOwner fetches item id and the owner id of its parent task.
func (r *PostgresItemRepository) GetWithOwner(ctx context.Context, id int64) (*models.Item, int64, error) {
	var (
		it      models.Item
		ownerID int64
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT i.id, i.title, i.description, i.task_id, t.owner_id
		  FROM items i
		  JOIN tasks t ON t.id = i.task_id
		 WHERE i.id = $1
	`, id).Scan(&it.ID, &it.Title, &it.Description, &it.TaskID, &ownerID)
	if err != nil {
		return nil, 0, translate("get item", err)
	}
	return &it, ownerID, nil
}

// ListByTask returns the items of one task ordered by id.
func (r *PostgresItemRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Item, error) {
	return r.list(ctx, "list items",
		`SELECT `+itemColumns+` FROM items WHERE task_id = $1 ORDER BY id`, taskID)
}

// ListByTasks returns the items of all given tasks ordered by task and id.
func (r *PostgresItemRepository) ListByTasks(ctx context.Context, taskIDs []int64) ([]models.Item, error) {
	if len(taskIDs) == 0 {
		return []models.Item{}, nil
	}
	return r.list(ctx, "list items",
		`SELECT `+itemColumns+` FROM items WHERE task_id = ANY($1) ORDER BY task_id, id`, pq.Array(taskIDs))
}

func (r *PostgresItemRepository) list(ctx context.Context, op, query string, args ...any) ([]models.Item, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return items, nil
}

// Update applies the non-nil fields of p to item id when its task belongs to
// ownerID.
func (r *PostgresItemRepository) Update(ctx context.Context, ownerID, id int64, p models.ItemPatch) (*models.Item, error) {
	var set setList
	if p.Title != nil {
		set.add("title", *p.Title)
	}
	if p.Description != nil {
		set.add("description", *p.Description)
	}
	if len(set.cols) == 0 {
		return nil, fmt.Errorf("update item: %w: no fields", models.ErrValidation)
	}

	query := `UPDATE items SET ` + strings.Join(set.cols, ", ") +
		` WHERE id = ` + set.next(id) + ` AND ` + ownedBy(set.next(ownerID)) +
		` RETURNING ` + itemColumns

	it, err := scanItem(r.DB.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return nil, translate("update item", err)
	}
	return it, nil
}

// Delete removes item id when its task belongs to ownerID.
func (r *PostgresItemRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM items WHERE id = $1 AND `+ownedBy("$2"), id, ownerID)
	if err != nil {
		return translate("delete item", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete item: %w", models.ErrNotFound)
	}
	return nil
}
