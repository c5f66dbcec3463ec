package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// PostgresUserRepository stores user credentials in PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `id, email, display_name, password_hash`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u and returns it with its new id.
// A duplicate email yields models.ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, u models.User) (*models.User, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (email, display_name, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		u.Email, u.DisplayName, u.PasswordHash,
	).Scan(&u.ID)
	if err != nil {
		return nil, translate("create user", err)
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, translate("get user", err)
	}
	return u, nil
}

// GetByEmail fetches a user by exact email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, translate("get user by email", err)
	}
	return u, nil
}

// List returns every user ordered by id.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, translate("list users", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

// Update applies the non-nil fields of p to user id. p.Password is ignored;
// callers hash it into p.PasswordHash first.
func (r *PostgresUserRepository) Update(ctx context.Context, id int64, p models.UserPatch) (*models.User, error) {
	var set setList
	if p.Email != nil {
		set.add("email", *p.Email)
	}
	if p.DisplayName != nil {
		set.add("display_name", *p.DisplayName)
	}
	if p.PasswordHash != nil {
		set.add("password_hash", *p.PasswordHash)
	}
	if len(set.cols) == 0 {
		return nil, fmt.Errorf("update user: %w: no fields", models.ErrValidation)
	}

	query := `UPDATE users SET ` + strings.Join(set.cols, ", ") +
		` WHERE id = ` + set.next(id) + ` RETURNING ` + userColumns

	u, err := scanUser(r.DB.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		return nil, translate("update user", err)
	}
	return u, nil
}

// Delete removes user id. A user who still owns tasks cannot be deleted and
// yields models.ErrConflict.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate("delete user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete user: %w", models.ErrNotFound)
	}
	return nil
}
