// Package service provides the business logic for authentication, the user
// directory and owner-scoped tasks and items, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"time"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// UserRepository defines the credential store operations.
type UserRepository interface {
	// Create inserts a user; a duplicate email yields models.ErrConflict.
	Create(ctx context.Context, u models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, p models.UserPatch) (*models.User, error)
	// Delete removes a user; one who still owns tasks yields models.ErrConflict.
	Delete(ctx context.Context, id int64) error
}

// TaskRepository defines the task store operations. Mutations are scoped by
// owner id.
type TaskRepository interface {
	Create(ctx context.Context, t models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Task, error)
	Update(ctx context.Context, ownerID, id int64, p models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// ItemRepository defines the item store operations. Mutations are scoped by
// the owner of the parent task.
type ItemRepository interface {
	Create(ctx context.Context, ownerID int64, it models.Item) (*models.Item, error)
	// GetWithOwner returns the item and the owner id of its parent task.
	GetWithOwner(ctx context.Context, id int64) (*models.Item, int64, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.Item, error)
	ListByTasks(ctx context.Context, taskIDs []int64) ([]models.Item, error)
	Update(ctx context.Context, ownerID, id int64, p models.ItemPatch) (*models.Item, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}
