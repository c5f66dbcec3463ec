package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// Ownership resolves tasks and items on behalf of a caller. A resource that
// does not exist and one that belongs to someone else are both reported as
// models.ErrNotFound so non-owners learn nothing about it.
type Ownership struct {
	tasks TaskRepository
	items ItemRepository
}

// NewOwnership constructs an Ownership over the given stores.
func NewOwnership(tasks TaskRepository, items ItemRepository) *Ownership {
	return &Ownership{tasks: tasks, items: items}
}

// Task returns task id if userID owns it.
func (o *Ownership) Task(ctx context.Context, userID, id int64) (*models.Task, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthenticated
	}
	t, err := o.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != userID {
		return nil, fmt.Errorf("task %d: %w", id, models.ErrNotFound)
	}
	return t, nil
}

// Item returns item id if userID owns its parent task.
func (o *Ownership) Item(ctx context.Context, userID, id int64) (*models.Item, error) {
	if userID <= 0 {
		return nil, models.ErrUnauthenticated
	}
	it, ownerID, err := o.items.GetWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, fmt.Errorf("item %d: %w", id, models.ErrNotFound)
	}
	return it, nil
}
