package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// NewItem is the input for item creation.
type NewItem struct {
	TaskID      int64
	Title       string
	Description string
}

// ItemService implements item operations. Items are owned through their
// parent task.
type ItemService struct {
	items ItemRepository
	owner *Ownership
}

// NewItemService constructs a new ItemService.
func NewItemService(items ItemRepository, owner *Ownership) *ItemService {
	return &ItemService{items: items, owner: owner}
}

// ListByTask returns the items of one of the caller's tasks.
func (s *ItemService) ListByTask(ctx context.Context, userID, taskID int64) ([]models.Item, error) {
	if _, err := s.owner.Task(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.items.ListByTask(ctx, taskID)
}

// Create adds an item to one of the caller's tasks. Nothing is written
// when the task is missing or foreign.
func (s *ItemService) Create(ctx context.Context, userID int64, in NewItem) (*models.Item, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.TaskID <= 0 {
		return nil, fmt.Errorf("%w: title and taskId are required", models.ErrValidation)
	}

	if _, err := s.owner.Task(ctx, userID, in.TaskID); err != nil {
		return nil, err
	}
	return s.items.Create(ctx, userID, models.Item{Title: title, Description: in.Description, TaskID: in.TaskID})
}

// Get returns one item whose task the caller owns.
func (s *ItemService) Get(ctx context.Context, userID, id int64) (*models.Item, error) {
	return s.owner.Item(ctx, userID, id)
}

// Update applies p to one of the caller's items.
func (s *ItemService) Update(ctx context.Context, userID, id int64, p models.ItemPatch) (*models.Item, error) {
	if p.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", models.ErrValidation)
		}
		p.Title = &title
	}

	if _, err := s.owner.Item(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.items.Update(ctx, userID, id, p)
}

// Delete removes one of the caller's items.
func (s *ItemService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owner.Item(ctx, userID, id); err != nil {
		return err
	}
	return s.items.Delete(ctx, userID, id)
}
