package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// NewTask is the input for task creation.
type NewTask struct {
	Title       string
	Description string
	DueAt       time.Time
	Completed   bool
}

// TaskService implements owner-scoped task operations. Ownership is always
// checked before a task is read or changed.
type TaskService struct {
	tasks TaskRepository
	items ItemRepository
	owner *Ownership
}

// NewTaskService constructs a new TaskService.
func NewTaskService(tasks TaskRepository, items ItemRepository, owner *Ownership) *TaskService {
	return &TaskService{tasks: tasks, items: items, owner: owner}
}

// List returns the caller's tasks, each with its items.
func (s *TaskService) List(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	items, err := s.items.ListByTasks(ctx, ids)
	if err != nil {
		return nil, err
	}

	byTask := make(map[int64][]models.Item, len(tasks))
	for _, it := range items {
		byTask[it.TaskID] = append(byTask[it.TaskID], it)
	}
	for i := range tasks {
		tasks[i].Items = byTask[tasks[i].ID]
		if tasks[i].Items == nil {
			tasks[i].Items = []models.Item{}
		}
	}
	return tasks, nil
}

// Create stores a task owned by userID.
func (s *TaskService) Create(ctx context.Context, userID int64, in NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if in.DueAt.IsZero() {
		return nil, fmt.Errorf("%w: dueAt is required", models.ErrValidation)
	}

	return s.tasks.Create(ctx, models.Task{
		Title:       title,
		Description: in.Description,
		DueAt:       in.DueAt.UTC(),
		Completed:   in.Completed,
		OwnerID:     userID,
	})
}

// Get returns one of the caller's tasks with its items.
func (s *TaskService) Get(ctx context.Context, userID, id int64) (*models.Task, error) {
	t, err := s.owner.Task(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByTask(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return t, nil
}

// Update applies p to one of the caller's tasks. The ownership check runs
// before any write.
func (s *TaskService) Update(ctx context.Context, userID, id int64, p models.TaskPatch) (*models.Task, error) {
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
	if p.DueAt != nil {
		due := p.DueAt.UTC()
		p.DueAt = &due
	}

	if _, err := s.owner.Task(ctx, userID, id); err != nil {
		return nil, err
	}

	t, err := s.tasks.Update(ctx, userID, id, p)
	if err != nil {
		return nil, err
	}
	items, err := s.items.ListByTask(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return t, nil
}

// Delete removes one of the caller's tasks and its items.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owner.Task(ctx, userID, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, userID, id)
}
