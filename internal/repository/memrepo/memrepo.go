// Package memrepo is an in-memory store with the same contracts as the
// Postgres repositories. It backs tests and local experiments.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// Store holds users, tasks and items. Use Users, Tasks and Items to obtain
// the repository views.
type Store struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	tasks  map[int64]models.Task
	items  map[int64]models.Item

	// Writes counts successful mutations, for tests asserting that a
	// rejected request wrote nothing.
	Writes int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users: map[int64]models.User{},
		tasks: map[int64]models.Task{},
		items: map[int64]models.Item{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users returns the user repository view.
func (s *Store) Users() *Users { return &Users{s} }

// Tasks returns the task repository view.
func (s *Store) Tasks() *Tasks { return &Tasks{s} }

// Items returns the item repository view.
func (s *Store) Items() *Items { return &Items{s} }

// Users implements the user repository.
type Users struct{ s *Store }

func (r *Users) Create(_ context.Context, u models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("create user: %w: email", models.ErrConflict)
		}
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = u
	r.s.Writes++
	return &u, nil
}

func (r *Users) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", models.ErrNotFound)
	}
	return &u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", models.ErrNotFound)
}

func (r *Users) List(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *Users) Update(_ context.Context, id int64, p models.UserPatch) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Email == nil && p.DisplayName == nil && p.PasswordHash == nil {
		return nil, fmt.Errorf("update user: %w: no fields", models.ErrValidation)
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("update user: %w", models.ErrNotFound)
	}
	if p.Email != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *p.Email {
				return nil, fmt.Errorf("update user: %w: email", models.ErrConflict)
			}
		}
		u.Email = *p.Email
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	r.s.users[id] = u
	r.s.Writes++
	return &u, nil
}

func (r *Users) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("delete user: %w", models.ErrNotFound)
	}
	for _, t := range r.s.tasks {
		if t.OwnerID == id {
			return fmt.Errorf("delete user: %w: still referenced by tasks", models.ErrConflict)
		}
	}
	delete(r.s.users, id)
	r.s.Writes++
	return nil
}

// Tasks implements the task repository.
type Tasks struct{ s *Store }

func (r *Tasks) Create(_ context.Context, t models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.OwnerID]; !ok {
		return nil, fmt.Errorf("create task: %w: unknown owner", models.ErrConflict)
	}
	t.ID = r.s.id()
	t.Items = nil
	r.s.tasks[t.ID] = t
	r.s.Writes++
	t.Items = []models.Item{}
	return &t, nil
}

func (r *Tasks) GetByID(_ context.Context, id int64) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("get task: %w", models.ErrNotFound)
	}
	return &t, nil
}

func (r *Tasks) ListByOwner(_ context.Context, ownerID int64) ([]models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tasks := []models.Task{}
	for _, t := range r.s.tasks {
		if t.OwnerID == ownerID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].DueAt.Equal(tasks[j].DueAt) {
			return tasks[i].DueAt.Before(tasks[j].DueAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (r *Tasks) Update(_ context.Context, ownerID, id int64, p models.TaskPatch) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Empty() {
		return nil, fmt.Errorf("update task: %w: no fields", models.ErrValidation)
	}
	t, ok := r.s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, fmt.Errorf("update task: %w", models.ErrNotFound)
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueAt != nil {
		t.DueAt = *p.DueAt
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	r.s.tasks[id] = t
	r.s.Writes++
	return &t, nil
}

func (r *Tasks) Delete(_ context.Context, ownerID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return fmt.Errorf("delete task: %w", models.ErrNotFound)
	}
	for itemID, it := range r.s.items {
		if it.TaskID == id {
			delete(r.s.items, itemID)
		}
	}
	delete(r.s.tasks, id)
	r.s.Writes++
	return nil
}

// Items implements the item repository.
type Items struct{ s *Store }

func (r *Items) Create(_ context.Context, ownerID int64, it models.Item) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[it.TaskID]
	if !ok || t.OwnerID != ownerID {
		return nil, fmt.Errorf("create item: %w", models.ErrNotFound)
	}
	it.ID = r.s.id()
	r.s.items[it.ID] = it
	r.s.Writes++
	return &it, nil
}

func (r *Items) GetWithOwner(_ context.Context, id int64) (*models.Item, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, 0, fmt.Errorf("get item: %w", models.ErrNotFound)
	}
	return &it, r.s.tasks[it.TaskID].OwnerID, nil
}

func (r *Items) ListByTask(ctx context.Context, taskID int64) ([]models.Item, error) {
	return r.ListByTasks(ctx, []int64{taskID})
}

func (r *Items) ListByTasks(_ context.Context, taskIDs []int64) ([]models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[int64]bool, len(taskIDs))
	for _, id := range taskIDs {
		want[id] = true
	}
	items := []models.Item{}
	for _, it := range r.s.items {
		if want[it.TaskID] {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TaskID != items[j].TaskID {
			return items[i].TaskID < items[j].TaskID
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *Items) Update(_ context.Context, ownerID, id int64, p models.ItemPatch) (*models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Empty() {
		return nil, fmt.Errorf("update item: %w: no fields", models.ErrValidation)
	}
	it, ok := r.s.items[id]
	if !ok || r.s.tasks[it.TaskID].OwnerID != ownerID {
		return nil, fmt.Errorf("update item: %w", models.ErrNotFound)
	}
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	r.s.items[id] = it
	r.s.Writes++
	return &it, nil
}

func (r *Items) Delete(_ context.Context, ownerID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok || r.s.tasks[it.TaskID].OwnerID != ownerID {
		return fmt.Errorf("delete item: %w", models.ErrNotFound)
	}
	delete(r.s.items, id)
	r.s.Writes++
	return nil
}
