package service

import (
	"context"
	"testing"
	"time"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/atinyakov/taskkeeper/internal/repository/memrepo"
	"github.com/stretchr/testify/require"
)

// env wires every service over one in-memory store.
type env struct {
	store  *memrepo.Store
	tokens *auth.Tokens
	auth   *AuthService
	users  *UserService
	tasks  *TaskService
	items  *ItemService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memrepo.New()
	tokens, err := auth.NewTokens("service-test-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)

	owner := NewOwnership(store.Tasks(), store.Items())
	return &env{
		store:  store,
		tokens: tokens,
		auth:   NewAuthService(store.Users(), tokens),
		users:  NewUserService(store.Users()),
		tasks:  NewTaskService(store.Tasks(), store.Items(), owner),
		items:  NewItemService(store.Items(), owner),
	}
}

func (e *env) register(t *testing.T, email string) *Session {
	t.Helper()
	sess, err := e.auth.Register(context.Background(), NewUser{Email: email, DisplayName: email, Password: "pw-" + email})
	require.NoError(t, err)
	return sess
}

func (e *env) task(t *testing.T, ownerID int64, title string) *models.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), ownerID, NewTask{
		Title: title,
		DueAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }
