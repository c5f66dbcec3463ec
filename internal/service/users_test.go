package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateListGet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.users.Create(ctx, NewUser{Email: "bob@example.com", DisplayName: "Bob", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("pw", u.PasswordHash))

	users, err := e.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	got, err := e.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.DisplayName)

	_, err = e.users.Get(ctx, u.ID+1)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUserService_UpdateSelf(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")

	u, err := e.users.Update(ctx, alice.User.ID, alice.User.ID, models.UserPatch{
		DisplayName: ptr("  Alice  "),
		Password:    ptr("new-pw"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.DisplayName)

	_, err = e.auth.Login(ctx, "alice@example.com", "new-pw")
	assert.NoError(t, err)
}

func TestUserService_UpdateRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")
	bob := e.register(t, "bob@example.com")

	_, err := e.users.Update(ctx, alice.User.ID, alice.User.ID, models.UserPatch{})
	assert.True(t, errors.Is(err, models.ErrValidation), "empty patch: %v", err)

	_, err = e.users.Update(ctx, alice.User.ID, bob.User.ID, models.UserPatch{DisplayName: ptr("x")})
	assert.True(t, errors.Is(err, models.ErrForbidden), "other user: %v", err)

	_, err = e.users.Update(ctx, alice.User.ID, alice.User.ID, models.UserPatch{Email: ptr("bob@example.com")})
	assert.True(t, errors.Is(err, models.ErrConflict), "taken email: %v", err)

	_, err = e.users.Update(ctx, alice.User.ID, alice.User.ID, models.UserPatch{DisplayName: ptr(" ")})
	assert.True(t, errors.Is(err, models.ErrValidation), "blank name: %v", err)
}

func TestUserService_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice@example.com")
	bob := e.register(t, "bob@example.com")

	err := e.users.Delete(ctx, alice.User.ID, bob.User.ID)
	assert.True(t, errors.Is(err, models.ErrForbidden))

	task := e.task(t, alice.User.ID, "T1")
	err = e.users.Delete(ctx, alice.User.ID, alice.User.ID)
	assert.True(t, errors.Is(err, models.ErrConflict), "user with tasks: %v", err)

	require.NoError(t, e.tasks.Delete(ctx, alice.User.ID, task.ID))
	require.NoError(t, e.users.Delete(ctx, alice.User.ID, alice.User.ID))
}
