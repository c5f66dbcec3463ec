package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	UserRepository
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, u models.User) (*models.User, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, u models.User) (*models.User, error) {
	return m.CreateFunc(ctx, u)
}

type mockIssuer struct {
	IssueFunc func(userID int64) (string, time.Time, error)
}

func (m *mockIssuer) Issue(userID int64) (string, time.Time, error) {
	return m.IssueFunc(userID)
}

func TestRegisterThenLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	reg, err := e.auth.Register(ctx, NewUser{Email: "alice@example.com", DisplayName: "Alice", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice@example.com", reg.User.Email)

	login, err := e.auth.Login(ctx, "alice@example.com", "pw1")
	require.NoError(t, err)

	regID, err := e.tokens.Verify(reg.Token)
	require.NoError(t, err)
	loginID, err := e.tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, regID, loginID)
	assert.Equal(t, reg.User.ID, loginID)
}

func TestRegister_DuplicateEmailKeepsFirstUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.register(t, "alice@example.com")

	_, err := e.auth.Register(ctx, NewUser{Email: "alice@example.com", DisplayName: "Impostor", Password: "other"})
	assert.True(t, errors.Is(err, models.ErrConflict), "got %v", err)

	u, err := e.users.Get(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.DisplayName)

	_, err = e.auth.Login(ctx, "alice@example.com", "other")
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))
}

func TestRegister_Validation(t *testing.T) {
	e := newEnv(t)
	cases := []NewUser{
		{DisplayName: "A", Password: "pw"},
		{Email: "a@example.com", Password: "pw"},
		{Email: "a@example.com", DisplayName: "A"},
		{Email: "not-an-email", DisplayName: "A", Password: "pw"},
		{Email: "   ", DisplayName: "A", Password: "pw"},
	}
	for _, in := range cases {
		_, err := e.auth.Register(context.Background(), in)
		assert.True(t, errors.Is(err, models.ErrValidation), "input %+v: got %v", in, err)
	}
	assert.Zero(t, e.store.Writes)
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice@example.com")

	_, err := e.auth.Login(context.Background(), "alice@example.com", "wrong")
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))

	_, err = e.auth.Login(context.Background(), "nobody@example.com", "pw")
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))

	_, err = e.auth.Login(context.Background(), "", "")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestLogin_EmailIsCaseSensitive(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice@example.com")

	_, err := e.auth.Login(context.Background(), "Alice@example.com", "pw-alice@example.com")
	assert.True(t, errors.Is(err, models.ErrUnauthenticated))
}

func TestLogin_StoreError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockUserRepo{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, wantErr
		},
	}
	svc := NewAuthService(repo, &mockIssuer{})

	_, err := svc.Login(context.Background(), "alice@example.com", "pw")
	assert.ErrorIs(t, err, wantErr)
}

func TestRegister_IssuerError(t *testing.T) {
	wantErr := errors.New("sign failed")
	repo := &mockUserRepo{
		CreateFunc: func(ctx context.Context, u models.User) (*models.User, error) {
			if u.PasswordHash == "" || u.PasswordHash == "pw" {
				t.Errorf("Create received unhashed password %q", u.PasswordHash)
			}
			u.ID = 5
			return &u, nil
		},
	}
	issuer := &mockIssuer{IssueFunc: func(userID int64) (string, time.Time, error) {
		return "", time.Time{}, wantErr
	}}
	svc := NewAuthService(repo, issuer)

	_, err := svc.Register(context.Background(), NewUser{Email: "a@example.com", DisplayName: "A", Password: "pw"})
	assert.ErrorIs(t, err, wantErr)
}
