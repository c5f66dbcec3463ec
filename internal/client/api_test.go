package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/middleware"
	"github.com/atinyakov/taskkeeper/internal/repository/memrepo"
	api "github.com/atinyakov/taskkeeper/internal/server/handler/http"
	"github.com/atinyakov/taskkeeper/internal/service"
	"go.uber.org/zap"
)

// roundTripperFunc mocks the transport of an http.Client.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestAPI(fn roundTripperFunc) *API {
	return &API{BaseURL: "http://example.com", HTTP: &http.Client{Transport: fn, Timeout: time.Second}}
}

// newServer runs the real router over an in-memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memrepo.New()
	tokens, err := auth.NewTokens("client-test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	owner := service.NewOwnership(store.Tasks(), store.Items())
	router := api.NewRouter(api.Handlers{
		Auth:  &api.AuthHandler{AuthService: service.NewAuthService(store.Users(), tokens)},
		Tasks: &api.TaskHandler{TaskService: service.NewTaskService(store.Tasks(), store.Items(), owner)},
		Items: &api.ItemHandler{ItemService: service.NewItemService(store.Items(), owner)},
		Users: &api.UserHandler{UserService: service.NewUserService(store.Users())},
		Gate:  middleware.Authenticate(tokens, auth.HeaderOnly, zap.NewNop()),
	}, zap.NewNop())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestAPI_NetworkError(t *testing.T) {
	a := newTestAPI(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})
	_, err := a.Dashboard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Errorf("expected network failure, got %v", err)
	}
}

func TestAPI_ServerError(t *testing.T) {
	a := newTestAPI(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"error":"not found"}`)),
		}, nil
	})
	_, err := a.UpdateTask(context.Background(), 3, map[string]any{"title": "x"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "not found" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestAPI_PlainTextError(t *testing.T) {
	a := newTestAPI(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("bad gateway\n")),
		}, nil
	})
	err := a.DeleteTask(context.Background(), 1)
	if err == nil || err.Error() != "server error: 502 bad gateway" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestAPI_InvalidJSON(t *testing.T) {
	a := newTestAPI(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("not-json")),
		}, nil
	})
	_, err := a.Dashboard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("expected JSON decode error, got %v", err)
	}
}

func TestAPI_SendsBearerToken(t *testing.T) {
	var got string
	a := newTestAPI(func(req *http.Request) (*http.Response, error) {
		got = req.Header.Get("Authorization")
		return &http.Response{StatusCode: http.StatusNoContent, Body: io.NopCloser(strings.NewReader(""))}, nil
	})
	a.Token = "tok"
	if err := a.DeleteItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestAPI_AgainstServer(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	alice := NewAPI(srv.URL)
	sess, err := alice.Register(ctx, "alice@example.com", "Alice", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	alice.Token = sess.Token

	task, err := alice.CreateTask(ctx, "T1", "", "2025-01-01")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := alice.CreateItem(ctx, task.ID, "milk", ""); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := alice.UpdateTask(ctx, task.ID, map[string]any{"completed": true}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	tasks, err := alice.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].Completed || len(tasks[0].Items) != 1 {
		t.Fatalf("unexpected dashboard %+v", tasks)
	}

	bob := NewAPI(srv.URL)
	bobSess, err := bob.Register(ctx, "bob@example.com", "Bob", "pw")
	if err != nil {
		t.Fatalf("Register bob: %v", err)
	}
	bob.Token = bobSess.Token

	var apiErr *APIError
	err = bob.DeleteTask(ctx, task.ID)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("bob DeleteTask = %v; want 404", err)
	}
	if _, err := bob.Items(ctx, task.ID); !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("bob Items = %v; want 404", err)
	}

	if _, err := alice.Login(ctx, "alice@example.com", "wrong"); !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Login with wrong password = %v; want 401", err)
	}
}
