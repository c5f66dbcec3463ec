package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/models"
	"github.com/atinyakov/taskkeeper/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	session  *service.Session
	err      error
	gotUser  service.NewUser
	gotEmail string
}

func (f *fakeAuthService) Register(_ context.Context, in service.NewUser) (*service.Session, error) {
	f.gotUser = in
	return f.session, f.err
}

func (f *fakeAuthService) Login(_ context.Context, email, _ string) (*service.Session, error) {
	f.gotEmail = email
	return f.session, f.err
}

func testSession() *service.Session {
	return &service.Session{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.User{ID: 1, Email: "a@x.io", DisplayName: "A", PasswordHash: "secret-hash"},
	}
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request body",
		},
		{
			name:           "missing fields",
			body:           `{"email":""}`,
			service:        &fakeAuthService{err: fmt.Errorf("%w: email is required", models.ErrValidation)},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "email is required",
		},
		{
			name:           "email taken",
			body:           `{"email":"a@x.io","displayName":"A","password":"pw"}`,
			service:        &fakeAuthService{err: fmt.Errorf("create user: %w", models.ErrConflict)},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "conflict",
		},
		{
			name:           "storage failure",
			body:           `{"email":"a@x.io","displayName":"A","password":"pw"}`,
			service:        &fakeAuthService{err: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "created",
			body:           `{"email":"a@x.io","displayName":"A","password":"pw"}`,
			service:        &fakeAuthService{session: testSession()},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"token":"tok"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !strings.Contains(buf.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
			if strings.Contains(buf.String(), "secret-hash") {
				t.Error("password hash leaked into the response")
			}
		})
	}
}

func TestAuthHandler_RegisterPassesFields(t *testing.T) {
	svc := &fakeAuthService{session: testSession()}
	h := &AuthHandler{AuthService: svc}
	body := `{"email":"a@x.io","displayName":"Alice","password":"pw"}`
	h.Register(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader(body)))

	want := service.NewUser{Email: "a@x.io", DisplayName: "Alice", Password: "pw"}
	if svc.gotUser != want {
		t.Errorf("service got %+v, want %+v", svc.gotUser, want)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("bad credentials", func(t *testing.T) {
		h := &AuthHandler{AuthService: &fakeAuthService{err: models.ErrUnauthenticated}}
		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.io","password":"nope"}`)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("ok with cookie", func(t *testing.T) {
		svc := &fakeAuthService{session: testSession()}
		h := &AuthHandler{AuthService: svc, Transport: auth.HeaderThenCookie, CookieSecure: true}
		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.io","password":"pw"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.gotEmail != "a@x.io" {
			t.Errorf("service got email %q", svc.gotEmail)
		}

		var resp SessionResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Token != "tok" || resp.User.ID != 1 || resp.User.Email != "a@x.io" {
			t.Errorf("unexpected response %+v", resp)
		}

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected one cookie, got %d", len(cookies))
		}
		c := cookies[0]
		if c.Name != auth.CookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure {
			t.Errorf("unexpected cookie %+v", c)
		}
	})

	t.Run("header transport sets no cookie", func(t *testing.T) {
		h := &AuthHandler{AuthService: &fakeAuthService{session: testSession()}, Transport: auth.HeaderOnly}
		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@x.io","password":"pw"}`)))
		if len(rec.Result().Cookies()) != 0 {
			t.Error("expected no cookie for header transport")
		}
	})
}
