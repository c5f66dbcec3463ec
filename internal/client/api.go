package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/taskkeeper/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.Status, e.Message)
}

// Session is what register and login return.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// API talks to the task server. Token, when set, is sent as a bearer token.
type API struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

// NewAPI returns an API for baseURL with a default timeout.
func NewAPI(baseURL string) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register creates an account and returns its session.
func (a *API) Register(ctx context.Context, email, displayName, password string) (*Session, error) {
	var s Session
	err := a.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":       email,
		"displayName": displayName,
		"password":    password,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Login exchanges credentials for a session.
func (a *API) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := a.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Dashboard returns the caller's tasks with their items.
func (a *API) Dashboard(ctx context.Context) ([]models.Task, error) {
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTask adds a task. due is RFC 3339 or YYYY-MM-DD.
func (a *API) CreateTask(ctx context.Context, title, description, due string) (*models.Task, error) {
	var t models.Task
	err := a.do(ctx, http.MethodPost, "/api/tasks", map[string]any{
		"title":       title,
		"description": description,
		"dueAt":       due,
	}, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask sends a partial update; only the keys in fields change.
func (a *API) UpdateTask(ctx context.Context, id int64, fields map[string]any) (*models.Task, error) {
	var t models.Task
	if err := a.do(ctx, http.MethodPut, "/api/tasks/"+strconv.FormatInt(id, 10), fields, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask removes a task and its items.
func (a *API) DeleteTask(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, "/api/tasks/"+strconv.FormatInt(id, 10), nil, nil)
}

// CreateItem adds an item to one of the caller's tasks.
func (a *API) CreateItem(ctx context.Context, taskID int64, title, description string) (*models.Item, error) {
	var it models.Item
	err := a.do(ctx, http.MethodPost, "/api/items", map[string]any{
		"taskId":      taskID,
		"title":       title,
		"description": description,
	}, &it)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Items lists the items of a task.
func (a *API) Items(ctx context.Context, taskID int64) ([]models.Item, error) {
	var items []models.Item
	q := url.Values{"taskId": {strconv.FormatInt(taskID, 10)}}
	if err := a.do(ctx, http.MethodGet, "/api/items?"+q.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteItem removes an item.
func (a *API) DeleteItem(ctx context.Context, id int64) error {
	return a.do(ctx, http.MethodDelete, "/api/items/"+strconv.FormatInt(id, 10), nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}
