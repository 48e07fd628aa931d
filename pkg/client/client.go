// Package client is a Go client for the ZenStudy backend API, plus a
// synchronization cache that mirrors the task list and stats locally so a UI
// stays responsive between polls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUnauthenticated means the token is absent, expired or rejected;
	// the caller must re-authenticate.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound means the record does not exist or belongs to another
	// account.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response that isn't covered by a sentinel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Task mirrors the wire representation of a task.
type Task struct {
	ID          int64  `json:"id"`
	AccountID   string `json:"userId"`
	Subject     string `json:"subject"`
	Deadline    string `json:"deadline"`
	Hours       int    `json:"hours"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"createdAt"`
	CompletedAt *int64 `json:"completedAt,omitempty"`
}

// Badge mirrors the wire representation of an unlocked badge.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	UnlockedAt  int64  `json:"unlockedAt"`
}

// Stats mirrors the wire representation of user statistics.
type Stats struct {
	AccountID      string  `json:"userId"`
	Points         int     `json:"points"`
	CompletedTasks int     `json:"completedTasks"`
	TotalTasks     int     `json:"totalTasks"`
	Streak         int     `json:"streak"`
	LastActivity   string  `json:"lastActivity,omitempty"`
	Badges         []Badge `json:"badges"`
	NewBadges      []Badge `json:"newBadges,omitempty"`
}

// Dashboard mirrors the aggregated dashboard response.
type Dashboard struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	PendingTasks   int     `json:"pendingTasks"`
	DailyProgress  int     `json:"dailyProgress"`
	WeeklyProgress int     `json:"weeklyProgress"`
	Points         int     `json:"points"`
	Streak         int     `json:"streak"`
	Badges         []Badge `json:"badges"`
	GrowthStage    int     `json:"growthStage"`
	GrowthMessage  string  `json:"growthMessage"`
	Tasks          []Task  `json:"tasks"`
}

// Session is the result of signup or login.
type Session struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

// NewTask is the payload for creating a task.
type NewTask struct {
	Subject  string `json:"subject"`
	Deadline string `json:"deadline"`
	Hours    int    `json:"hours"`
	Priority string `json:"priority,omitempty"`
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Subject  *string `json:"subject,omitempty"`
	Deadline *string `json:"deadline,omitempty"`
	Hours    *int    `json:"hours,omitempty"`
	Priority *string `json:"priority,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// TaskUpdate is an updated task plus badges the update unlocked.
type TaskUpdate struct {
	Task
	NewBadges []Badge `json:"newBadges,omitempty"`
}

// Client talks to a ZenStudy backend. It is safe for concurrent use after
// authentication; SetToken is not synchronized with in-flight calls.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the backend at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetToken sets the bearer token attached to authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Signup registers an account and stores the returned token on the client.
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"fullName": fullName,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Tasks fetches the account's tasks, deadline-ordered.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, task NewTask) (*Task, error) {
	var created Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch) (*TaskUpdate, error) {
	var updated TaskUpdate
	path := fmt.Sprintf("/api/tasks/%d", taskID)
	if err := c.do(ctx, http.MethodPut, path, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	path := fmt.Sprintf("/api/tasks/%d", taskID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Stats fetches the account's statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AddPoints records a reward event (e.g. a finished timer session).
func (c *Client) AddPoints(ctx context.Context, points int) (*Stats, error) {
	var stats Stats
	err := c.do(ctx, http.MethodPost, "/api/stats/addpoints", map[string]int{
		"points": points,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Dashboard fetches the aggregated dashboard view.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthenticated, apiErr.Error)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error)
		default:
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
