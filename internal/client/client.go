// Package client talks to the HR API on behalf of a session.Context.
//
// Successful register and login calls store the session; any 401 from a
// protected call clears it, so the next gate check redirects to login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hrhub/internal/gate"
	"hrhub/internal/model"
	"hrhub/internal/session"
)

// SessionExpiredMessage is what users are shown once the server rejects
// the stored token.
const SessionExpiredMessage = "Session expired, please log in again"

// ErrSessionExpired is returned after the server rejected the stored token.
var ErrSessionExpired = errors.New("session expired")

// APIError carries the server's error message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client is an HR API client bound to one session.
type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Context
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// New creates a Client for the API at baseURL.
func New(baseURL string, sess *session.Context, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		sess:    sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session context the client reads and updates.
func (c *Client) Session() *session.Context { return c.sess }

// Navigate evaluates the gate for route against the current session.
func (c *Client) Navigate(route string) gate.Decision {
	return gate.CanAccess(c.sess.Current(), route)
}

func (c *Client) Register(ctx context.Context, name, email, password string) (model.Profile, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/register", body)
}

func (c *Client) Login(ctx context.Context, email, password string) (model.Profile, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (model.Profile, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp, false); err != nil {
		return model.Profile{}, err
	}
	if resp.Token == "" {
		return model.Profile{}, errors.New("server returned no token")
	}
	if err := c.sess.SetSession(ctx, resp.Token, resp.User); err != nil {
		return resp.User, fmt.Errorf("save session: %w", err)
	}
	return resp.User, nil
}

// Logout asks the server to revoke the token, then always clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	if c.sess.Current().IsAuthenticated() {
		_ = c.do(ctx, http.MethodPost, "/api/logout", nil, nil, true)
	}
	return c.sess.ClearSession(ctx)
}

func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	var resp struct {
		User model.Profile `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/me", nil, &resp, true)
	return resp.User, err
}

func (c *Client) Navigation(ctx context.Context) ([]gate.NavItem, error) {
	var resp struct {
		Items []gate.NavItem `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/api/navigation", nil, &resp, true)
	return resp.Items, err
}

// Employees lists employees. Salary is only populated for admin sessions.
func (c *Client) Employees(ctx context.Context, filters model.EmployeeFilters) ([]model.EmployeeView, error) {
	q := url.Values{}
	if filters.Department != nil && *filters.Department != "" {
		q.Set("department", *filters.Department)
	}
	if filters.Status != nil && *filters.Status != "" {
		q.Set("status", *filters.Status)
	}
	var employees []model.EmployeeView
	err := c.do(ctx, http.MethodGet, withQuery("/api/employees", q), nil, &employees, true)
	return employees, err
}

func (c *Client) Leaves(ctx context.Context, filters model.LeaveFilters) ([]model.LeaveRequest, error) {
	q := url.Values{}
	if filters.EmployeeID != nil {
		q.Set("employee_id", strconv.FormatInt(*filters.EmployeeID, 10))
	}
	if filters.Status != nil && *filters.Status != "" {
		q.Set("status", *filters.Status)
	}
	var leaves []model.LeaveRequest
	err := c.do(ctx, http.MethodGet, withQuery("/api/leave", q), nil, &leaves, true)
	return leaves, err
}

func (c *Client) Attendance(ctx context.Context, filters model.AttendanceFilters) ([]model.AttendanceRecord, error) {
	q := url.Values{}
	if filters.EmployeeID != nil {
		q.Set("employee_id", strconv.FormatInt(*filters.EmployeeID, 10))
	}
	if filters.Date != nil {
		q.Set("date", filters.Date.Format(time.DateOnly))
	}
	var records []model.AttendanceRecord
	err := c.do(ctx, http.MethodGet, withQuery("/api/attendance", q), nil, &records, true)
	return records, err
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func (c *Client) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &stats, true); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var token string
	if authed {
		current := c.sess.Current()
		if !current.IsAuthenticated() {
			return gate.ErrUnauthenticated
		}
		token = current.Token()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if authed && resp.StatusCode == http.StatusUnauthorized {
		if err := c.sess.ClearSession(ctx); err != nil {
			return errors.Join(ErrSessionExpired, err)
		}
		return ErrSessionExpired
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
