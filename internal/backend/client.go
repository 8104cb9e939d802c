// Package backend wraps the hosted auth + REST row service the tracker
// delegates identity and persistence to. The client holds no session state:
// the bearer token is an explicit argument on every authenticated call.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 15 * time.Second

// Config configures the backend client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client issues authenticated calls against the hosted backend.
type Client struct {
	http   *resty.Client
	apiKey string
	logger zerolog.Logger
	tracer trace.Tracer
}

// UserMetadata carries the profile attributes stored with the auth user.
type UserMetadata struct {
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

// User is the identity returned by the auth endpoints.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

// Session is the result of a successful sign-in or sign-up.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

// RequestError is returned for any non-2xx backend response.
type RequestError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *RequestError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend error: %s: %s", e.StatusText, e.Body)
	}
	return fmt.Sprintf("backend error: %s", e.StatusText)
}

// New builds a backend client for the given base URL and API key.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base url must not be empty")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("backend api key must not be empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout)

	return &Client{
		http:   httpClient,
		apiKey: cfg.APIKey,
		logger: cfg.Logger.With().Str("component", "backend_client").Logger(),
		tracer: otel.Tracer("github.com/finbudd/cfa-tracker-api/internal/backend"),
	}, nil
}

// SignUp registers a new user and returns the opened session.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (Session, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]interface{}{"name": name},
	}

	var session Session
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   payload,
		out:    &session,
	}); err != nil {
		return Session{}, err
	}

	return session, nil
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	payload := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  "grant_type=password",
		body:   payload,
		out:    &session,
	}); err != nil {
		return Session{}, err
	}

	return session, nil
}

// SignOut revokes the session behind the given token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		token:  token,
	})
}

// GetUser resolves the identity behind a token. An invalid or expired session
// yields a nil user rather than an error; callers treat nil as "no active
// session".
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	var user User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/user",
		token:  token,
		out:    &user,
	})
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && (reqErr.Status == http.StatusUnauthorized || reqErr.Status == http.StatusForbidden) {
			return nil, nil
		}
		return nil, err
	}

	if user.ID == "" {
		return nil, nil
	}

	return &user, nil
}

// Select fetches rows from a collection. filter is a raw querystring filter
// expression such as "student_id=eq.<id>". An empty response body leaves out
// untouched.
func (c *Client) Select(ctx context.Context, token, collection, filter string, out interface{}) error {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/" + collection,
		query:  filter,
		token:  token,
		out:    out,
	})
}

// Insert appends a row to a collection, decoding the stored representation
// into out when non-nil.
func (c *Client) Insert(ctx context.Context, token, collection string, record, out interface{}) error {
	return c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/rest/v1/" + collection,
		token:   token,
		body:    record,
		out:     out,
		headers: map[string]string{"Prefer": "return=representation"},
	})
}

// Update patches rows matching the filter expression.
func (c *Client) Update(ctx context.Context, token, collection string, record interface{}, filter string) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/" + collection,
		query:  filter,
		token:  token,
		body:   record,
	})
}

// Upsert inserts a row, merging into the existing one on key conflict instead
// of failing. conflictColumns names the unique key the server resolves on.
func (c *Client) Upsert(ctx context.Context, token, collection, conflictColumns string, record, out interface{}) error {
	return c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/rest/v1/" + collection,
		query:   "on_conflict=" + conflictColumns,
		token:   token,
		body:    record,
		out:     out,
		headers: map[string]string{"Prefer": "resolution=merge-duplicates,return=representation"},
	})
}

type request struct {
	method  string
	path    string
	query   string
	token   string
	body    interface{}
	out     interface{}
	headers map[string]string
}

func (c *Client) do(ctx context.Context, req request) error {
	ctx, span := c.tracer.Start(ctx, "backend "+req.method+" "+req.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.method),
			attribute.String("http.path", req.path),
		))
	defer span.End()

	r := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey)

	if req.token != "" {
		r.SetAuthToken(req.token)
	}
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}
	for key, value := range req.headers {
		r.SetHeader(key, value)
	}

	url := req.path
	if req.query != "" {
		url = url + "?" + req.query
	}

	resp, err := r.Execute(req.method, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("backend request failed: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.IsError() {
		reqErr := &RequestError{
			Status:     resp.StatusCode(),
			StatusText: resp.Status(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
		span.SetStatus(codes.Error, reqErr.StatusText)
		c.logger.Warn().
			Str("method", req.method).
			Str("path", req.path).
			Int("status", resp.StatusCode()).
			Msg("backend call failed")
		return reqErr
	}

	if req.out == nil {
		return nil
	}

	raw := bytes.TrimSpace(resp.Body())
	if len(raw) == 0 || resp.StatusCode() == http.StatusNoContent {
		// Empty body means "no data", never a decode failure.
		return nil
	}

	if err := json.Unmarshal(raw, req.out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response body")
		return fmt.Errorf("failed to decode backend response: %w", err)
	}

	return nil
}
