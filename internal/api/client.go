// Package api is the HTTP client for the Task Track REST API. Every
// operation returns a typed error (AuthError, ServerError, NetworkError)
// instead of raising raw transport failures to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/session"
)

// Client issues authenticated JSON requests against the Task Track API.
// It handles Bearer token authentication and automatic retry with
// exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a client for the API rooted at baseURL. A timeout of
// zero uses 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 3,
	}
}

// Login exchanges credentials for a session. Invalid credentials surface as
// a ServerError carrying the API's message; Login never returns an AuthError
// because there is no session to invalidate yet.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", "", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return session.Session{}, err
	}

	return session.Session{
		Token: resp.Token,
		User: &model.User{
			ID:       resp.UserID,
			Username: resp.Username,
			Role:     resp.Role,
		},
	}, nil
}

// Signup registers a new account. The caller logs in separately afterwards.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/signup", "", signupRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil)
}

// ListProjects fetches all projects visible to the token's account.
func (c *Client) ListProjects(ctx context.Context, token string) ([]model.Project, error) {
	var resp projectListResponse
	if err := c.do(ctx, http.MethodGet, "/api/projects", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateProject creates a project and returns the server's copy.
func (c *Client) CreateProject(ctx context.Context, token string, fields ProjectFields) (model.Project, error) {
	var resp projectResponse
	if err := c.do(ctx, http.MethodPost, "/api/projects", token, fields, &resp); err != nil {
		return model.Project{}, err
	}
	return resp.Data, nil
}

// UpdateProject replaces the editable fields of a project.
func (c *Client) UpdateProject(ctx context.Context, token string, id int, fields ProjectFields) (model.Project, error) {
	var resp projectResponse
	path := fmt.Sprintf("/api/projects/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, fields, &resp); err != nil {
		return model.Project{}, err
	}
	return resp.Data, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, token string, id int) error {
	path := fmt.Sprintf("/api/projects/%d", id)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// do is the core HTTP method that builds the request, attaches the bearer
// token, retries on rate limiting, and translates responses into the error
// taxonomy. A 401/403 becomes an AuthError only on authenticated calls; on
// login and signup it is an ordinary ServerError ("invalid credentials").
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	token string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path
	op := method + " " + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastRateLimitBody []byte
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &NetworkError{Op: op, Err: err}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return &NetworkError{Op: op, Err: readErr}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastRateLimitBody = respBody

			select {
			case <-ctx.Done():
				return &NetworkError{Op: op, Err: ctx.Err()}
			case <-time.After(waitDuration):
				continue
			}
		}

		if token != "" &&
			(resp.StatusCode == http.StatusUnauthorized ||
				resp.StatusCode == http.StatusForbidden) {
			return &AuthError{
				StatusCode: resp.StatusCode,
				Message:    extractMessage(respBody, "Your session has expired. Please log in again."),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &ServerError{
				StatusCode: resp.StatusCode,
				Message:    extractMessage(respBody, genericServerMessage),
			}
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return &NetworkError{
				Op:  op,
				Err: fmt.Errorf("unmarshaling response: %w", err),
			}
		}

		return nil
	}

	// Every attempt came back 429. The server answered each time, so this is
	// a server-side refusal, not a transport failure.
	return &ServerError{
		StatusCode: http.StatusTooManyRequests,
		Message:    extractMessage(lastRateLimitBody, "Rate limited. Please try again later."),
	}
}

// extractMessage pulls the user-displayable message out of a failure body,
// falling back when the body carries none.
func extractMessage(body []byte, fallback string) string {
	var msg messageResponse
	if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
		return msg.Message
	}
	return fallback
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
