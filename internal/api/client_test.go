package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not send an Authorization header")
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding login body: %v", err)
		}
		if req["email"] != "a@b.com" || req["password"] != "x" {
			t.Fatalf("unexpected credentials: %v", req)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"token":    "t1",
			"user_id":  1,
			"username": "ana",
			"role":     "home",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	sess, err := c.Login(context.Background(), "a@b.com", "x")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if sess.Token != "t1" {
		t.Fatalf("expected token t1, got %q", sess.Token)
	}
	if sess.User == nil || sess.User.ID != 1 || sess.User.Role != "home" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
}

func TestLoginInvalidCredentialsIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if err == nil {
		t.Fatalf("expected an error")
	}
	if IsAuthError(err) {
		t.Fatalf("a login failure must not invalidate a session that does not exist")
	}

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if srvErr.Message != "Invalid credentials" {
		t.Fatalf("expected message from body, got %q", srvErr.Message)
	}
}

func TestListProjectsSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Fatalf("expected bearer token, got %q", got)
		}
		_, _ = w.Write([]byte(`{"data": [
			{"id": 1, "title": "Website Redesign", "description": "", "deadline": "2026-09-15T10:00:00Z", "notifications_enabled": true, "is_completed": false},
			{"id": 2, "title": "No Deadline", "description": "", "deadline": null, "notifications_enabled": false, "is_completed": true}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	projects, err := c.ListProjects(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if !projects[0].HasDeadline() {
		t.Fatalf("first project should have a deadline")
	}
	if projects[1].HasDeadline() {
		t.Fatalf("null deadline should parse as absent")
	}
}

func TestExpiredTokenIsAuthError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Token has expired"})
		}))

		c := NewClient(srv.URL, 5*time.Second)
		_, err := c.ListProjects(context.Background(), "stale")
		srv.Close()

		if !IsAuthError(err) {
			t.Fatalf("status %d: expected AuthError, got %T: %v", status, err, err)
		}

		var authErr *AuthError
		_ = errors.As(err, &authErr)
		if authErr.Message != "Token has expired" {
			t.Fatalf("expected message from body, got %q", authErr.Message)
		}
	}
}

func TestServerErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.ListProjects(context.Background(), "t1")

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if srvErr.Message != genericServerMessage {
		t.Fatalf("expected generic fallback, got %q", srvErr.Message)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListProjects(context.Background(), "t1")
	if !IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
	if IsAuthError(err) {
		t.Fatalf("a transport failure must not count as an auth failure")
	}
}

func TestDeleteProjectAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/projects/7" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if err := c.DeleteProject(context.Background(), "t1", 7); err != nil {
		t.Fatalf("DeleteProject() error: %v", err)
	}
}

func TestRetryOnRateLimit(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.ListProjects(context.Background(), "t1"); err != nil {
		t.Fatalf("ListProjects() after retry error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRateLimitExhaustionIsServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Too many requests"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.ListProjects(context.Background(), "t1")
	if err == nil {
		t.Fatalf("expected an error after exhausting retries")
	}
	if IsNetworkError(err) {
		t.Fatalf("a rate limit is a server response, not a transport failure")
	}

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if srvErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", srvErr.StatusCode)
	}
	if srvErr.Message != "Too many requests" {
		t.Fatalf("expected message from body, got %q", srvErr.Message)
	}
	if attempts != 4 {
		t.Fatalf("expected 4 attempts before giving up, got %d", attempts)
	}
}

func TestCreateProjectRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			t.Fatalf("decoding create body: %v", err)
		}
		if fields["title"] != "Launch" {
			t.Fatalf("unexpected title %v", fields["title"])
		}
		_, _ = w.Write([]byte(`{"data": {"id": 9, "title": "Launch", "description": "", "deadline": null, "notifications_enabled": true, "is_completed": false}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	p, err := c.CreateProject(context.Background(), "t1", ProjectFields{
		Title:                "Launch",
		NotificationsEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateProject() error: %v", err)
	}
	if p.ID != 9 {
		t.Fatalf("expected server-assigned id 9, got %d", p.ID)
	}
}
