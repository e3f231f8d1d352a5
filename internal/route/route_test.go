package route

import (
	"testing"

	"github.com/nhle/tasktrack/internal/model"
	"github.com/nhle/tasktrack/internal/session"
)

func authed(role string) session.Session {
	return session.Session{
		Token: "t1",
		User:  &model.User{ID: 1, Username: "ana", Role: role},
	}
}

func TestPublicRoutesAlwaysAllowed(t *testing.T) {
	for _, target := range []Route{Login, Signup} {
		for _, sess := range []session.Session{{}, authed(""), authed("admin")} {
			d := Authorize(target, sess)
			if !d.Allowed {
				t.Fatalf("Authorize(%s) should allow, redirected to %s", target, d.RedirectPath)
			}
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	protected := []Route{Projects, Notifications, Home, Admin, Student}
	for _, target := range protected {
		d := Authorize(target, session.Session{})
		if d.Allowed {
			t.Fatalf("Authorize(%s) allowed without a token", target)
		}
		if d.RedirectPath != Login {
			t.Fatalf("Authorize(%s) redirected to %s, want %s", target, d.RedirectPath, Login)
		}
	}
}

func TestRootRoute(t *testing.T) {
	tests := []struct {
		name string
		sess session.Session
		want Route
	}{
		{"unauthenticated", session.Session{}, Login},
		{"authenticated", authed(""), Projects},
		{"authenticated admin", authed("admin"), Projects},
		{"authenticated student", authed("student"), Projects},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(Root, tt.sess)
			if d.Allowed {
				t.Fatalf("root route should always redirect")
			}
			if d.RedirectPath != tt.want {
				t.Fatalf("got redirect %s, want %s", d.RedirectPath, tt.want)
			}
		})
	}
}

func TestRoleScopedRoutes(t *testing.T) {
	tests := []struct {
		name   string
		target Route
		sess   session.Session
		allow  bool
		want   Route
	}{
		{"admin on /admin", Admin, authed("admin"), true, ""},
		{"student on /student", Student, authed("student"), true, ""},
		{"student on /admin", Admin, authed("student"), false, Student},
		{"admin on /student", Student, authed("admin"), false, Admin},
		{"roleless on /admin", Admin, authed(""), false, Home},
		{"unknown role on /student", Student, authed("guest"), false, Home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.target, tt.sess)
			if d.Allowed != tt.allow {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allow)
			}
			if !tt.allow && d.RedirectPath != tt.want {
				t.Fatalf("got redirect %s, want %s", d.RedirectPath, tt.want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	tests := []struct {
		role string
		want Route
	}{
		{"admin", Admin},
		{"student", Student},
		{"", Home},
		{"guest", Home},
	}

	for _, tt := range tests {
		if got := DefaultPath(tt.role); got != tt.want {
			t.Fatalf("DefaultPath(%q) = %s, want %s", tt.role, got, tt.want)
		}
	}
}

func TestFreshLoginSessionAuthorizesProjects(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.Set(session.Session{
		Token: "t1",
		User:  &model.User{ID: 1, Role: "home"},
	})

	d := Authorize(Projects, store.Get())
	if !d.Allowed {
		t.Fatalf("expected Allow for /projects after login, got redirect to %s", d.RedirectPath)
	}
}
