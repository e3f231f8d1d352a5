// Package route decides whether a navigation target is permitted for the
// current session. Authorize is a pure function so the full policy can be
// unit tested without I/O.
package route

import "github.com/nhle/tasktrack/internal/session"

// Route identifies a navigable screen by its path.
type Route string

const (
	Root          Route = "/"
	Login         Route = "/login"
	Signup        Route = "/signup"
	Projects      Route = "/projects"
	Notifications Route = "/notifications"
	Home          Route = "/home"
	Admin         Route = "/admin"
	Student       Route = "/student"
)

// Decision is the outcome of an authorization check: either proceed, or
// navigate to RedirectPath instead.
type Decision struct {
	Allowed      bool
	RedirectPath Route
}

// allow is the positive decision.
var allow = Decision{Allowed: true}

// redirectTo builds a redirect decision.
func redirectTo(r Route) Decision {
	return Decision{RedirectPath: r}
}

// roleRoutes maps role-scoped routes to the role they require.
var roleRoutes = map[Route]string{
	Admin:   "admin",
	Student: "student",
}

// DefaultPath returns the landing path for a role. Unrecognized and absent
// roles land on /home.
func DefaultPath(role string) Route {
	switch role {
	case "admin":
		return Admin
	case "student":
		return Student
	default:
		return Home
	}
}

// Authorize maps a navigation target and the current session to a decision.
//
// Public routes are always allowed. The root route resolves to /projects when
// authenticated and /login otherwise. Every other route requires a token;
// role-scoped routes additionally require a matching role, redirecting
// mismatches to the session role's own landing path.
func Authorize(target Route, sess session.Session) Decision {
	switch target {
	case Login, Signup:
		return allow
	case Root:
		if sess.Authenticated() {
			return redirectTo(Projects)
		}
		return redirectTo(Login)
	}

	if !sess.Authenticated() {
		return redirectTo(Login)
	}

	if required, ok := roleRoutes[target]; ok && sess.Role() != required {
		return redirectTo(DefaultPath(sess.Role()))
	}

	return allow
}
