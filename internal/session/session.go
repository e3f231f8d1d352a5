package session

import "github.com/nhle/tasktrack/internal/model"

// Session is the client-held proof of authentication plus the cached user
// profile. The zero value means no session.
type Session struct {
	// Token is the opaque bearer token issued by the login endpoint.
	Token string

	// User is the profile returned alongside the token. Nil when absent.
	User *model.User
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Role returns the user's role, or the empty string when no user or role
// is present.
func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Store holds the current session. Set and Clear are atomic with respect to
// Get: a reader never observes a token without its user or vice versa.
// Get never fails; a store that cannot read its backend reports no session.
type Store interface {
	Set(s Session) error
	Get() Session
	Clear() error
}
