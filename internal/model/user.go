package model

// User is the account profile cached alongside the access token after a
// successful login.
type User struct {
	// ID is the server-assigned account identifier.
	ID int `json:"id"`

	// Username is the display name chosen at signup.
	Username string `json:"username"`

	// Role is the optional access role ("admin", "student"). Empty for
	// accounts without a role assignment.
	Role string `json:"role,omitempty"`
}
