// Package session holds the client-side record of an authenticated user
// and the stores that persist it between runs.
package session

import "errors"

// ErrNoSession reports that no session is stored.
var ErrNoSession = errors.New("no session")

// Session is the client-held record of an authenticated user and their
// bearer token. A Session is all-or-nothing: either every field is
// populated from an auth response, or the session is absent entirely.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
	Token    string `json:"token"`
}

// Present reports whether the session represents an authenticated user.
// The zero value is absent.
func (s Session) Present() bool {
	return s.UserID != 0 && s.Token != ""
}
