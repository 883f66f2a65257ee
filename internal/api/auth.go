package api

import (
	"context"
	"net/http"

	"github.com/tinythreads/storefront/internal/session"
)

// Login authenticates with username and password and returns the
// resulting session. On failure the error is an *AuthError carrying the
// backend's message, or "Login failed" when the body has none. The
// caller decides whether and where to persist the session.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "auth/login/", "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return session.Session{}, err
	}
	if !resp.ok() {
		return session.Session{}, authFailure(resp, msgLoginFailed)
	}

	var auth authResponse
	if err := resp.decode(&auth); err != nil {
		return session.Session{}, err
	}
	return sessionFrom(auth), nil
}

// Register creates an account and returns the session for it. The
// fallback failure message is "Registration failed".
func (c *Client) Register(ctx context.Context, username, email, password string) (session.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "auth/register/", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return session.Session{}, err
	}
	if !resp.ok() {
		return session.Session{}, authFailure(resp, msgRegisterFailed)
	}

	var auth authResponse
	if err := resp.decode(&auth); err != nil {
		return session.Session{}, err
	}
	return sessionFrom(auth), nil
}

// CurrentUser validates the token against the backend and returns the
// user it identifies. Identity checks surface no structured error: any
// non-success status fails with the generic "Token validation failed".
func (c *Client) CurrentUser(ctx context.Context, token string) (User, error) {
	resp, err := c.do(ctx, http.MethodGet, "auth/me/", token, nil)
	if err != nil {
		return User{}, err
	}
	if !resp.ok() {
		return User{}, &AuthError{Message: msgTokenInvalid, StatusCode: resp.StatusCode}
	}

	var user User
	if err := resp.decode(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

func sessionFrom(auth authResponse) session.Session {
	return session.Session{
		UserID:   auth.User.ID,
		Username: auth.User.Username,
		Email:    auth.User.Email,
		IsAdmin:  auth.User.IsStaff,
		Token:    auth.Token,
	}
}
