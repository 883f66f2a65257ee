package api

import "encoding/json"

// Fallback messages used when the backend supplies no structured error.
// These strings are part of the client contract; callers match on them.
const (
	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgTokenInvalid   = "Token validation failed"
	msgCreateFailed   = "Order creation failed"
	msgFetchOrders    = "Failed to fetch orders"
	msgFetchOrder     = "Failed to fetch order"
	msgAdminForbidden = "Access denied. Admin privileges required."
)

// AuthError is a failed authentication operation.
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string { return e.Message }

// OrderError is a failed order operation. When the backend records an
// order despite the failure (payment declined after the order row was
// persisted), OrderRecorded is true and CreatedOrderID identifies it;
// callers branch on this to show the failed order instead of nothing.
type OrderError struct {
	Message        string
	StatusCode     int
	OrderRecorded  bool
	CreatedOrderID int64
}

func (e *OrderError) Error() string { return e.Message }

// errorBody is the backend's error envelope. order_id is only ever
// present on order creation.
type errorBody struct {
	Error   string `json:"error"`
	OrderID *int64 `json:"order_id"`
}

// authFailure builds an AuthError from a non-success response, preferring
// the server-supplied message over the fallback.
func authFailure(resp *response, fallback string) *AuthError {
	var body errorBody
	_ = json.Unmarshal(resp.Body, &body)

	msg := body.Error
	if msg == "" {
		msg = fallback
	}
	return &AuthError{Message: msg, StatusCode: resp.StatusCode}
}

// orderFailure builds an OrderError from a non-success response,
// carrying through a recorded order ID when the backend reports one.
func orderFailure(resp *response, fallback string) *OrderError {
	var body errorBody
	_ = json.Unmarshal(resp.Body, &body)

	msg := body.Error
	if msg == "" {
		msg = fallback
	}
	e := &OrderError{Message: msg, StatusCode: resp.StatusCode}
	if body.OrderID != nil {
		e.OrderRecorded = true
		e.CreatedOrderID = *body.OrderID
	}
	return e
}
