package api

import "time"

// User is the backend's user record as returned by auth endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// Order is a single checkout transaction. It is immutable from the
// client's perspective after creation; status transitions are observed
// by re-fetching.
type Order struct {
	ID           int64       `json:"id"`
	ProductID    int64       `json:"product"`
	ProductName  string      `json:"product_name"`
	ProductPrice string      `json:"product_price"`
	ProductImage string      `json:"product_image"`
	CardLastFour string      `json:"card_last_four"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AdminOrder is an Order with its owner attached, visible only to
// privileged sessions.
type AdminOrder struct {
	Order
	OwnerID       int64  `json:"user"`
	OwnerUsername string `json:"username"`
	OwnerEmail    string `json:"user_email"`
}

// authResponse is the success body of login and register.
type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
