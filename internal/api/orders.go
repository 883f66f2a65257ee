package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateOrder submits a checkout for the product, charging the given
// card. Creation is not idempotent: submitting twice creates two orders.
// On failure the error is an *OrderError; when the backend persisted an
// order before the payment was declined, the error identifies it via
// OrderRecorded and CreatedOrderID.
//
// The card number travels raw in the request body, as the backend
// contract requires; it is never logged by this client.
func (c *Client) CreateOrder(ctx context.Context, token string, productID int64, cardNumber string) (Order, error) {
	resp, err := c.do(ctx, http.MethodPost, "orders/", token, map[string]any{
		"product_id":  productID,
		"card_number": cardNumber,
	})
	if err != nil {
		return Order{}, err
	}
	if !resp.ok() {
		return Order{}, orderFailure(resp, msgCreateFailed)
	}

	var order Order
	if err := resp.decode(&order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Orders lists the session user's orders, in the order the backend
// returns them.
func (c *Client) Orders(ctx context.Context, token string) ([]Order, error) {
	resp, err := c.do(ctx, http.MethodGet, "orders/", token, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &OrderError{Message: msgFetchOrders, StatusCode: resp.StatusCode}
	}

	var orders []Order
	if err := resp.decode(&orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one order by ID.
func (c *Client) Order(ctx context.Context, token string, orderID int64) (Order, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("orders/%d/", orderID), token, nil)
	if err != nil {
		return Order{}, err
	}
	if !resp.ok() {
		return Order{}, &OrderError{Message: msgFetchOrder, StatusCode: resp.StatusCode}
	}

	var order Order
	if err := resp.decode(&order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// AdminOrders lists orders across all users. It requires a privileged
// session: HTTP 403 fails with the admin-specific message so callers can
// show an access-denied state distinct from a server failure.
func (c *Client) AdminOrders(ctx context.Context, token string) ([]AdminOrder, error) {
	resp, err := c.do(ctx, http.MethodGet, "admin/orders/", token, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, &OrderError{Message: msgAdminForbidden, StatusCode: resp.StatusCode}
	}
	if !resp.ok() {
		return nil, &OrderError{Message: msgFetchOrders, StatusCode: resp.StatusCode}
	}

	var orders []AdminOrder
	if err := resp.decode(&orders); err != nil {
		return nil, err
	}
	return orders, nil
}
