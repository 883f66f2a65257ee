// Package testutil provides an in-process fake of the storefront backend
// for client and host tests, plus canned session fixtures.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DeclineCard is the card number the fake backend declines. The order is
// still recorded first, so the error body carries its ID, matching the
// sequence the real backend produces when payment fails after the order
// row is persisted.
const DeclineCard = "4000000000000002"

type fakeUser struct {
	ID       int64
	Username string
	Email    string
	Password string
	IsStaff  bool
	Token    string
}

type fakeProduct struct {
	ID    int64
	Name  string
	Price string
	Image string
}

type fakeOrder struct {
	ID        int64
	UserID    int64
	Product   fakeProduct
	CardLast4 string
	Status    string
	CreatedAt time.Time
}

// FakeBackend is an in-process storefront backend. All state is
// mutex-guarded; handlers are safe for concurrent requests.
type FakeBackend struct {
	mu         sync.Mutex
	server     *httptest.Server
	users      map[string]*fakeUser // by username
	byToken    map[string]*fakeUser
	products   map[int64]fakeProduct
	orders     []fakeOrder
	nextUserID int64
	nextOrder  int64
}

// NewFakeBackend starts a fake backend and registers its shutdown with t.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		users:      make(map[string]*fakeUser),
		byToken:    make(map[string]*fakeUser),
		products:   make(map[int64]fakeProduct),
		nextUserID: 1,
		nextOrder:  1,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login/", f.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/register/", f.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/me/", f.handleMe).Methods(http.MethodGet)
	api.HandleFunc("/orders/", f.handleCreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/", f.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/", f.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/admin/orders/", f.handleAdminOrders).Methods(http.MethodGet)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// BaseURL returns the API root, trailing slash included.
func (f *FakeBackend) BaseURL() string {
	return f.server.URL + "/api/"
}

// AddUser seeds an account and returns its token.
func (f *FakeBackend) AddUser(username, password, email string, staff bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := &fakeUser{
		ID:       f.nextUserID,
		Username: username,
		Email:    email,
		Password: password,
		IsStaff:  staff,
		Token:    uuid.NewString(),
	}
	f.nextUserID++
	f.users[username] = u
	f.byToken[u.Token] = u
	return u.Token
}

// AddProduct seeds a product available for checkout.
func (f *FakeBackend) AddProduct(id int64, name, price, image string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = fakeProduct{ID: id, Name: name, Price: price, Image: image}
}

// OrderCount reports how many orders the backend has recorded.
func (f *FakeBackend) OrderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *FakeBackend) authenticate(r *http.Request) *fakeUser {
	header := r.Header.Get("Authorization")
	const prefix = "Token "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byToken[header[len(prefix):]]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func userJSON(u *fakeUser) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"is_staff": u.IsStaff,
	}
}

func orderJSON(o fakeOrder) map[string]any {
	return map[string]any{
		"id":             o.ID,
		"product":        o.Product.ID,
		"product_name":   o.Product.Name,
		"product_price":  o.Product.Price,
		"product_image":  o.Product.Image,
		"card_last_four": o.CardLast4,
		"status":         o.Status,
		"created_at":     o.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (f *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	u := f.users[req.Username]
	f.mu.Unlock()

	if u == nil || u.Password != req.Password {
		jsonError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": u.Token, "user": userJSON(u)})
}

func (f *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	if _, exists := f.users[req.Username]; exists {
		f.mu.Unlock()
		jsonError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	u := &fakeUser{
		ID:       f.nextUserID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Token:    uuid.NewString(),
	}
	f.nextUserID++
	f.users[u.Username] = u
	f.byToken[u.Token] = u
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"token": u.Token, "user": userJSON(u)})
}

func (f *FakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	u := f.authenticate(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, userJSON(u))
}

func (f *FakeBackend) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	u := f.authenticate(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req struct {
		ProductID  int64  `json:"product_id"`
		CardNumber string `json:"card_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f.mu.Lock()
	product, ok := f.products[req.ProductID]
	if !ok {
		f.mu.Unlock()
		jsonError(w, http.StatusNotFound, "Product not found")
		return
	}

	last4 := req.CardNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	order := fakeOrder{
		ID:        f.nextOrder,
		UserID:    u.ID,
		Product:   product,
		CardLast4: last4,
		Status:    "paid",
		CreatedAt: time.Now().UTC(),
	}
	f.nextOrder++

	if req.CardNumber == DeclineCard {
		order.Status = "failed"
		f.orders = append(f.orders, order)
		f.mu.Unlock()
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":    "Payment declined",
			"order_id": order.ID,
		})
		return
	}

	f.orders = append(f.orders, order)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, orderJSON(order))
}

func (f *FakeBackend) handleListOrders(w http.ResponseWriter, r *http.Request) {
	u := f.authenticate(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0)
	for _, o := range f.orders {
		if o.UserID == u.ID {
			out = append(out, orderJSON(o))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeBackend) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	u := f.authenticate(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		jsonError(w, http.StatusNotFound, "Order not found")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.orders {
		if o.ID == id && o.UserID == u.ID {
			writeJSON(w, http.StatusOK, orderJSON(o))
			return
		}
	}
	jsonError(w, http.StatusNotFound, "Order not found")
}

func (f *FakeBackend) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	u := f.authenticate(r)
	if u == nil {
		jsonError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if !u.IsStaff {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"detail": "You do not have permission to perform this action.",
		})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0)
	for _, o := range f.orders {
		owner := f.userByID(o.UserID)
		entry := orderJSON(o)
		entry["user"] = o.UserID
		if owner != nil {
			entry["username"] = owner.Username
			entry["user_email"] = owner.Email
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

// userByID is called with f.mu held.
func (f *FakeBackend) userByID(id int64) *fakeUser {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
