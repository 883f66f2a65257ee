package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tinythreads/storefront/internal/logging"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without BaseURL should fail")
	}
}

func TestBaseURLGainsTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	// No trailing slash on the configured base URL.
	client := newTestClient(t, server.URL+"/api")
	_, _ = client.CurrentUser(context.Background(), "tok")

	if gotPath != "/api/auth/me/" {
		t.Errorf("request path = %q, want /api/auth/me/", gotPath)
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/")
	if _, err := client.CreateOrder(context.Background(), "tok-xyz", 4, "4111111111111111"); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if gotAuth != "Token tok-xyz" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Token tok-xyz")
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header should be set")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var sawHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"token":"t","user":{"id":1,"username":"u","email":"e","is_staff":false}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/")
	if _, err := client.Login(context.Background(), "u", "p"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sawHeader {
		t.Error("login request should carry no Authorization header")
	}
}

func TestTraceIDPropagatesAsRequestID(t *testing.T) {
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/")
	ctx := logging.WithTraceID(context.Background(), "trace-123")
	if _, err := client.Orders(ctx, "tok"); err != nil {
		t.Fatalf("Orders() error = %v", err)
	}

	if gotRequestID != "trace-123" {
		t.Errorf("X-Request-ID = %q, want trace-123", gotRequestID)
	}
}

func TestMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<!doctype html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/")
	if _, err := client.Orders(context.Background(), "tok"); err == nil {
		t.Error("Orders() with non-JSON body should fail")
	}
}
