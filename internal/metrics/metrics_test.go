package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOperationLabel(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/orders/", "/api/orders"},
		{"/api/orders/42/", "/api/orders/{id}"},
		{"/api/auth/login/", "/api/auth/login"},
		{"/api/admin/orders/", "/api/admin/orders"},
	}
	for _, tc := range cases {
		if got := operationLabel(tc.path); got != tc.want {
			t.Errorf("operationLabel(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestTransportRecordsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := New(reg)
	client := &http.Client{Transport: m.Transport(nil)}

	resp, err := client.Get(server.URL + "/api/orders/7/")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	count := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/orders/{id}", http.MethodGet, "200"))
	if count != 1 {
		t.Errorf("requests_total = %v, want 1", count)
	}
	if inFlight := testutil.ToFloat64(m.inFlight); inFlight != 0 {
		t.Errorf("in_flight after request = %v, want 0", inFlight)
	}
}
