package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return &Client{
		http:      ts.Client(),
		serverURL: ts.URL,
	}
}

func TestPostAndGet(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))

	body, err := c.Post("/api/doses", []byte(`{"amount":1,"unit":"mg"}`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if string(body) != `{"status":"ok"}` {
		t.Errorf("body = %s", body)
	}

	if _, err := c.Get("/api/doses"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestErrorStatusSurfaced(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"amount must be positive"}`, http.StatusBadRequest)
	}))

	body, err := c.Post("/api/doses", []byte(`{"amount":-1,"unit":"mg"}`))
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if len(body) == 0 {
		t.Error("expected error body to be returned alongside the error")
	}
}

func TestDelete(t *testing.T) {
	var gotMethod string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"status":"deleted"}`))
	}))

	if _, err := c.Delete("/api/doses/abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
}

func TestHealthy(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))

	if !c.Healthy() {
		t.Error("Healthy = false, want true")
	}
}
