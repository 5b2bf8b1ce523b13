package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected generated request ID in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("header %q != context %q", got, seen)
	}
}

func TestMiddlewarePropagatesID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "upstream-id" {
		t.Fatalf("context id = %q, want upstream-id", seen)
	}
}

func TestFromContextMissing(t *testing.T) {
	if got := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
