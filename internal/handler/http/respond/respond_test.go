package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"procure-notify/internal/domain/entity"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body["error"]
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, 201, map[string]int{"count": 3})

	if rec.Code != 201 {
		t.Fatalf("code = %d, want 201", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
}

func TestSafeErrorPassesDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		code int
		err  error
	}{
		{"validation", 400, &entity.ValidationError{Field: "title", Message: "is required"}},
		{"configuration", 503, nil}, // filled below
		{"no targets", 404, entity.ErrNoTargets},
	}
	cases[1].err = &entity.ConfigurationError{Channel: entity.ChannelPush, Missing: "VAPID key pair"}
	cases[1].code = 400

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tc.code, tc.err)
			if msg := decodeError(t, rec); msg != tc.err.Error() {
				t.Fatalf("error = %q, want %q", msg, tc.err.Error())
			}
		})
	}
}

func TestSafeErrorMasksInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, 500, fmt.Errorf("dial tcp postgres://app:hunter2@db:5432: connection refused"))

	if msg := decodeError(t, rec); msg != "internal server error" {
		t.Fatalf("error = %q, want generic message", msg)
	}
}

func TestSafeErrorAllowsAuthMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, 401, errors.New("unauthorized: missing bearer token"))

	if msg := decodeError(t, rec); msg != "unauthorized: missing bearer token" {
		t.Fatalf("error = %q", msg)
	}
}

func TestSanitizeError(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgres://app:hunter2@db:5432 refused", "postgres://app:****@db:5432 refused"},
		{"request with Bearer eyJhbGciOi.secret failed", "request with Bearer **** failed"},
		{"auth client_secret=abc123 rejected", "auth client_secret=**** rejected"},
		{"plain message", "plain message"},
	}
	for _, tc := range cases {
		if got := SanitizeError(errors.New(tc.in)); got != tc.want {
			t.Fatalf("SanitizeError(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
