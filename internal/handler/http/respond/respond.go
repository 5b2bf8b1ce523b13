// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling with sanitization to prevent leaking sensitive information.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"procure-notify/internal/domain/entity"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// SafeError sanitizes error messages before returning them to users. Domain
// errors (validation, missing targets, channel configuration) carry messages
// written for the caller and are returned as-is. Everything else, and every
// 5xx, is logged with secrets masked and replaced by a generic message.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	if code < 500 && isSafe(err) {
		JSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// safeFragments marks messages a handler may hand back verbatim even when
// the error is a plain errors.New, such as the auth middleware's rejections.
var safeFragments = []string{
	"required",
	"invalid",
	"missing",
	"not found",
	"unauthorized",
	"forbidden",
	"must be",
}

func isSafe(err error) bool {
	var (
		verr *entity.ValidationError
		cerr *entity.ConfigurationError
	)
	if errors.As(err, &verr) || errors.As(err, &cerr) {
		return true
	}
	if errors.Is(err, entity.ErrNoTargets) || errors.Is(err, entity.ErrNotFound) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range safeFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
