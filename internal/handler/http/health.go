package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"procure-notify/internal/handler/http/respond"
)

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the status of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler reports process health: database connectivity plus the
// configuration state of each delivery channel. A disabled channel is
// informational, not a failure.
type HealthHandler struct {
	DB      *sql.DB
	Version string

	PushEnabled       bool
	EmailTransport    string // empty when no transport is configured
	WebhookConfigured bool
}

// ServeHTTP answers 200 when the database is reachable, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	healthy := true

	if h.DB == nil {
		checks["database"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		healthy = false
	} else if err := h.DB.PingContext(ctx); err != nil {
		checks["database"] = CheckStatus{Status: "unhealthy", Message: err.Error()}
		healthy = false
	} else {
		checks["database"] = CheckStatus{Status: "healthy"}
	}

	checks["push"] = channelCheck(h.PushEnabled, "VAPID keys not configured")
	if h.EmailTransport != "" {
		checks["email"] = CheckStatus{Status: "healthy", Message: h.EmailTransport}
	} else {
		checks["email"] = CheckStatus{Status: "disabled", Message: "no mail transport configured"}
	}
	checks["webhook"] = channelCheck(h.WebhookConfigured, "webhook URL not configured")

	status := "healthy"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func channelCheck(enabled bool, reason string) CheckStatus {
	if enabled {
		return CheckStatus{Status: "healthy"}
	}
	return CheckStatus{Status: "disabled", Message: reason}
}
