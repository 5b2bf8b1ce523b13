package notification

import (
	"net/http"
	"strconv"

	"procure-notify/internal/handler/http/respond"
	"procure-notify/internal/repository"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

type LogsHandler struct{ Logs repository.DeliveryLogRepository }

// ServeHTTP returns the most recent delivery log rows, newest first. The
// optional limit query parameter is clamped to a sane range.
func (h LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.SafeError(w, http.StatusBadRequest,
				&invalidLimitError{raw: raw})
			return
		}
		limit = n
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	logs, err := h.Logs.ListRecent(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]logDTO, 0, len(logs))
	for _, log := range logs {
		dtos = append(dtos, logDTO{
			ID:           log.ID,
			SentBy:       log.SentBy,
			Channel:      log.Channel,
			Subject:      log.Subject,
			TargetCount:  log.TargetCount,
			SuccessCount: log.SuccessCount,
			Metadata:     log.Metadata,
			CreatedAt:    log.CreatedAt,
		})
	}
	respond.JSON(w, http.StatusOK, map[string]any{"logs": dtos})
}

type invalidLimitError struct{ raw string }

func (e *invalidLimitError) Error() string {
	return "limit must be a positive integer, got " + e.raw
}
