package notification

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/handler/http/respond"
	"procure-notify/internal/usecase/dispatch"
	notifUC "procure-notify/internal/usecase/notification"
	"procure-notify/internal/usecase/resolve"
)

type SendHandler struct{ Svc *notifUC.Service }

// ServeHTTP resolves the targeting filters and fans the notification out to
// every matched user's devices. The response reports the aggregate count
// and the per-user outcomes, including failures.
func (h SendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := h.Svc.Notify(r.Context(), principal.UserID,
		resolve.TargetingSpec{
			UserIDs: req.UserIDs,
			Roles:   req.Roles,
			SiteID:  req.SiteID,
		},
		notifUC.Payload{
			Title: req.Title,
			Body:  req.Body,
			Data:  req.Data,
		})
	if err != nil {
		respondSendError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, buildSendResponse(summary))
}

func buildSendResponse(summary *dispatch.Summary) sendResponse {
	results := make([]sendResult, 0, len(summary.Results))
	for _, res := range summary.Results {
		results = append(results, sendResult{UserID: res.Recipient, Success: res.Success})
	}
	return sendResponse{
		Message: fmt.Sprintf("%d/%d delivered", summary.SuccessCount, summary.TargetCount),
		Results: results,
	}
}

// respondSendError maps use case errors to status codes: 400 for invalid
// input, 404 for an empty resolved target set, 503 for a disabled channel.
func respondSendError(w http.ResponseWriter, err error) {
	var (
		verr *entity.ValidationError
		cerr *entity.ConfigurationError
	)
	switch {
	case errors.As(err, &verr):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, entity.ErrNoTargets):
		respond.SafeError(w, http.StatusNotFound, err)
	case errors.As(err, &cerr):
		respond.SafeError(w, http.StatusServiceUnavailable, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
