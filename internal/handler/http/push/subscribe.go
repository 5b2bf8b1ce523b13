package push

import (
	"encoding/json"
	"net/http"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/handler/http/respond"
	notifUC "procure-notify/internal/usecase/notification"
)

type SubscribeHandler struct{ Svc *notifUC.Service }

// ServeHTTP registers a push endpoint for the verified caller. The
// subscription is always bound to the caller's own user id; the body cannot
// name another user.
func (h SubscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.Svc.Subscribe(r.Context(), &entity.Subscriber{
		UserID:   principal.UserID,
		Endpoint: req.Endpoint,
		P256dh:   req.P256dh,
		Auth:     req.Auth,
	})
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
