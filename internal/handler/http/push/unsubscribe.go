package push

import (
	"net/http"

	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/handler/http/respond"
	notifUC "procure-notify/internal/usecase/notification"
)

type UnsubscribeHandler struct{ Svc *notifUC.Service }

// ServeHTTP removes every push registration of the verified caller.
func (h UnsubscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())

	removed, err := h.Svc.Unsubscribe(r.Context(), principal.UserID)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, unsubscribeResponse{Removed: removed})
}
