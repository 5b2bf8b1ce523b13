package push

import (
	"net/http"

	"procure-notify/internal/handler/http/respond"
	notifUC "procure-notify/internal/usecase/notification"
)

type PublicKeyHandler struct{ Svc *notifUC.Service }

// ServeHTTP hands out the VAPID public key, or 503 when the push channel is
// disabled for lack of a key pair.
func (h PublicKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, err := h.Svc.PublicKey()
	if err != nil {
		respond.SafeError(w, http.StatusServiceUnavailable, err)
		return
	}
	respond.JSON(w, http.StatusOK, publicKeyResponse{PublicKey: key})
}
