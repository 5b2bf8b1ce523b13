package push

import (
	"net/http"

	"procure-notify/internal/handler/http/auth"
	notifUC "procure-notify/internal/usecase/notification"
)

// Register wires the push registration endpoints. All of them require an
// authenticated caller of any role.
func Register(mux *http.ServeMux, svc *notifUC.Service) {
	mux.Handle("GET  /push/public-key", auth.Authn(PublicKeyHandler{svc}))
	mux.Handle("POST /push/subscribe", auth.Authn(SubscribeHandler{svc}))
	mux.Handle("POST /push/unsubscribe", auth.Authn(UnsubscribeHandler{svc}))
}
