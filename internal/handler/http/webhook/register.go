package webhook

import (
	"net/http"

	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/usecase/webhookevent"
)

// Register wires the webhook notify endpoint for the sender roles.
func Register(mux *http.ServeMux, svc *webhookevent.Service) {
	mux.Handle("POST /webhook/notify", auth.Require(NotifyHandler{svc}, auth.SenderRoles...))
}
