package email

import (
	"net/http"

	"procure-notify/internal/handler/http/auth"
	emailUC "procure-notify/internal/usecase/email"
)

// Register wires the email send endpoint for the sender roles.
func Register(mux *http.ServeMux, svc *emailUC.Service) {
	mux.Handle("POST /email/send", auth.Require(SendHandler{svc}, auth.SenderRoles...))
}
