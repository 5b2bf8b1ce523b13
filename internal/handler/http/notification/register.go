package notification

import (
	"net/http"

	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/repository"
	notifUC "procure-notify/internal/usecase/notification"
)

// Register wires the notification endpoints: sending is restricted to the
// sender roles, the delivery log read API to admins.
func Register(mux *http.ServeMux, svc *notifUC.Service, logs repository.DeliveryLogRepository) {
	mux.Handle("POST /notifications/send", auth.Require(SendHandler{svc}, auth.SenderRoles...))
	mux.Handle("GET  /notifications/logs", auth.Require(LogsHandler{logs}, auth.RoleAdmin))
}
