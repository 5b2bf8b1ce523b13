package webhook

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/handler/http/respond"
	"procure-notify/internal/usecase/webhookevent"
)

type NotifyHandler struct{ Svc *webhookevent.Service }

// ServeHTTP posts the event's card to the chat endpoint. An unconfigured
// endpoint answers a skipped success; an upstream rejection answers 500.
func (h NotifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	ev, err := toEvent(req)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	outcome, err := h.Svc.Notify(r.Context(), ev)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	if outcome.Skipped {
		respond.JSON(w, http.StatusOK, notifyResponse{Success: true, Skipped: true})
		return
	}
	respond.JSON(w, http.StatusOK, notifyResponse{Success: true, Message: "card delivered"})
}

func toEvent(req notifyRequest) (*entity.RequestEvent, error) {
	var createdAt time.Time
	if req.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			return nil, &entity.ValidationError{Field: "created_at", Message: "must be in RFC3339 format"}
		}
		createdAt = parsed
	} else {
		createdAt = time.Now().UTC()
	}

	items := make([]entity.RequestItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.RequestItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Brand:    item.Brand,
		})
	}

	return &entity.RequestEvent{
		ID:             req.ID,
		Number:         req.RequestNumber,
		Site:           req.SiteName,
		Requester:      req.RequestedBy,
		CreatedAt:      createdAt,
		Specifications: req.Specifications,
		Items:          items,
		IsRejection:    req.IsRejection,
	}, nil
}
