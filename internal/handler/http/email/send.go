package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/handler/http/respond"
	"procure-notify/internal/usecase/dispatch"
	emailUC "procure-notify/internal/usecase/email"
	"procure-notify/internal/usecase/resolve"
)

type SendHandler struct{ Svc *emailUC.Service }

// ServeHTTP renders the typed template and fans the message out to every
// resolved address. Template validation happens before any send, so a bad
// payload never produces a partial batch.
func (h SendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.FromContext(r.Context())

	var req sendRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := h.Svc.Send(r.Context(), principal.UserID,
		resolve.TargetingSpec{
			Recipients: req.Recipients,
			UserIDs:    req.UserIDs,
			Roles:      req.Roles,
			SiteID:     req.SiteID,
		},
		emailUC.TemplateKind(req.Type),
		templateData(req.Data))
	if err != nil {
		respondSendError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, buildSendResponse(summary))
}

// templateData maps the free-form data object onto the template fields.
func templateData(data map[string]any) emailUC.TemplateData {
	return emailUC.TemplateData{
		Title:     fieldString(data, "title"),
		Number:    fieldString(data, "number"),
		Requester: fieldString(data, "requester"),
		Site:      fieldString(data, "site"),
		OldStatus: fieldString(data, "oldStatus"),
		NewStatus: fieldString(data, "newStatus"),
		Comment:   fieldString(data, "comment"),
		Supplier:  fieldString(data, "supplier"),
		Amount:    fieldString(data, "amount"),
		Currency:  fieldString(data, "currency"),
		Subject:   fieldString(data, "subject"),
		Content:   fieldString(data, "content"),
		RequestID: fieldString(data, "requestId"),
	}
}

// fieldString coerces a data value to its string form. Host applications
// send amounts and ids as JSON numbers; those keep their literal
// representation instead of failing the decode.
func fieldString(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func buildSendResponse(summary *dispatch.Summary) sendResponse {
	results := make([]sendResult, 0, len(summary.Results))
	for _, res := range summary.Results {
		results = append(results, sendResult{Email: res.Recipient, Success: res.Success})
	}
	return sendResponse{
		Message: fmt.Sprintf("%d/%d delivered", summary.SuccessCount, summary.TargetCount),
		Results: results,
	}
}

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
