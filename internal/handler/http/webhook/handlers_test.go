package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/usecase/dispatch"
	"procure-notify/internal/usecase/webhookevent"
)

type fakePoster struct {
	configured bool
	err        error
	sent       []*entity.RequestEvent
}

func (f *fakePoster) Configured() bool { return f.configured }

func (f *fakePoster) Send(ctx context.Context, ev *entity.RequestEvent) error {
	f.sent = append(f.sent, ev)
	return f.err
}

func newHandler(poster *fakePoster) NotifyHandler {
	return NotifyHandler{Svc: &webhookevent.Service{
		Poster:     poster,
		Dispatcher: &dispatch.Service{},
	}}
}

const validBody = `{
	"id": "req-1",
	"request_number": "PR-2025-0042",
	"site_name": "plant-7",
	"requested_by_name": "jana.krause",
	"created_at": "2025-03-14T09:30:00Z",
	"items": [{"name": "Gloves", "quantity": 10, "unit": "pcs"}]
}`

func TestNotifyDelivered(t *testing.T) {
	poster := &fakePoster{configured: true}
	h := newHandler(poster)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/notify", strings.NewReader(validBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp notifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Skipped {
		t.Fatalf("resp = %+v", resp)
	}
	if len(poster.sent) != 1 || poster.sent[0].Number != "PR-2025-0042" {
		t.Fatalf("sent = %+v", poster.sent)
	}
}

func TestNotifySkippedWhenUnconfigured(t *testing.T) {
	poster := &fakePoster{configured: false}
	h := newHandler(poster)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/notify", strings.NewReader(validBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp notifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || !resp.Skipped {
		t.Fatalf("resp = %+v", resp)
	}
	if len(poster.sent) != 0 {
		t.Fatal("no delivery may happen when unconfigured")
	}
}

func TestNotifyUpstreamRejection(t *testing.T) {
	poster := &fakePoster{
		configured: true,
		err:        &entity.TransportError{Channel: entity.ChannelWebhook, StatusCode: 400, Message: "bad card"},
	}
	h := newHandler(poster)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/notify", strings.NewReader(validBody)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", rec.Code)
	}
}

func TestNotifyMissingRequiredFields(t *testing.T) {
	h := newHandler(&fakePoster{configured: true})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/notify",
		strings.NewReader(`{"site_name": "plant-7"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestNotifyBadTimestamp(t *testing.T) {
	h := newHandler(&fakePoster{configured: true})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/notify",
		strings.NewReader(`{"request_number":"PR-1","requested_by_name":"jana","created_at":"14.03.2025"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}
