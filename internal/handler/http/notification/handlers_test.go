package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/usecase/dispatch"
	notifUC "procure-notify/internal/usecase/notification"
	"procure-notify/internal/usecase/resolve"
)

type fakeProfileRepo struct{ profiles []*entity.Profile }

func (f *fakeProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) {
	return f.profiles, nil
}

type fakeSubscriberRepo struct{ subs []*entity.Subscriber }

func (f *fakeSubscriberRepo) Upsert(ctx context.Context, sub *entity.Subscriber) error { return nil }
func (f *fakeSubscriberRepo) ListByUsers(ctx context.Context, userIDs []string) ([]*entity.Subscriber, error) {
	return f.subs, nil
}
func (f *fakeSubscriberRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}
func (f *fakeSubscriberRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeSender struct{ failEndpoints map[string]bool }

func (f *fakeSender) Enabled() bool     { return true }
func (f *fakeSender) PublicKey() string { return "pk" }
func (f *fakeSender) Send(ctx context.Context, sub *entity.Subscriber, message []byte) error {
	if f.failEndpoints[sub.Endpoint] {
		return &entity.TransportError{Channel: entity.ChannelPush, StatusCode: 500, Message: "push service error"}
	}
	return nil
}

type fakeLogRepo struct{ logs []*entity.DeliveryLog }

func (f *fakeLogRepo) Create(ctx context.Context, log *entity.DeliveryLog) error {
	f.logs = append(f.logs, log)
	return nil
}
func (f *fakeLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.DeliveryLog, error) {
	if limit < len(f.logs) {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}
func (f *fakeLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newSendHandler(profiles []*entity.Profile, subs []*entity.Subscriber, sender *fakeSender) SendHandler {
	repo := &fakeSubscriberRepo{subs: subs}
	return SendHandler{Svc: &notifUC.Service{
		Resolver: &resolve.Resolver{
			Profiles:    &fakeProfileRepo{profiles: profiles},
			Subscribers: repo,
		},
		Subscribers: repo,
		Sender:      sender,
		Dispatcher:  &dispatch.Service{},
	}}
}

func asAdmin(req *http.Request) *http.Request {
	ctx := auth.WithPrincipal(req.Context(), auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin})
	return req.WithContext(ctx)
}

func TestSendReportsPerUserOutcomes(t *testing.T) {
	profiles := []*entity.Profile{
		{ID: "u1", Role: "user"},
		{ID: "u2", Role: "user"},
	}
	subs := []*entity.Subscriber{
		{UserID: "u1", Endpoint: "ep-ok", P256dh: "k", Auth: "a"},
		{UserID: "u2", Endpoint: "ep-bad", P256dh: "k", Auth: "a"},
	}
	h := newSendHandler(profiles, subs, &fakeSender{failEndpoints: map[string]bool{"ep-bad": true}})

	body := `{"title":"New request","body":"PR-1 submitted","roles":["user"]}`
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/notifications/send", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp sendResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "1/2 delivered" {
		t.Fatalf("message = %q", resp.Message)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %+v", resp.Results)
	}
	outcomes := make(map[string]bool, 2)
	for _, res := range resp.Results {
		outcomes[res.UserID] = res.Success
	}
	if !outcomes["u1"] || outcomes["u2"] {
		t.Fatalf("outcomes = %v", outcomes)
	}
}

func TestSendMissingTitle(t *testing.T) {
	h := newSendHandler(nil, nil, &fakeSender{})

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/notifications/send",
		strings.NewReader(`{"body":"text"}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestSendEmptyTargetSet(t *testing.T) {
	h := newSendHandler(nil, nil, &fakeSender{})

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/notifications/send",
		strings.NewReader(`{"title":"t","body":"b","roles":["manager"]}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", rec.Code)
	}
}

func TestLogsListsRecent(t *testing.T) {
	logs := &fakeLogRepo{logs: []*entity.DeliveryLog{
		{ID: 2, Channel: entity.ChannelEmail, Subject: "s2", TargetCount: 3, SuccessCount: 3},
		{ID: 1, Channel: entity.ChannelPush, Subject: "s1", TargetCount: 2, SuccessCount: 1},
	}}
	h := LogsHandler{Logs: logs}

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/notifications/logs", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	var resp struct {
		Logs []logDTO `json:"logs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Logs) != 2 || resp.Logs[0].ID != 2 {
		t.Fatalf("logs = %+v", resp.Logs)
	}
}

func TestLogsRejectsBadLimit(t *testing.T) {
	h := LogsHandler{Logs: &fakeLogRepo{}}

	req := asAdmin(httptest.NewRequest(http.MethodGet, "/notifications/logs?limit=abc", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
}

func TestRegisterGatesRoles(t *testing.T) {
	t.Setenv("JWT_SECRET", "notification-register-secret")

	mux := http.NewServeMux()
	h := newSendHandler(nil, nil, &fakeSender{})
	Register(mux, h.Svc, &fakeLogRepo{})

	req := httptest.NewRequest(http.MethodPost, "/notifications/send", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}
