package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"procure-notify/internal/domain/entity"
	"procure-notify/internal/handler/http/auth"
	"procure-notify/internal/usecase/dispatch"
	notifUC "procure-notify/internal/usecase/notification"
	"procure-notify/internal/usecase/resolve"
)

type fakeSubscriberRepo struct {
	upserted []*entity.Subscriber
	deleted  []string
	removed  int64
}

func (f *fakeSubscriberRepo) Upsert(ctx context.Context, sub *entity.Subscriber) error {
	f.upserted = append(f.upserted, sub)
	return nil
}

func (f *fakeSubscriberRepo) ListByUsers(ctx context.Context, userIDs []string) ([]*entity.Subscriber, error) {
	return nil, nil
}

func (f *fakeSubscriberRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	f.deleted = append(f.deleted, userID)
	return f.removed, nil
}

func (f *fakeSubscriberRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeProfileRepo struct{}

func (f *fakeProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) { return nil, nil }

type fakeSender struct{ enabled bool }

func (f *fakeSender) Enabled() bool     { return f.enabled }
func (f *fakeSender) PublicKey() string { return "vapid-public-key" }
func (f *fakeSender) Send(ctx context.Context, sub *entity.Subscriber, message []byte) error {
	return nil
}

func newService(repo *fakeSubscriberRepo, enabled bool) *notifUC.Service {
	return &notifUC.Service{
		Resolver: &resolve.Resolver{
			Profiles:    &fakeProfileRepo{},
			Subscribers: repo,
		},
		Subscribers: repo,
		Sender:      &fakeSender{enabled: enabled},
		Dispatcher:  &dispatch.Service{},
	}
}

func asUser(req *http.Request, userID string) *http.Request {
	ctx := auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID, Role: auth.RoleUser})
	return req.WithContext(ctx)
}

func TestSubscribeBindsCaller(t *testing.T) {
	repo := &fakeSubscriberRepo{}
	h := SubscribeHandler{Svc: newService(repo, true)}

	body := `{"endpoint":"https://push.example/ep1","p256dh":"key","auth":"secret"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/push/subscribe", strings.NewReader(body)), "user-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(repo.upserted) != 1 || repo.upserted[0].UserID != "user-7" {
		t.Fatalf("upserted = %+v", repo.upserted)
	}
}

func TestSubscribeRejectsIncompleteBody(t *testing.T) {
	repo := &fakeSubscriberRepo{}
	h := SubscribeHandler{Svc: newService(repo, true)}

	req := asUser(httptest.NewRequest(http.MethodPost, "/push/subscribe",
		strings.NewReader(`{"endpoint":"https://push.example/ep1"}`)), "user-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", rec.Code)
	}
	if len(repo.upserted) != 0 {
		t.Fatal("nothing may be stored on invalid input")
	}
}

func TestUnsubscribeReportsRemoved(t *testing.T) {
	repo := &fakeSubscriberRepo{removed: 2}
	h := UnsubscribeHandler{Svc: newService(repo, true)}

	req := asUser(httptest.NewRequest(http.MethodPost, "/push/unsubscribe", nil), "user-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"removed":2`) {
		t.Fatalf("body = %s", got)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "user-7" {
		t.Fatalf("deleted = %v", repo.deleted)
	}
}

func TestPublicKey(t *testing.T) {
	h := PublicKeyHandler{Svc: newService(&fakeSubscriberRepo{}, true)}

	req := asUser(httptest.NewRequest(http.MethodGet, "/push/public-key", nil), "user-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vapid-public-key") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestPublicKeyDisabledChannel(t *testing.T) {
	h := PublicKeyHandler{Svc: newService(&fakeSubscriberRepo{}, false)}

	req := asUser(httptest.NewRequest(http.MethodGet, "/push/public-key", nil), "user-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", rec.Code)
	}
}

func TestRegisterRequiresAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "register-test-secret")

	mux := http.NewServeMux()
	Register(mux, newService(&fakeSubscriberRepo{}, true))

	req := httptest.NewRequest(http.MethodPost, "/push/subscribe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", rec.Code)
	}
}
