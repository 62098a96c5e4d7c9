package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gocollective/collective-server/internal/domain"
	"github.com/gocollective/collective-server/internal/usecase"
)

type stubCollectiveRepo struct {
	existing map[string]bool
	nextID   int64
}

func (s *stubCollectiveRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return s.existing[slug], nil
}

func (s *stubCollectiveRepo) Create(ctx context.Context, draft domain.CollectiveDraft) (domain.Collective, error) {
	s.nextID++
	return domain.Collective{
		ID:       s.nextID,
		Name:     draft.Name,
		Slug:     draft.Slug,
		Tags:     draft.Tags,
		Settings: draft.Settings,
	}, nil
}

func (s *stubCollectiveRepo) GrantRole(ctx context.Context, collectiveID int64, actor domain.Actor, role string) error {
	return nil
}

func (s *stubCollectiveRepo) AttachHost(ctx context.Context, collectiveID int64, host domain.Host, actor domain.Actor, preApproved bool) error {
	return nil
}

func (s *stubCollectiveRepo) GetBySlug(ctx context.Context, slug string) (domain.Collective, error) {
	if s.existing[slug] {
		return domain.Collective{ID: 1, Slug: slug, Name: "Existing"}, nil
	}
	return domain.Collective{}, domain.NotFoundError{Resource: "collective"}
}

type stubHostRepo struct{}

func (s *stubHostRepo) Resolve(ctx context.Context, ref domain.HostRef) (domain.Host, error) {
	return domain.Host{}, domain.NotFoundError{Resource: "host"}
}

type stubAccountRepo struct{}

func (s *stubAccountRepo) GetConnectedAccount(ctx context.Context, collectiveID int64, service string) (*domain.ConnectedAccount, error) {
	return nil, nil
}

func (s *stubAccountRepo) GetUserCollective(ctx context.Context, collectiveID int64) (domain.Collective, error) {
	return domain.Collective{ID: collectiveID}, nil
}

type stubGithub struct{}

func (s *stubGithub) VerifyClaim(ctx context.Context, handle, token string) error { return nil }

type stubPurger struct{}

func (s *stubPurger) Purge(ctx context.Context, path string) error { return nil }

type stubActivities struct{}

func (s *stubActivities) Record(ctx context.Context, activity domain.Activity) error { return nil }

func testHandler(repo *stubCollectiveRepo) *Handler {
	uc := usecase.NewCollectiveUsecase(
		repo,
		&stubHostRepo{},
		&stubAccountRepo{},
		&stubGithub{},
		&stubPurger{},
		&stubActivities{},
		usecase.Config{OpenSourceHostSlug: "opensource"},
		zap.NewNop().Sugar(),
	)
	return NewHandler(uc, nil)
}

func doRequest(t *testing.T, h *Handler, method, target string, body string, actor *domain.Actor) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != nil {
		req = req.WithContext(context.WithValue(req.Context(), domain.ActorCtxKey, actor))
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateCollective(t *testing.T) {
	h := testHandler(&stubCollectiveRepo{existing: map[string]bool{}})
	actor := &domain.Actor{ID: 1, CollectiveID: 99, Email: "u1@example.com"}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/collectives",
		`{"collective":{"name":"Foo","slug":"Foo"}}`, actor)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var collective domain.Collective
	if err := json.Unmarshal(rec.Body.Bytes(), &collective); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if collective.Slug != "foo" {
		t.Fatalf("expected lowercased slug, got %q", collective.Slug)
	}
	if collective.IsActive {
		t.Fatalf("new collective must not be active")
	}
}

func TestHandleCreateCollectiveAnonymous(t *testing.T) {
	h := testHandler(&stubCollectiveRepo{existing: map[string]bool{}})

	rec := doRequest(t, h, http.MethodPost, "/api/v1/collectives",
		`{"collective":{"name":"Foo","slug":"foo"}}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestHandleCreateCollectiveConflict(t *testing.T) {
	h := testHandler(&stubCollectiveRepo{existing: map[string]bool{"foo": true}})
	actor := &domain.Actor{ID: 1, CollectiveID: 99}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/collectives",
		`{"collective":{"name":"Foo","slug":"foo"}}`, actor)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestHandleCreateCollectiveHostNotFound(t *testing.T) {
	h := testHandler(&stubCollectiveRepo{existing: map[string]bool{}})
	actor := &domain.Actor{ID: 1, CollectiveID: 99}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/collectives",
		`{"collective":{"name":"Foo","slug":"foo"},"host":{"slug":"nope"}}`, actor)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestHandleCreateCollectiveMissingFields(t *testing.T) {
	h := testHandler(&stubCollectiveRepo{existing: map[string]bool{}})
	actor := &domain.Actor{ID: 1, CollectiveID: 99}

	rec := doRequest(t, h, http.MethodPost, "/api/v1/collectives",
		`{"collective":{"name":"Foo"}}`, actor)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestHandleGetCollective(t *testing.T) {
	h := testHandler(&stubCollectiveRepo{existing: map[string]bool{"foo": true}})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/collectives/foo", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/collectives/ghost", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
