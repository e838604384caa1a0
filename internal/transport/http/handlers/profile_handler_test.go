package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authsvc "github.com/vivahapp/backend/internal/services/auth"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
)

type visRecorderStub struct {
	visStub
	upserts int
}

func (s *visRecorderStub) Upsert(_ context.Context, _ int64, _, _, _ string) error {
	s.upserts++
	return nil
}

func authedPut(path, body string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: userID}))
}

func TestVisibilityUpdateAccepted(t *testing.T) {
	vis := &visRecorderStub{}
	handler := NewProfileHandler(profilesvc.NewService(nil, vis, nil, nil))

	body := `{"profile_visibility":"community","photo_visibility":"mutual","contact_visibility":"premium"}`
	rr := httptest.NewRecorder()
	handler.Visibility(rr, authedPut("/v1/profile/visibility", body, 7))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	if vis.upserts != 1 {
		t.Fatalf("expected one upsert, got %d", vis.upserts)
	}
}

func TestVisibilityUpdateRejectsUnknownValue(t *testing.T) {
	vis := &visRecorderStub{}
	handler := NewProfileHandler(profilesvc.NewService(nil, vis, nil, nil))

	body := `{"profile_visibility":"secret","photo_visibility":"all","contact_visibility":"all"}`
	rr := httptest.NewRecorder()
	handler.Visibility(rr, authedPut("/v1/profile/visibility", body, 7))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if vis.upserts != 0 {
		t.Fatal("invalid value must not reach the store")
	}
}

func TestVisibilityUpdateRequiresAuth(t *testing.T) {
	handler := NewProfileHandler(profilesvc.NewService(nil, &visRecorderStub{}, nil, nil))

	req := httptest.NewRequest(http.MethodPut, "/v1/profile/visibility", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	handler.Visibility(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestProfileCoreRejectsBadBirthdate(t *testing.T) {
	handler := NewProfileHandler(profilesvc.NewService(&profileStoreStub{}, nil, nil, nil))

	body := `{"display_name":"Priya","birthdate":"03/02/1996","gender":"female","marital_status":"never_married"}`
	rr := httptest.NewRecorder()
	handler.Core(rr, authedPut("/v1/profile", body, 7))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}
