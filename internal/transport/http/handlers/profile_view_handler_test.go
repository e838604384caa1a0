package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
	authsvc "github.com/vivahapp/backend/internal/services/auth"
	photossvc "github.com/vivahapp/backend/internal/services/photos"
	privacysvc "github.com/vivahapp/backend/internal/services/privacy"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
	"github.com/vivahapp/backend/internal/transport/http/dto"
)

type visStub struct {
	rec pgrepo.VisibilityConfigRecord
	err error
}

func (s *visStub) Get(_ context.Context, userID int64) (pgrepo.VisibilityConfigRecord, error) {
	if s.err != nil {
		return pgrepo.VisibilityConfigRecord{}, s.err
	}
	rec := s.rec
	rec.UserID = userID
	return rec, nil
}

func (s *visStub) Upsert(_ context.Context, _ int64, _, _, _ string) error {
	return nil
}

type subStub struct {
	premium bool
}

func (s *subStub) IsPremiumActive(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return s.premium, nil
}

type interestStub struct {
	connected bool
}

func (s *interestStub) HasAcceptedBetween(_ context.Context, _, _ int64) (bool, error) {
	return s.connected, nil
}

type profileStoreStub struct {
	rec pgrepo.ProfileRecord
	err error
}

func (s *profileStoreStub) Get(_ context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	if s.err != nil {
		return pgrepo.ProfileRecord{}, s.err
	}
	rec := s.rec
	rec.UserID = userID
	return rec, nil
}

func (s *profileStoreStub) SaveCore(
	_ context.Context, _ int64, _ string, _ string, _ time.Time,
	_ string, _ string, _ string, _ string, _ string, _ string, _ string,
	_ int, _ string, _ string, _ bool,
) error {
	return nil
}

type contactStoreStub struct {
	rec pgrepo.ContactRecord
	err error
}

func (s *contactStoreStub) Get(_ context.Context, userID int64) (pgrepo.ContactRecord, error) {
	if s.err != nil {
		return pgrepo.ContactRecord{}, s.err
	}
	rec := s.rec
	rec.UserID = userID
	return rec, nil
}

func (s *contactStoreStub) Upsert(_ context.Context, _ int64, _, _ string) error {
	return nil
}

type photoStoreStub struct {
	records []pgrepo.PhotoRecord
}

func (s *photoStoreStub) Create(_ context.Context, userID int64, objectKey string) (pgrepo.PhotoRecord, error) {
	rec := pgrepo.PhotoRecord{
		ID:        int64(len(s.records) + 1),
		UserID:    userID,
		Position:  len(s.records) + 1,
		ObjectKey: objectKey,
		CreatedAt: time.Now().UTC(),
	}
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *photoStoreStub) ListByUser(_ context.Context, _ int64) ([]pgrepo.PhotoRecord, error) {
	out := make([]pgrepo.PhotoRecord, 0, len(s.records))
	out = append(out, s.records...)
	return out, nil
}

type photoStorageStub struct{}

func (photoStorageStub) EnsureBucket(_ context.Context) error {
	return nil
}

func (photoStorageStub) PutPhoto(_ context.Context, _ string, _ io.Reader, _ int64, _ string) error {
	return nil
}

func (photoStorageStub) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.local/" + key, nil
}

func (photoStorageStub) Delete(_ context.Context, _ string) error {
	return nil
}

type viewFixture struct {
	visibility *visStub
	sub        *subStub
	interest   *interestStub
	profile    *profileStoreStub
	contact    *contactStoreStub
	photos     *photoStoreStub
	storage    photoStorageStub
}

func defaultViewFixture() *viewFixture {
	return &viewFixture{
		visibility: &visStub{rec: pgrepo.VisibilityConfigRecord{
			ProfileVisibility: "public",
			PhotoVisibility:   "all",
			ContactVisibility: "mutual",
		}},
		sub:      &subStub{},
		interest: &interestStub{},
		profile: &profileStoreStub{rec: pgrepo.ProfileRecord{
			DisplayName: "Priya",
			Age:         28,
			City:        "Chennai",
			PhotosCount: 1,
		}},
		contact: &contactStoreStub{rec: pgrepo.ContactRecord{
			Email:     "john.doe@example.com",
			PhoneE164: "+919876543210",
		}},
		photos:  &photoStoreStub{},
		storage: photoStorageStub{},
	}
}

func (f *viewFixture) router(t *testing.T) chi.Router {
	t.Helper()

	privacy := privacysvc.NewService(f.visibility, f.sub, f.interest, nil, privacysvc.Config{})
	profiles := profilesvc.NewService(f.profile, f.visibility, f.contact, nil)
	photos := photossvc.NewService(f.photos, f.storage)

	handler := NewProfileViewHandler(privacy, profiles, photos)
	r := chi.NewRouter()
	r.Get("/v1/profiles/{user_id}", handler.Profile)
	r.Get("/v1/profiles/{user_id}/photos", handler.Photos)
	r.Get("/v1/profiles/{user_id}/contact", handler.Contact)
	return r
}

func doView(t *testing.T, r chi.Router, path string, viewerID int64) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if viewerID > 0 {
		req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: viewerID}))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) dto.ProfileViewResponse {
	t.Helper()

	var resp dto.ProfileViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestProfileViewAnonymousSeesPublicProfile(t *testing.T) {
	f := defaultViewFixture()
	r := f.router(t)

	rr := doView(t, r, "/v1/profiles/9", 0)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	resp := decodeView(t, rr)
	if !resp.Disclosed || resp.Profile == nil {
		t.Fatalf("public profile must be disclosed to anonymous viewers: %+v", resp)
	}
	if resp.Profile.DisplayName != "Priya" {
		t.Fatalf("unexpected profile detail: %+v", resp.Profile)
	}
	if resp.Disclosure.CanViewContact {
		t.Fatal("mutual contact must stay hidden from anonymous viewers")
	}
	if resp.Contact == nil || !resp.Contact.Masked {
		t.Fatalf("expected masked contact block, got %+v", resp.Contact)
	}
	if resp.Contact.Email != "j******e@e*****e.com" {
		t.Fatalf("unexpected masked email: %q", resp.Contact.Email)
	}
}

func TestProfileViewPremiumGateRestrictsFreeViewer(t *testing.T) {
	f := defaultViewFixture()
	f.visibility.rec.ProfileVisibility = "premium"
	r := f.router(t)

	rr := doView(t, r, "/v1/profiles/9", 7)
	if rr.Code != http.StatusOK {
		t.Fatalf("restricted view must not be an http error, got %d", rr.Code)
	}

	resp := decodeView(t, rr)
	if resp.Disclosed || resp.Profile != nil || resp.Contact != nil {
		t.Fatalf("restricted profile must carry no detail: %+v", resp)
	}
	if resp.CTA == "" {
		t.Fatal("restricted view must carry a cta hint")
	}
}

func TestProfileViewPremiumGateOpensForConnectedViewer(t *testing.T) {
	f := defaultViewFixture()
	f.visibility.rec.ProfileVisibility = "premium"
	f.interest.connected = true
	r := f.router(t)

	resp := decodeView(t, doView(t, r, "/v1/profiles/9", 7))
	if !resp.Disclosed || resp.Profile == nil {
		t.Fatalf("connected viewer must pass the premium gate: %+v", resp)
	}
}

func TestProfileViewMissingProfileIs404(t *testing.T) {
	f := defaultViewFixture()
	f.profile.err = pgrepo.ErrProfileNotFound
	r := f.router(t)

	rr := doView(t, r, "/v1/profiles/9", 7)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
}

func TestPhotosEndpointBlursWhenDenied(t *testing.T) {
	f := defaultViewFixture()
	f.visibility.rec.PhotoVisibility = "premium"
	if _, err := f.photos.Create(context.Background(), 9, "users/9/photos/p.jpg"); err != nil {
		t.Fatalf("seed photo: %v", err)
	}
	r := f.router(t)

	rr := doView(t, r, "/v1/profiles/9/photos", 7)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var resp dto.PhotosListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Disclosed || resp.Total != 1 {
		t.Fatalf("expected undisclosed listing with count, got %+v", resp)
	}
	for _, photo := range resp.Photos {
		if !photo.Blurred || photo.URL != "" {
			t.Fatalf("denied viewer must get blurred placeholders: %+v", photo)
		}
	}
}

func TestContactEndpointDisclosesToConnectedViewer(t *testing.T) {
	f := defaultViewFixture()
	f.interest.connected = true
	r := f.router(t)

	rr := doView(t, r, "/v1/profiles/9/contact", 7)
	var resp dto.ContactResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Masked || resp.Email != "john.doe@example.com" {
		t.Fatalf("connected viewer must see the raw contact: %+v", resp)
	}
}
