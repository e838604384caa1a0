package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
)

type storeStub struct {
	inserted []pgrepo.EventWriteRecord
	userID   *int64
	err      error
}

func (s *storeStub) InsertBatch(_ context.Context, userID *int64, events []pgrepo.EventWriteRecord) error {
	if s.err != nil {
		return s.err
	}
	s.userID = userID
	s.inserted = append(s.inserted, events...)
	return nil
}

func TestIngestBatchNormalizesAndStores(t *testing.T) {
	store := &storeStub{}
	svc := NewService(store, nil, Config{})
	svc.now = func() time.Time {
		return time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	}

	viewer := int64(7)
	accepted, err := svc.IngestBatch(context.Background(), &viewer, []BatchEvent{
		{Name: "  Profile_Viewed  ", TS: 1717236000, Props: map[string]any{"subject_id": 9}},
		{Name: "photo_blur_shown"},
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if accepted != 2 {
		t.Fatalf("expected 2 accepted events, got %d", accepted)
	}
	if len(store.inserted) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(store.inserted))
	}
	if store.inserted[0].Name != "profile_viewed" {
		t.Fatalf("name not normalized: %q", store.inserted[0].Name)
	}
	if got := store.inserted[0].OccurredAt; got != time.Unix(1717236000, 0).UTC() {
		t.Fatalf("unexpected occurred_at: %v", got)
	}
	if got := store.inserted[1].OccurredAt; got != svc.now() {
		t.Fatalf("missing ts must fall back to server time, got %v", got)
	}
}

func TestIngestBatchDropsBadEventsKeepsGood(t *testing.T) {
	store := &storeStub{}
	svc := NewService(store, nil, Config{})

	accepted, err := svc.IngestBatch(context.Background(), nil, []BatchEvent{
		{Name: "   "},
		{Name: "cta_upgrade_shown"},
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if accepted != 1 || len(store.inserted) != 1 {
		t.Fatalf("expected single surviving event, got accepted=%d stored=%d", accepted, len(store.inserted))
	}
}

func TestIngestBatchRejectsEmptyAndOversized(t *testing.T) {
	svc := NewService(&storeStub{}, nil, Config{MaxBatchSize: 2})

	if _, err := svc.IngestBatch(context.Background(), nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty batch, got %v", err)
	}

	over := []BatchEvent{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	if _, err := svc.IngestBatch(context.Background(), nil, over); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized batch, got %v", err)
	}
}

func TestIngestBatchClonesProps(t *testing.T) {
	store := &storeStub{}
	svc := NewService(store, nil, Config{})

	props := map[string]any{"k": "v"}
	if _, err := svc.IngestBatch(context.Background(), nil, []BatchEvent{{Name: "e", Props: props}}); err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}

	props["k"] = "mutated"
	if store.inserted[0].Props["k"] != "v" {
		t.Fatal("stored props must not alias the caller's map")
	}
}
