package subscriptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vivahapp/backend/internal/domain/enums"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
)

type storeStub struct {
	rec   pgrepo.SubscriptionRecord
	found bool
	err   error
}

func (s storeStub) GetActive(context.Context, int64, time.Time) (pgrepo.SubscriptionRecord, bool, error) {
	return s.rec, s.found, s.err
}

func TestGetReturnsFreeSnapshotWithoutActiveRow(t *testing.T) {
	svc := NewService(storeStub{found: false})

	snapshot, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snapshot.IsPremium {
		t.Fatalf("no active row must mean non-premium")
	}
	if snapshot.Plan != enums.SubscriptionPlanFree {
		t.Fatalf("unexpected plan: %s", snapshot.Plan)
	}
}

func TestGetReportsPremiumForAnyActivePlan(t *testing.T) {
	expires := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(storeStub{
		found: true,
		rec: pgrepo.SubscriptionRecord{
			UserID:    42,
			Status:    "active",
			Plan:      "premium_plus",
			ExpiresAt: &expires,
		},
	})

	snapshot, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if !snapshot.IsPremium {
		t.Fatalf("active subscription must mean premium")
	}
	if snapshot.Plan != enums.SubscriptionPlanPremiumPlus {
		t.Fatalf("unexpected plan: %s", snapshot.Plan)
	}
	if snapshot.ExpiresAt == nil || !snapshot.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected expires_at: %v", snapshot.ExpiresAt)
	}
}

func TestGetValidatesUserID(t *testing.T) {
	svc := NewService(storeStub{})

	if _, err := svc.Get(context.Background(), 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
