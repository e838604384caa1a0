package interests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
	redrepo "github.com/vivahapp/backend/internal/repo/redis"
	ratesvc "github.com/vivahapp/backend/internal/services/rate"
)

type memoryQuotaStore struct {
	usage map[string]int
}

func newMemoryQuotaStore() *memoryQuotaStore {
	return &memoryQuotaStore{usage: make(map[string]int)}
}

func (s *memoryQuotaStore) GetInterestsUsed(_ context.Context, userID int64, dayKey string) (int, error) {
	return s.usage[s.key(userID, dayKey)], nil
}

func (s *memoryQuotaStore) IncrementInterestsUsed(_ context.Context, userID int64, dayKey, _ string, delta int) (int, error) {
	k := s.key(userID, dayKey)
	s.usage[k] += delta
	return s.usage[k], nil
}

func (s *memoryQuotaStore) key(userID int64, dayKey string) string {
	return fmt.Sprintf("%d:%s", userID, dayKey)
}

type premiumStub struct {
	premium bool
	err     error
}

func (s premiumStub) IsPremiumActive(context.Context, int64, time.Time) (bool, error) {
	return s.premium, s.err
}

type stubInterestStore struct{}

func (stubInterestStore) Upsert(context.Context, pgx.Tx, int64, int64) (pgrepo.InterestRecord, error) {
	return pgrepo.InterestRecord{}, nil
}

func (stubInterestStore) SetStatus(context.Context, pgx.Tx, int64, int64, string) (pgrepo.InterestRecord, error) {
	return pgrepo.InterestRecord{}, nil
}

func (stubInterestStore) ListIncoming(context.Context, int64, int) ([]pgrepo.InterestProfileRecord, error) {
	return []pgrepo.InterestProfileRecord{}, nil
}

func (stubInterestStore) ListSent(context.Context, int64, int) ([]pgrepo.InterestProfileRecord, error) {
	return []pgrepo.InterestProfileRecord{}, nil
}

func TestSendRejectsSelfInterest(t *testing.T) {
	svc := NewService(Dependencies{}, Config{})

	if err := svc.Send(context.Background(), 5, 5, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self interest, got %v", err)
	}
}

func TestSendEnforcesDailyQuotaForFreeSenders(t *testing.T) {
	quota := newMemoryQuotaStore()
	quota.usage["10:2026-08-28"] = 5

	svc := NewService(Dependencies{
		InterestStore: stubInterestStore{},
		QuotaStore:    quota,
		Subscriptions: premiumStub{premium: false},
	}, Config{FreeInterestsPerDay: 5, DefaultTimezone: "UTC"})
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	if err := svc.Send(context.Background(), 10, 20, ""); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("expected ErrDailyLimit, got %v", err)
	}
}

func TestSendSkipsQuotaForPremiumSenders(t *testing.T) {
	quota := newMemoryQuotaStore()
	quota.usage["10:2026-08-28"] = 50

	svc := NewService(Dependencies{
		InterestStore: stubInterestStore{},
		QuotaStore:    quota,
		Subscriptions: premiumStub{premium: true},
	}, Config{FreeInterestsPerDay: 5, DefaultTimezone: "UTC"})
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }

	// Premium never hits quota; the send then fails only because no
	// postgres pool is wired in this test.
	err := svc.Send(context.Background(), 10, 20, "")
	if errors.Is(err, ErrDailyLimit) {
		t.Fatalf("premium sender must not be quota limited")
	}
	if err == nil {
		t.Fatalf("expected pool error, got nil")
	}
}

func TestSendBlocksWhenPacingLimiterTrips(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	limiter := ratesvc.NewLimiter(redrepo.NewRateRepo(client), 100, 1)

	svc := NewService(Dependencies{
		InterestStore: stubInterestStore{},
		Subscriptions: premiumStub{premium: true},
		RateLimiter:   limiter,
	}, Config{})

	// First send passes the limiter and fails later on the missing pool.
	if err := svc.Send(context.Background(), 10, 20, ""); err == nil {
		t.Fatalf("expected pool error on first send")
	}

	err = svc.Send(context.Background(), 10, 21, "")
	tf, ok := IsTooFast(err)
	if !ok {
		t.Fatalf("expected TooFastError on second send inside 10s window, got %v", err)
	}
	if tf.RetryAfter() <= 0 {
		t.Fatalf("expected positive retry_after, got %d", tf.RetryAfter())
	}
}

func TestRespondRejectsInvalidPairs(t *testing.T) {
	svc := NewService(Dependencies{InterestStore: stubInterestStore{}}, Config{})

	if err := svc.Accept(context.Background(), 7, 7); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for self accept, got %v", err)
	}
	if err := svc.Decline(context.Background(), 0, 7); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for zero receiver, got %v", err)
	}
}
