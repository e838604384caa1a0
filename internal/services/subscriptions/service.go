package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vivahapp/backend/internal/domain/enums"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type Store interface {
	GetActive(ctx context.Context, userID int64, at time.Time) (pgrepo.SubscriptionRecord, bool, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

// Snapshot is the subscription surface exposed to the UI. A member is
// premium iff an active subscription row exists, regardless of plan tier.
type Snapshot struct {
	UserID    int64
	IsPremium bool
	Plan      enums.SubscriptionPlan
	ExpiresAt *time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID int64) (Snapshot, error) {
	if userID <= 0 {
		return Snapshot{}, ErrValidation
	}
	if s.store == nil {
		return Snapshot{}, fmt.Errorf("subscription store is nil")
	}

	rec, found, err := s.store.GetActive(ctx, userID, s.now().UTC())
	if err != nil {
		return Snapshot{}, fmt.Errorf("get active subscription: %w", err)
	}
	if !found {
		return Snapshot{
			UserID:    userID,
			IsPremium: false,
			Plan:      enums.SubscriptionPlanFree,
		}, nil
	}

	return Snapshot{
		UserID:    userID,
		IsPremium: true,
		Plan:      enums.SubscriptionPlan(rec.Plan),
		ExpiresAt: rec.ExpiresAt,
	}, nil
}
