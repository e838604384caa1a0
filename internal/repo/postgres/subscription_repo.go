package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

type SubscriptionRecord struct {
	UserID    int64
	Status    string
	Plan      string
	StartedAt time.Time
	ExpiresAt *time.Time
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// IsPremiumActive reports whether an active, unexpired subscription row
// exists for the user at the given instant. Plan tier does not matter here.
func (r *SubscriptionRepo) IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error) {
	if userID <= 0 {
		return false, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return false, nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM subscriptions
WHERE
	user_id = $1
	AND status = 'active'
	AND (expires_at IS NULL OR expires_at > $2)
LIMIT 1
`, userID, at.UTC()).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup active subscription: %w", err)
	}

	return true, nil
}

func (r *SubscriptionRepo) GetActive(ctx context.Context, userID int64, at time.Time) (SubscriptionRecord, bool, error) {
	if userID <= 0 {
		return SubscriptionRecord{}, false, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return SubscriptionRecord{}, false, nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var rec SubscriptionRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	status,
	plan,
	started_at,
	expires_at
FROM subscriptions
WHERE
	user_id = $1
	AND status = 'active'
	AND (expires_at IS NULL OR expires_at > $2)
ORDER BY started_at DESC
LIMIT 1
`, userID, at.UTC()).Scan(
		&rec.UserID,
		&rec.Status,
		&rec.Plan,
		&rec.StartedAt,
		&rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubscriptionRecord{}, false, nil
		}
		return SubscriptionRecord{}, false, fmt.Errorf("get active subscription: %w", err)
	}

	return rec, true, nil
}
