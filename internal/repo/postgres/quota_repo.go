package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuotaRepo struct {
	pool *pgxpool.Pool
}

func NewQuotaRepo(pool *pgxpool.Pool) *QuotaRepo {
	return &QuotaRepo{pool: pool}
}

func (r *QuotaRepo) GetInterestsUsed(ctx context.Context, userID int64, dayKey string) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" {
		return 0, fmt.Errorf("invalid quota lookup payload")
	}
	if r.pool == nil {
		return 0, nil
	}

	var used int
	err := r.pool.QueryRow(ctx, `
SELECT interests_used
FROM quotas_daily
WHERE user_id = $1 AND day_key = $2::date
LIMIT 1
`, userID, dayKey).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get daily quota usage: %w", err)
	}

	return used, nil
}

func (r *QuotaRepo) IncrementInterestsUsed(ctx context.Context, userID int64, dayKey, timezone string, delta int) (int, error) {
	if userID <= 0 || strings.TrimSpace(dayKey) == "" {
		return 0, fmt.Errorf("invalid quota update payload")
	}
	if delta <= 0 {
		delta = 1
	}
	if strings.TrimSpace(timezone) == "" {
		timezone = "UTC"
	}
	if r.pool == nil {
		return delta, nil
	}

	var used int
	err := r.pool.QueryRow(ctx, `
INSERT INTO quotas_daily (
	user_id,
	day_key,
	tz_name,
	interests_used,
	updated_at
) VALUES ($1, $2::date, $3, $4, NOW())
ON CONFLICT (user_id, day_key) DO UPDATE SET
	interests_used = quotas_daily.interests_used + EXCLUDED.interests_used,
	tz_name = EXCLUDED.tz_name,
	updated_at = NOW()
RETURNING interests_used
`, userID, dayKey, timezone, delta).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("increment daily quota usage: %w", err)
	}

	return used, nil
}
