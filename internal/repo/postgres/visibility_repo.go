package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoVisibilityConfig means the member has not finished onboarding yet;
// callers must fall back to the most restrictive configuration.
var ErrNoVisibilityConfig = errors.New("no visibility config")

type VisibilityRepo struct {
	pool *pgxpool.Pool
}

type VisibilityConfigRecord struct {
	UserID            int64
	ProfileVisibility string
	PhotoVisibility   string
	ContactVisibility string
	UpdatedAt         time.Time
}

func NewVisibilityRepo(pool *pgxpool.Pool) *VisibilityRepo {
	return &VisibilityRepo{pool: pool}
}

func (r *VisibilityRepo) Get(ctx context.Context, userID int64) (VisibilityConfigRecord, error) {
	if userID <= 0 {
		return VisibilityConfigRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return VisibilityConfigRecord{}, ErrNoVisibilityConfig
	}

	var rec VisibilityConfigRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	profile_visibility,
	photo_visibility,
	contact_visibility,
	updated_at
FROM visibility_settings
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&rec.UserID,
		&rec.ProfileVisibility,
		&rec.PhotoVisibility,
		&rec.ContactVisibility,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VisibilityConfigRecord{}, ErrNoVisibilityConfig
		}
		return VisibilityConfigRecord{}, fmt.Errorf("get visibility settings: %w", err)
	}

	return rec, nil
}

func (r *VisibilityRepo) Upsert(ctx context.Context, userID int64, profileVisibility, photoVisibility, contactVisibility string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid visibility payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO visibility_settings (
	user_id,
	profile_visibility,
	photo_visibility,
	contact_visibility,
	updated_at
) VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	profile_visibility = EXCLUDED.profile_visibility,
	photo_visibility = EXCLUDED.photo_visibility,
	contact_visibility = EXCLUDED.contact_visibility,
	updated_at = NOW()
`, userID, profileVisibility, photoVisibility, contactVisibility); err != nil {
		return fmt.Errorf("upsert visibility settings: %w", err)
	}

	return nil
}
