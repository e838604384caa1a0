package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrContactNotFound = errors.New("contact not found")

// ContactRepo reads the private contact table. It is queried only by the
// contact disclosure path, never while rendering public profile data.
type ContactRepo struct {
	pool *pgxpool.Pool
}

type ContactRecord struct {
	UserID    int64
	Email     string
	PhoneE164 string
	UpdatedAt time.Time
}

func NewContactRepo(pool *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{pool: pool}
}

func (r *ContactRepo) Get(ctx context.Context, userID int64) (ContactRecord, error) {
	if userID <= 0 {
		return ContactRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ContactRecord{}, ErrContactNotFound
	}

	var rec ContactRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(email, ''),
	COALESCE(phone_e164, ''),
	updated_at
FROM contacts
WHERE user_id = $1
LIMIT 1
`, userID).Scan(
		&rec.UserID,
		&rec.Email,
		&rec.PhoneE164,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ContactRecord{}, ErrContactNotFound
		}
		return ContactRecord{}, fmt.Errorf("get contact: %w", err)
	}

	return rec, nil
}

func (r *ContactRepo) Upsert(ctx context.Context, userID int64, email, phoneE164 string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid contact payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO contacts (
	user_id,
	email,
	phone_e164,
	created_at,
	updated_at
) VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	email = EXCLUDED.email,
	phone_e164 = EXCLUDED.phone_e164,
	updated_at = NOW()
`, userID, email, phoneE164); err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}

	return nil
}
