package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInterestNotFound = errors.New("interest not found")

type InterestRepo struct {
	pool *pgxpool.Pool
}

type InterestRecord struct {
	ID             int64
	SenderUserID   int64
	ReceiverUserID int64
	Status         string
	CreatedAt      time.Time
	RespondedAt    *time.Time
}

type InterestProfileRecord struct {
	InterestID  int64
	UserID      int64
	DisplayName string
	Age         int
	City        string
	Status      string
	CreatedAt   time.Time
}

func NewInterestRepo(pool *pgxpool.Pool) *InterestRepo {
	return &InterestRepo{pool: pool}
}

// HasAcceptedBetween reports whether a single accepted interest row exists
// between the two users in either direction. Mutuality never requires both
// directions to be accepted independently.
func (r *InterestRepo) HasAcceptedBetween(ctx context.Context, userA, userB int64) (bool, error) {
	if userA <= 0 || userB <= 0 {
		return false, fmt.Errorf("invalid interest lookup payload")
	}
	if r.pool == nil {
		return false, nil
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM interests
WHERE
	status = 'accepted'
	AND (
		(sender_user_id = $1 AND receiver_user_id = $2)
		OR (sender_user_id = $2 AND receiver_user_id = $1)
	)
LIMIT 1
`, userA, userB).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup accepted interest: %w", err)
	}

	return true, nil
}

// Upsert creates a pending interest. Re-sending after a decline resets the
// row to pending; an accepted row is left untouched.
func (r *InterestRepo) Upsert(ctx context.Context, tx pgx.Tx, senderUserID, receiverUserID int64) (InterestRecord, error) {
	if senderUserID <= 0 || receiverUserID <= 0 {
		return InterestRecord{}, fmt.Errorf("invalid interest payload")
	}
	if tx == nil {
		return InterestRecord{}, fmt.Errorf("transaction is required")
	}

	var rec InterestRecord
	err := tx.QueryRow(ctx, `
INSERT INTO interests (
	sender_user_id,
	receiver_user_id,
	status,
	created_at
) VALUES ($1, $2, 'pending', NOW())
ON CONFLICT (sender_user_id, receiver_user_id) DO UPDATE SET
	status = CASE
		WHEN interests.status = 'accepted' THEN interests.status
		ELSE 'pending'
	END,
	responded_at = CASE
		WHEN interests.status = 'accepted' THEN interests.responded_at
		ELSE NULL
	END,
	created_at = NOW()
RETURNING id, sender_user_id, receiver_user_id, status, created_at, responded_at
`, senderUserID, receiverUserID).Scan(
		&rec.ID,
		&rec.SenderUserID,
		&rec.ReceiverUserID,
		&rec.Status,
		&rec.CreatedAt,
		&rec.RespondedAt,
	)
	if err != nil {
		return InterestRecord{}, fmt.Errorf("upsert interest: %w", err)
	}

	return rec, nil
}

// SetStatus transitions the pending interest sent to receiverUserID by
// senderUserID. Only the receiver resolves an interest, which is why the
// lookup is keyed by both sides rather than the row id.
func (r *InterestRepo) SetStatus(ctx context.Context, tx pgx.Tx, senderUserID, receiverUserID int64, status string) (InterestRecord, error) {
	if senderUserID <= 0 || receiverUserID <= 0 || status == "" {
		return InterestRecord{}, fmt.Errorf("invalid interest status payload")
	}
	if tx == nil {
		return InterestRecord{}, fmt.Errorf("transaction is required")
	}

	var rec InterestRecord
	err := tx.QueryRow(ctx, `
UPDATE interests
SET
	status = $3,
	responded_at = NOW()
WHERE
	sender_user_id = $1
	AND receiver_user_id = $2
	AND status = 'pending'
RETURNING id, sender_user_id, receiver_user_id, status, created_at, responded_at
`, senderUserID, receiverUserID, status).Scan(
		&rec.ID,
		&rec.SenderUserID,
		&rec.ReceiverUserID,
		&rec.Status,
		&rec.CreatedAt,
		&rec.RespondedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return InterestRecord{}, ErrInterestNotFound
		}
		return InterestRecord{}, fmt.Errorf("set interest status: %w", err)
	}

	return rec, nil
}

func (r *InterestRepo) ListIncoming(ctx context.Context, userID int64, limit int) ([]InterestProfileRecord, error) {
	return r.listWithProfiles(ctx, userID, limit, true)
}

func (r *InterestRepo) ListSent(ctx context.Context, userID int64, limit int) ([]InterestProfileRecord, error) {
	return r.listWithProfiles(ctx, userID, limit, false)
}

func (r *InterestRepo) listWithProfiles(ctx context.Context, userID int64, limit int, incoming bool) ([]InterestProfileRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 50
	}
	if r.pool == nil {
		return []InterestProfileRecord{}, nil
	}

	side := "i.receiver_user_id"
	counterpart := "i.sender_user_id"
	if !incoming {
		side = "i.sender_user_id"
		counterpart = "i.receiver_user_id"
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
SELECT
	i.id,
	%s,
	COALESCE(p.display_name, ''),
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.city, ''),
	i.status,
	i.created_at
FROM interests i
JOIN profiles p ON p.user_id = %s
WHERE %s = $1
ORDER BY i.created_at DESC, i.id DESC
LIMIT $2
`, counterpart, counterpart, side), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()

	items := make([]InterestProfileRecord, 0, limit)
	for rows.Next() {
		var rec InterestProfileRecord
		if err := rows.Scan(
			&rec.InterestID,
			&rec.UserID,
			&rec.DisplayName,
			&rec.Age,
			&rec.City,
			&rec.Status,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan interest row: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate interests: %w", rows.Err())
	}

	return items, nil
}
