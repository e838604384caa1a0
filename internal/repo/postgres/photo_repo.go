package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxPhotosPerUser = 6

var ErrPhotoLimitReached = errors.New("photo limit reached")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

type PhotoRecord struct {
	ID        int64
	UserID    int64
	Position  int
	ObjectKey string
	CreatedAt time.Time
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Create(ctx context.Context, userID int64, objectKey string) (PhotoRecord, error) {
	if userID <= 0 || objectKey == "" {
		return PhotoRecord{}, fmt.Errorf("invalid photo payload")
	}
	if r.pool == nil {
		return PhotoRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec PhotoRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO photos (
	user_id,
	position,
	object_key,
	created_at
)
SELECT
	$1,
	COALESCE(MAX(position), 0) + 1,
	$2,
	NOW()
FROM photos
WHERE user_id = $1
HAVING COUNT(*) < $3
RETURNING id, user_id, position, object_key, created_at
`, userID, objectKey, maxPhotosPerUser).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Position,
		&rec.ObjectKey,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PhotoRecord{}, ErrPhotoLimitReached
		}
		return PhotoRecord{}, fmt.Errorf("create photo: %w", err)
	}

	return rec, nil
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID int64) ([]PhotoRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []PhotoRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	id,
	user_id,
	position,
	object_key,
	created_at
FROM photos
WHERE user_id = $1
ORDER BY position ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	items := make([]PhotoRecord, 0, maxPhotosPerUser)
	for rows.Next() {
		var rec PhotoRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Position,
			&rec.ObjectKey,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return items, nil
}

func (r *PhotoRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return 0, nil
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM photos
WHERE user_id = $1
`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}

	return count, nil
}
