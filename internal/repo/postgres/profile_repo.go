package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	UserID           int64
	DisplayName      string
	Bio              string
	Birthdate        *time.Time
	Age              int
	Gender           string
	MotherTongue     string
	Religion         string
	Community        string
	MaritalStatus    string
	Occupation       string
	Education        string
	HeightCM         int
	City             string
	Country          string
	ProfileCompleted bool
	PhotosCount      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Get(ctx context.Context, userID int64) (ProfileRecord, error) {
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	p.user_id,
	COALESCE(p.display_name, ''),
	COALESCE(p.bio, ''),
	p.birthdate,
	COALESCE(DATE_PART('year', AGE(NOW(), p.birthdate::timestamp))::int, 0),
	COALESCE(p.gender, ''),
	COALESCE(p.mother_tongue, ''),
	COALESCE(p.religion, ''),
	COALESCE(p.community, ''),
	COALESCE(p.marital_status, ''),
	COALESCE(p.occupation, ''),
	COALESCE(p.education, ''),
	COALESCE(p.height_cm, 0),
	COALESCE(p.city, ''),
	COALESCE(p.country, ''),
	p.profile_completed,
	(SELECT COUNT(*) FROM photos ph WHERE ph.user_id = p.user_id)::int,
	p.created_at,
	p.updated_at
FROM profiles p
WHERE p.user_id = $1
LIMIT 1
`, userID).Scan(
		&rec.UserID,
		&rec.DisplayName,
		&rec.Bio,
		&rec.Birthdate,
		&rec.Age,
		&rec.Gender,
		&rec.MotherTongue,
		&rec.Religion,
		&rec.Community,
		&rec.MaritalStatus,
		&rec.Occupation,
		&rec.Education,
		&rec.HeightCM,
		&rec.City,
		&rec.Country,
		&rec.ProfileCompleted,
		&rec.PhotosCount,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) SaveCore(
	ctx context.Context,
	userID int64,
	displayName string,
	bio string,
	birthdate time.Time,
	gender string,
	motherTongue string,
	religion string,
	community string,
	maritalStatus string,
	occupation string,
	education string,
	heightCM int,
	city string,
	country string,
	profileCompleted bool,
) error {
	if userID <= 0 {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	bio,
	birthdate,
	gender,
	mother_tongue,
	religion,
	community,
	marital_status,
	occupation,
	education,
	height_cm,
	city,
	country,
	profile_completed,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	bio = EXCLUDED.bio,
	birthdate = EXCLUDED.birthdate,
	gender = EXCLUDED.gender,
	mother_tongue = EXCLUDED.mother_tongue,
	religion = EXCLUDED.religion,
	community = EXCLUDED.community,
	marital_status = EXCLUDED.marital_status,
	occupation = EXCLUDED.occupation,
	education = EXCLUDED.education,
	height_cm = EXCLUDED.height_cm,
	city = EXCLUDED.city,
	country = EXCLUDED.country,
	profile_completed = EXCLUDED.profile_completed,
	updated_at = NOW()
`,
		userID,
		displayName,
		bio,
		birthdate,
		gender,
		motherTongue,
		religion,
		community,
		maritalStatus,
		occupation,
		education,
		heightCM,
		city,
		country,
		profileCompleted,
	); err != nil {
		return fmt.Errorf("save profile core: %w", err)
	}

	return nil
}
