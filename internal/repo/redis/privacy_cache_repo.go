package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const privacyPairPrefix = "privacy:pair:"

// PrivacyCacheRepo memoizes resolved relationship facts for a (viewer,
// subject) pair. It is a view-session optimization only; a cache miss or
// redis outage just means the facts are resolved from postgres again.
type PrivacyCacheRepo struct {
	client *goredis.Client
}

type RelationshipFactsRecord struct {
	ProfileVisibility string `json:"profile_visibility"`
	PhotoVisibility   string `json:"photo_visibility"`
	ContactVisibility string `json:"contact_visibility"`
	ViewerIsPremium   bool   `json:"viewer_is_premium"`
	MutualConnection  bool   `json:"mutual_connection"`
}

func NewPrivacyCacheRepo(client *goredis.Client) *PrivacyCacheRepo {
	return &PrivacyCacheRepo{client: client}
}

func (r *PrivacyCacheRepo) Get(ctx context.Context, viewerID, subjectID int64) (RelationshipFactsRecord, bool, error) {
	if r.client == nil {
		return RelationshipFactsRecord{}, false, fmt.Errorf("redis client is nil")
	}
	if viewerID <= 0 || subjectID <= 0 {
		return RelationshipFactsRecord{}, false, fmt.Errorf("invalid pair key payload")
	}

	raw, err := r.client.Get(ctx, pairKey(viewerID, subjectID)).Result()
	if err != nil {
		if err == goredis.Nil {
			return RelationshipFactsRecord{}, false, nil
		}
		return RelationshipFactsRecord{}, false, fmt.Errorf("get privacy pair cache: %w", err)
	}

	var rec RelationshipFactsRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return RelationshipFactsRecord{}, false, fmt.Errorf("decode privacy pair cache: %w", err)
	}

	return rec, true, nil
}

func (r *PrivacyCacheRepo) Set(ctx context.Context, viewerID, subjectID int64, rec RelationshipFactsRecord, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if viewerID <= 0 || subjectID <= 0 || ttl <= 0 {
		return fmt.Errorf("invalid pair cache payload")
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode privacy pair cache: %w", err)
	}

	if err := r.client.Set(ctx, pairKey(viewerID, subjectID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("set privacy pair cache: %w", err)
	}

	return nil
}

// InvalidatePair drops both directions of the pair. Interest transitions
// change connectivity for both sides at once.
func (r *PrivacyCacheRepo) InvalidatePair(ctx context.Context, userA, userB int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userA <= 0 || userB <= 0 {
		return fmt.Errorf("invalid pair key payload")
	}

	if err := r.client.Del(ctx, pairKey(userA, userB), pairKey(userB, userA)).Err(); err != nil {
		return fmt.Errorf("invalidate privacy pair cache: %w", err)
	}

	return nil
}

// InvalidateUser drops every cached pair that involves the user, in either
// role. Used when the user's subscription or visibility settings change.
func (r *PrivacyCacheRepo) InvalidateUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	patterns := []string{
		privacyPairPrefix + strconv.FormatInt(userID, 10) + ":*",
		privacyPairPrefix + "*:" + strconv.FormatInt(userID, 10),
	}

	for _, pattern := range patterns {
		iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("invalidate privacy user cache: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan privacy user cache: %w", err)
		}
	}

	return nil
}

func pairKey(viewerID, subjectID int64) string {
	return privacyPairPrefix + strconv.FormatInt(viewerID, 10) + ":" + strconv.FormatInt(subjectID, 10)
}
