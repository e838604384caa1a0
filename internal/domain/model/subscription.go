package model

import (
	"time"

	"github.com/vivahapp/backend/internal/domain/enums"
)

type Subscription struct {
	UserID    int64                    `json:"user_id"`
	Status    enums.SubscriptionStatus `json:"status"`
	Plan      enums.SubscriptionPlan   `json:"plan"`
	StartedAt time.Time                `json:"started_at"`
	ExpiresAt *time.Time               `json:"expires_at"`
}
