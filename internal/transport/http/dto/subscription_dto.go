package dto

import "time"

type SubscriptionResponse struct {
	IsPremium bool       `json:"is_premium"`
	Plan      string     `json:"plan"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
