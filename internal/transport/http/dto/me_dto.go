package dto

type MeResponse struct {
	UserID           int64                `json:"user_id"`
	ProfileCompleted bool                 `json:"profile_completed"`
	Profile          *ProfileDetail       `json:"profile,omitempty"`
	Subscription     SubscriptionResponse `json:"subscription"`
}
