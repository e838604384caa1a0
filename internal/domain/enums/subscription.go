package enums

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusInactive  SubscriptionStatus = "inactive"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

type SubscriptionPlan string

const (
	SubscriptionPlanFree        SubscriptionPlan = "free"
	SubscriptionPlanPremium     SubscriptionPlan = "premium"
	SubscriptionPlanPremiumPlus SubscriptionPlan = "premium_plus"
)
