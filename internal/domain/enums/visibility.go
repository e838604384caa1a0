package enums

// ProfileVisibility controls who may view a member's profile at all.
type ProfileVisibility string

const (
	ProfileVisibilityPublic    ProfileVisibility = "public"
	ProfileVisibilityCommunity ProfileVisibility = "community"
	ProfileVisibilityPremium   ProfileVisibility = "premium"
	ProfileVisibilityPrivate   ProfileVisibility = "private"
)

// MediaVisibility controls photo and contact disclosure for viewers who
// already passed the profile gate.
type MediaVisibility string

const (
	MediaVisibilityAll     MediaVisibility = "all"
	MediaVisibilityPremium MediaVisibility = "premium"
	MediaVisibilityMutual  MediaVisibility = "mutual"
)
