package model

import (
	"time"

	"github.com/vivahapp/backend/internal/domain/enums"
)

// VisibilityConfig holds the three independently configured disclosure axes
// for one member. A profile may be publicly viewable while photos stay
// mutual-only.
type VisibilityConfig struct {
	UserID            int64                   `json:"user_id"`
	ProfileVisibility enums.ProfileVisibility `json:"profile_visibility"`
	PhotoVisibility   enums.MediaVisibility   `json:"photo_visibility"`
	ContactVisibility enums.MediaVisibility   `json:"contact_visibility"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// MostRestrictiveVisibility is the fallback for members with no stored
// config (mid-onboarding) and for unrecognized stored values.
func MostRestrictiveVisibility(userID int64) VisibilityConfig {
	return VisibilityConfig{
		UserID:            userID,
		ProfileVisibility: enums.ProfileVisibilityPrivate,
		PhotoVisibility:   enums.MediaVisibilityMutual,
		ContactVisibility: enums.MediaVisibilityMutual,
	}
}
