package privacy

import (
	"github.com/vivahapp/backend/internal/domain/enums"
	"github.com/vivahapp/backend/internal/domain/model"
)

// Decision is the disclosure verdict for one (viewer, subject) pair. It is
// computed fresh per request and never cached across disclosure categories:
// all three axes are evaluated against one snapshot of the viewer's premium
// and connection state.
type Decision struct {
	CanViewProfile   bool `json:"can_view_profile"`
	CanViewPhotos    bool `json:"can_view_photos"`
	CanViewContact   bool `json:"can_view_contact"`
	ShouldBlurPhotos bool `json:"should_blur_photos"`
}

// Inputs carries the resolved facts the decision needs. Anonymous viewers
// have Authenticated=false, which also forces Premium and Connected false.
type Inputs struct {
	Self          bool
	Authenticated bool
	Premium       bool
	Connected     bool
	Visibility    model.VisibilityConfig
}

func FullDisclosure() Decision {
	return Decision{
		CanViewProfile:   true,
		CanViewPhotos:    true,
		CanViewContact:   true,
		ShouldBlurPhotos: false,
	}
}

// Decide evaluates the disclosure rules in precedence order: self-view wins
// outright, then the profile axis gates the photo and contact axes. A denied
// profile forces photos and contact closed regardless of their own settings.
func Decide(in Inputs) Decision {
	if in.Self {
		return FullDisclosure()
	}

	d := Decision{}
	d.CanViewProfile = profileAllowed(in.Visibility.ProfileVisibility, in)
	if d.CanViewProfile {
		d.CanViewPhotos = mediaAllowed(in.Visibility.PhotoVisibility, in)
		d.CanViewContact = mediaAllowed(in.Visibility.ContactVisibility, in)
	}
	d.ShouldBlurPhotos = !d.CanViewPhotos

	return d
}

func profileAllowed(vis enums.ProfileVisibility, in Inputs) bool {
	switch vis {
	case enums.ProfileVisibilityPublic:
		return true
	case enums.ProfileVisibilityCommunity:
		return in.Authenticated
	case enums.ProfileVisibilityPremium:
		return in.Premium || in.Connected
	case enums.ProfileVisibilityPrivate:
		return in.Connected
	default:
		// Unrecognized values fall through to the private rule. The
		// fallback for bad input is never permissive.
		return in.Connected
	}
}

func mediaAllowed(vis enums.MediaVisibility, in Inputs) bool {
	switch vis {
	case enums.MediaVisibilityAll:
		return true
	case enums.MediaVisibilityPremium:
		return in.Premium || in.Connected
	case enums.MediaVisibilityMutual:
		return in.Connected
	default:
		return in.Connected
	}
}
