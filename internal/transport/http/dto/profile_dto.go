package dto

type ProfileCoreRequest struct {
	DisplayName   string `json:"display_name"`
	Bio           string `json:"bio"`
	Birthdate     string `json:"birthdate"`
	Gender        string `json:"gender"`
	MotherTongue  string `json:"mother_tongue"`
	Religion      string `json:"religion"`
	Community     string `json:"community"`
	MaritalStatus string `json:"marital_status"`
	Occupation    string `json:"occupation"`
	Education     string `json:"education"`
	HeightCM      int    `json:"height_cm"`
	City          string `json:"city"`
	Country       string `json:"country"`
}

type ProfileCoreResponse struct {
	ProfileCompleted bool `json:"profile_completed"`
}

type VisibilitySettingsRequest struct {
	ProfileVisibility string `json:"profile_visibility"`
	PhotoVisibility   string `json:"photo_visibility"`
	ContactVisibility string `json:"contact_visibility"`
}

type ContactUpdateRequest struct {
	Email     string `json:"email"`
	PhoneE164 string `json:"phone_e164"`
}

// ProfileViewResponse renders a subject's profile for a specific viewer. The
// detail block is present only when the profile axis is disclosed.
type ProfileViewResponse struct {
	UserID     int64              `json:"user_id"`
	Disclosed  bool               `json:"disclosed"`
	Disclosure DisclosureResponse `json:"disclosure"`
	Profile    *ProfileDetail     `json:"profile,omitempty"`
	Contact    *ContactResponse   `json:"contact,omitempty"`
	CTA        string             `json:"cta,omitempty"`
}

type DisclosureResponse struct {
	CanViewProfile   bool `json:"can_view_profile"`
	CanViewPhotos    bool `json:"can_view_photos"`
	CanViewContact   bool `json:"can_view_contact"`
	ShouldBlurPhotos bool `json:"should_blur_photos"`
}

type ProfileDetail struct {
	DisplayName   string `json:"display_name"`
	Bio           string `json:"bio"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MotherTongue  string `json:"mother_tongue"`
	Religion      string `json:"religion"`
	Community     string `json:"community"`
	MaritalStatus string `json:"marital_status"`
	Occupation    string `json:"occupation"`
	Education     string `json:"education"`
	HeightCM      int    `json:"height_cm"`
	City          string `json:"city"`
	Country       string `json:"country"`
	PhotosCount   int    `json:"photos_count"`
}
