package model

import "time"

// Contact lives in its own table, separate from the public profile row, so
// nothing reads it accidentally while rendering profile data.
type Contact struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	PhoneE164 string    `json:"phone_e164"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
