package dto

import "time"

type PhotoResponse struct {
	ID        int64     `json:"id"`
	Position  int       `json:"position"`
	URL       string    `json:"url,omitempty"`
	Blurred   bool      `json:"blurred"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotosListResponse struct {
	Disclosed bool            `json:"disclosed"`
	Total     int             `json:"total"`
	Photos    []PhotoResponse `json:"photos"`
	CTA       string          `json:"cta,omitempty"`
}

type PhotoUploadResponse struct {
	Photo PhotoResponse `json:"photo"`
}
