package model

import "time"

type Photo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Position  int       `json:"position"`
	ObjectKey string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
