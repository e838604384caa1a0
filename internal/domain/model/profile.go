package model

import "time"

type Profile struct {
	UserID           int64      `json:"user_id"`
	DisplayName      string     `json:"display_name"`
	Bio              string     `json:"bio"`
	Birthdate        *time.Time `json:"birthdate"`
	Age              int        `json:"age"`
	Gender           string     `json:"gender"`
	MotherTongue     string     `json:"mother_tongue"`
	Religion         string     `json:"religion"`
	Community        string     `json:"community"`
	MaritalStatus    string     `json:"marital_status"`
	Occupation       string     `json:"occupation"`
	Education        string     `json:"education"`
	HeightCM         int        `json:"height_cm"`
	City             string     `json:"city"`
	Country          string     `json:"country"`
	ProfileCompleted bool       `json:"profile_completed"`
	PhotosCount      int        `json:"photos_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
