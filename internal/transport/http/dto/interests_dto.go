package dto

import "time"

type InterestSendRequest struct {
	ReceiverUserID int64  `json:"receiver_user_id"`
	Timezone       string `json:"timezone,omitempty"`
}

type InterestRespondRequest struct {
	SenderUserID int64 `json:"sender_user_id"`
}

type InterestItemResponse struct {
	InterestID  int64     `json:"interest_id"`
	UserID      int64     `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Age         int       `json:"age"`
	City        string    `json:"city"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type InterestListResponse struct {
	Items []InterestItemResponse `json:"items"`
}

type InterestSendResponse struct {
	Status string `json:"status"`
}
