package model

import (
	"time"

	"github.com/vivahapp/backend/internal/domain/enums"
)

// Interest is a directed interest record. Mutuality is represented by a
// single row whose status transitions to accepted; no second row is required.
type Interest struct {
	ID             int64                `json:"id"`
	SenderUserID   int64                `json:"sender_user_id"`
	ReceiverUserID int64                `json:"receiver_user_id"`
	Status         enums.InterestStatus `json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
	RespondedAt    *time.Time           `json:"responded_at"`
}
