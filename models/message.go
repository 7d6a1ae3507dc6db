package models

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one chat turn: the user's request and the backend's
// response. Rows are immutable once created; ModelType always equals the
// parent conversation's binding.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	UserID         uint64    `gorm:"not null;index" json:"user_id"`
	Message        string    `gorm:"not null" json:"message"`
	Response       string    `gorm:"not null" json:"response"`
	ModelType      ModelType `gorm:"not null" json:"model_type"`
	IsMathRelated  bool      `gorm:"not null;default:false" json:"is_math_related"`
	CreatedAt      time.Time `json:"created_at"`
}
