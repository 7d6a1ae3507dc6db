package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConversationTitle is used when a conversation is created without
// an explicit title.
const DefaultConversationTitle = "New Conversation"

// Conversation represents a conversation. ModelType is empty for legacy rows
// that were created before bindings existed; such rows are repaired on the
// next message or via the fix-model-types endpoint.
type Conversation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	Title        string    `gorm:"not null" json:"title"`
	ModelType    ModelType `json:"model_type"`
	MessageCount int       `gorm:"not null;default:0" json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
