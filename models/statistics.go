package models

import (
	"time"
)

// UserStatistics holds per-user usage counters. One row per user, created
// lazily on first access and adjusted alongside each message write and each
// conversation create/delete.
type UserStatistics struct {
	UserID                uint64    `gorm:"primaryKey" json:"user_id"`
	TotalConversations    int64     `gorm:"not null;default:0" json:"total_conversations"`
	TotalMessages         int64     `gorm:"not null;default:0" json:"total_messages"`
	MathQuestionsCount    int64     `gorm:"not null;default:0" json:"math_questions_count"`
	GeneralQuestionsCount int64     `gorm:"not null;default:0" json:"general_questions_count"`
	APIModelUses          int64     `gorm:"column:api_model_uses;not null;default:0" json:"api_model_uses"`
	CustomModelUses       int64     `gorm:"not null;default:0" json:"custom_model_uses"`
	MistralModelUses      int64     `gorm:"not null;default:0" json:"mistral_model_uses"`
	LastActiveAt          time.Time `json:"last_active_at"`
}
