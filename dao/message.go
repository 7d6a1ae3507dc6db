package dao

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/models"
)

// MessageDAO handles message-related database operations
type MessageDAO struct {
	db *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

// GetMessagesByConversationID retrieves all messages in a conversation,
// oldest first.
func (d *MessageDAO) GetMessagesByConversationID(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestMessage returns the newest message of a conversation, or nil when
// the conversation has none.
func (d *MessageDAO) LatestMessage(conversationID uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := d.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// RecordTurn persists a chat turn together with its counter updates as one
// unit: the message row, the conversation's message count and recency
// timestamp, and the owner's statistics (total messages, exactly one of the
// math/general buckets, exactly one per-backend counter, last-active).
func (d *MessageDAO) RecordTurn(msg *models.Message) error {
	now := time.Now()
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		err := tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"message_count": gorm.Expr("message_count + 1"),
				"updated_at":    now,
			}).Error
		if err != nil {
			return err
		}

		if err := ensureStatistics(tx, msg.UserID, now); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"total_messages": gorm.Expr("total_messages + 1"),
			"last_active_at": now,
		}
		if msg.IsMathRelated {
			updates["math_questions_count"] = gorm.Expr("math_questions_count + 1")
		} else {
			updates["general_questions_count"] = gorm.Expr("general_questions_count + 1")
		}
		usesColumn := modelUsesColumn(msg.ModelType)
		updates[usesColumn] = gorm.Expr(usesColumn + " + 1")

		return tx.Model(&models.UserStatistics{}).
			Where("user_id = ?", msg.UserID).
			Updates(updates).Error
	})
}

func modelUsesColumn(modelType models.ModelType) string {
	switch modelType {
	case models.ModelCustom:
		return "custom_model_uses"
	case models.ModelMistral:
		return "mistral_model_uses"
	default:
		return "api_model_uses"
	}
}
