package dao

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/models"
)

// ConversationDAO handles conversation-related database operations
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation bound to the given model
// type. An empty title falls back to the default placeholder.
func (d *ConversationDAO) CreateConversation(userID uint64, title string, modelType models.ModelType) (*models.Conversation, error) {
	if title == "" {
		title = models.DefaultConversationTitle
	}
	convo := &models.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		ModelType: modelType,
	}
	if err := d.db.Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

// GetConversation retrieves a conversation scoped to its owner. A foreign
// conversation comes back as gorm.ErrRecordNotFound, indistinguishable from
// an absent one.
func (d *ConversationDAO) GetConversation(id uuid.UUID, userID uint64) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.Where("id = ? AND user_id = ?", id, userID).First(&convo).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// ListConversations returns a user's conversations, most recently updated
// first.
func (d *ConversationDAO) ListConversations(userID uint64) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&convos).Error; err != nil {
		return nil, err
	}
	return convos, nil
}

// RepairModelType sets the binding of a conversation whose model type is
// still unset. Idempotent: a conversation that already has a binding is left
// untouched.
func (d *ConversationDAO) RepairModelType(id uuid.UUID, fallback models.ModelType) error {
	return d.db.Model(&models.Conversation{}).
		Where("id = ? AND (model_type IS NULL OR model_type = '')", id).
		Update("model_type", fallback).Error
}

// FixNullModelTypes repairs all of a user's unbound conversations to the
// fallback binding and returns the rows that were affected.
func (d *ConversationDAO) FixNullModelTypes(userID uint64, fallback models.ModelType) ([]models.Conversation, error) {
	var broken []models.Conversation
	err := d.db.Where("user_id = ? AND (model_type IS NULL OR model_type = '')", userID).Find(&broken).Error
	if err != nil {
		return nil, err
	}
	if len(broken) == 0 {
		return broken, nil
	}
	err = d.db.Model(&models.Conversation{}).
		Where("user_id = ? AND (model_type IS NULL OR model_type = '')", userID).
		Update("model_type", fallback).Error
	if err != nil {
		return nil, err
	}
	for i := range broken {
		broken[i].ModelType = fallback
	}
	return broken, nil
}

// DeleteConversation removes a conversation and all its messages as one
// unit.
func (d *ConversationDAO) DeleteConversation(id uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, "id = ?", id).Error
	})
}

// ClearMessages deletes a conversation's messages and resets its counter;
// the conversation row and its title survive.
func (d *ConversationDAO) ClearMessages(id uuid.UUID) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).Where("id = ?", id).
			Update("message_count", 0).Error
	})
}

// ClearAllMessages wipes the messages of every conversation a user owns and
// resets their counters. Conversation rows are kept.
func (d *ConversationDAO) ClearAllMessages(userID uint64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&models.Conversation{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("conversation_id IN (?)", sub).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).Where("user_id = ?", userID).
			Update("message_count", 0).Error
	})
}

// TouchUpdatedAt bumps the recency timestamp used for list ordering.
func (d *ConversationDAO) TouchUpdatedAt(id uuid.UUID) error {
	return d.db.Model(&models.Conversation{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}
