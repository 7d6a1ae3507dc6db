package logic

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/models"
)

// ConversationSummary is a conversation annotated with a preview of its most
// recent turn for the history list.
type ConversationSummary struct {
	models.Conversation
	LastMessage  string `json:"lastMessage"`
	LastResponse string `json:"lastResponse"`
}

// ConversationLogic handles conversation-related business logic
type ConversationLogic struct {
	convoDAO   *dao.ConversationDAO
	messageDAO *dao.MessageDAO
	statsDAO   *dao.StatisticsDAO
	log        *logger.Logger
}

func NewConversationLogic(
	convoDAO *dao.ConversationDAO,
	messageDAO *dao.MessageDAO,
	statsDAO *dao.StatisticsDAO,
	log *logger.Logger,
) *ConversationLogic {
	return &ConversationLogic{
		convoDAO:   convoDAO,
		messageDAO: messageDAO,
		statsDAO:   statsDAO,
		log:        log,
	}
}

// ListConversations returns a user's conversations newest-activity first,
// each with the request/response text of its latest message (empty strings
// when there is none).
func (l *ConversationLogic) ListConversations(userID uint64) ([]ConversationSummary, error) {
	convos, err := l.convoDAO.ListConversations(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convos))
	for _, convo := range convos {
		summary := ConversationSummary{Conversation: convo}
		latest, err := l.messageDAO.LatestMessage(convo.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			summary.LastMessage = latest.Message
			summary.LastResponse = latest.Response
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// CreateConversation creates a conversation bound to the given model type
// and counts it in the owner's statistics.
func (l *ConversationLogic) CreateConversation(userID uint64, title string, modelType models.ModelType) (*models.Conversation, error) {
	if !modelType.Valid() {
		return nil, fmt.Errorf("%w: invalid model type: %s. Must be 'api', 'custom', or 'mistral'", ErrInvalidRequest, modelType)
	}

	convo, err := l.convoDAO.CreateConversation(userID, title, modelType)
	if err != nil {
		return nil, err
	}
	if err := l.statsDAO.IncrementConversations(userID); err != nil {
		l.log.Error("failed to update conversation statistics", "user_id", userID, "error", err)
	}
	return convo, nil
}

// GetConversationMessages returns a conversation and all its messages,
// oldest first.
func (l *ConversationLogic) GetConversationMessages(userID uint64, conversationID uuid.UUID) (*models.Conversation, []models.Message, error) {
	convo, err := l.getOwned(conversationID, userID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := l.messageDAO.GetMessagesByConversationID(conversationID)
	if err != nil {
		return nil, nil, err
	}
	return convo, messages, nil
}

// DeleteConversation removes a conversation with its messages and lowers the
// owner's conversation counter, never below zero.
func (l *ConversationLogic) DeleteConversation(userID uint64, conversationID uuid.UUID) error {
	if _, err := l.getOwned(conversationID, userID); err != nil {
		return err
	}

	if err := l.convoDAO.DeleteConversation(conversationID); err != nil {
		return err
	}
	if err := l.statsDAO.DecrementConversations(userID); err != nil {
		l.log.Error("failed to update conversation statistics", "user_id", userID, "error", err)
	}
	return nil
}

// ClearConversation deletes all messages of a conversation; the row and its
// title persist with the counter reset to zero.
func (l *ConversationLogic) ClearConversation(userID uint64, conversationID uuid.UUID) error {
	if _, err := l.getOwned(conversationID, userID); err != nil {
		return err
	}
	return l.convoDAO.ClearMessages(conversationID)
}

// ClearAllHistory wipes the messages of every conversation the user owns.
func (l *ConversationLogic) ClearAllHistory(userID uint64) error {
	return l.convoDAO.ClearAllMessages(userID)
}

// FixModelTypes repairs all of the user's conversations that still have no
// backend binding, defaulting them to the custom model.
func (l *ConversationLogic) FixModelTypes(userID uint64) ([]models.Conversation, error) {
	fixed, err := l.convoDAO.FixNullModelTypes(userID, models.ModelCustom)
	if err != nil {
		return nil, err
	}
	if len(fixed) > 0 {
		l.log.Info("repaired conversations with unset model type",
			"user_id", userID, "count", len(fixed))
	}
	return fixed, nil
}

func (l *ConversationLogic) getOwned(conversationID uuid.UUID, userID uint64) (*models.Conversation, error) {
	convo, err := l.convoDAO.GetConversation(conversationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return convo, nil
}
