package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
	"github.com/ozayys/ChatBotV1/middleware"
	"github.com/ozayys/ChatBotV1/models"
)

// ConversationController handles conversation CRUD requests
type ConversationController struct {
	convoLogic *logic.ConversationLogic
	log        *logger.Logger
}

func NewConversationController(convoLogic *logic.ConversationLogic, log *logger.Logger) *ConversationController {
	return &ConversationController{convoLogic: convoLogic, log: log}
}

// GetConversations handles GET /api/chat/conversations
func (ctl *ConversationController) GetConversations(c *gin.Context) {
	summaries, err := ctl.convoLogic.ListConversations(middleware.UserID(c))
	if err != nil {
		respondError(c, ctl.log, err, "Server error during fetching chat history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// CreateConversation handles POST /api/chat/conversations
func (ctl *ConversationController) CreateConversation(c *gin.Context) {
	type Request struct {
		Title     string           `json:"title"`
		ModelType models.ModelType `json:"modelType" binding:"required"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Model type is required"})
		return
	}

	convo, err := ctl.convoLogic.CreateConversation(middleware.UserID(c), req.Title, req.ModelType)
	if err != nil {
		respondError(c, ctl.log, err, "Server error while creating conversation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"conversationId": convo.ID,
		"title":          convo.Title,
		"modelType":      convo.ModelType,
		"createdAt":      convo.CreatedAt,
	})
}

// GetConversationMessages handles GET /api/chat/conversations/:id
func (ctl *ConversationController) GetConversationMessages(c *gin.Context) {
	convoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid conversation ID"})
		return
	}

	convo, messages, err := ctl.convoLogic.GetConversationMessages(middleware.UserID(c), convoID)
	if err != nil {
		respondError(c, ctl.log, err, "Server error during fetching conversation messages")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"conversation": gin.H{
			"id":        convo.ID,
			"modelType": convo.ModelType,
			"title":     convo.Title,
		},
	})
}

// DeleteConversation handles DELETE /api/chat/conversations/:id
func (ctl *ConversationController) DeleteConversation(c *gin.Context) {
	convoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid conversation ID"})
		return
	}

	if err := ctl.convoLogic.DeleteConversation(middleware.UserID(c), convoID); err != nil {
		respondError(c, ctl.log, err, "Server error while deleting conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// ClearConversation handles DELETE /api/chat/conversations/:id/messages
func (ctl *ConversationController) ClearConversation(c *gin.Context) {
	convoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid conversation ID"})
		return
	}

	if err := ctl.convoLogic.ClearConversation(middleware.UserID(c), convoID); err != nil {
		respondError(c, ctl.log, err, "Server error while clearing conversation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation cleared successfully"})
}

// ClearHistory handles DELETE /api/chat/history
func (ctl *ConversationController) ClearHistory(c *gin.Context) {
	if err := ctl.convoLogic.ClearAllHistory(middleware.UserID(c)); err != nil {
		respondError(c, ctl.log, err, "Server error while clearing chat history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All chat history cleared successfully"})
}

// FixModelTypes handles POST /api/chat/fix-model-types
func (ctl *ConversationController) FixModelTypes(c *gin.Context) {
	fixed, err := ctl.convoLogic.FixModelTypes(middleware.UserID(c))
	if err != nil {
		respondError(c, ctl.log, err, "Server error during fixing conversation model types")
		return
	}

	if len(fixed) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No conversations with NULL model_type found",
			"fixed":   0,
		})
		return
	}

	repaired := make([]gin.H, 0, len(fixed))
	for _, convo := range fixed {
		repaired = append(repaired, gin.H{
			"id":           convo.ID,
			"title":        convo.Title,
			"newModelType": models.ModelCustom,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            fmt.Sprintf("Fixed %d conversations", len(fixed)),
		"fixed":              len(fixed),
		"conversationsFixed": repaired,
	})
}
