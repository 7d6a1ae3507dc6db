package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
	"github.com/ozayys/ChatBotV1/middleware"
	"github.com/ozayys/ChatBotV1/models"
)

// MessageController handles the message send endpoints, streaming and not
type MessageController struct {
	messageLogic *logic.MessageLogic
	log          *logger.Logger
}

func NewMessageController(messageLogic *logic.MessageLogic, log *logger.Logger) *MessageController {
	return &MessageController{messageLogic: messageLogic, log: log}
}

type sendMessageRequest struct {
	Message        string           `json:"message"`
	ModelType      models.ModelType `json:"modelType"`
	ConversationID string           `json:"conversationId"`
	IsMathRelated  bool             `json:"isMathRelated"`
}

func (r *sendMessageRequest) toSendRequest(userID uint64) (logic.SendRequest, error) {
	req := logic.SendRequest{
		UserID:        userID,
		Text:          r.Message,
		ModelType:     r.ModelType,
		IsMathRelated: r.IsMathRelated,
	}
	if r.ConversationID != "" {
		id, err := uuid.Parse(r.ConversationID)
		if err != nil {
			return logic.SendRequest{}, err
		}
		req.ConversationID = &id
	}
	return req, nil
}

// SendMessage handles POST /api/chat/messages
func (ctl *MessageController) SendMessage(c *gin.Context) {
	var body sendMessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}

	req, err := body.toSendRequest(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid conversation ID"})
		return
	}

	msg, err := ctl.messageLogic.SendMessage(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctl.log, err, "Server error while processing message")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             msg.ID,
		"conversationId": msg.ConversationID,
		"message":        msg.Message,
		"response":       msg.Response,
		"modelType":      msg.ModelType,
		"isMathRelated":  msg.IsMathRelated,
		"createdAt":      msg.CreatedAt,
	})
}

// SendStreamingMessage handles POST /api/chat/messages/stream. Validation
// and conversation resolution happen before the stream is committed so those
// failures still get proper HTTP statuses; everything after the headers is
// reported through a terminal error event.
func (ctl *MessageController) SendStreamingMessage(c *gin.Context) {
	var body sendMessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}

	req, err := body.toSendRequest(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid conversation ID"})
		return
	}

	convo, err := ctl.messageLogic.ResolveConversation(req)
	if err != nil {
		respondError(c, ctl.log, err, "Server error while processing streaming message")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	emit := func(event interface{}) {
		writeSSE(c, event)
	}
	if err := ctl.messageLogic.StreamReply(c.Request.Context(), convo, req, emit); err != nil {
		ctl.log.Error("streaming message failed", "conversation_id", convo.ID, "error", err)
		writeSSE(c, logic.ErrorEvent{Type: "error", Message: "AI model error occurred"})
	}
}

// writeSSE frames one event as `data: <json>` and flushes it immediately.
func writeSSE(c *gin.Context, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	c.Writer.Flush()
}
