package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/models"
	"github.com/ozayys/ChatBotV1/pkg"
)

// SendRequest is one inbound user message, already attributed to an
// authenticated caller.
type SendRequest struct {
	UserID         uint64
	Text           string
	ModelType      models.ModelType
	ConversationID *uuid.UUID
	IsMathRelated  bool
}

// ChunkEvent carries the cumulative text revealed so far, not a delta.
type ChunkEvent struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	ConversationID string `json:"conversationId"`
}

// CompleteEvent is the successful terminal event of a stream; it echoes the
// persisted message the way the non-streaming path does.
type CompleteEvent struct {
	Type           string    `json:"type"`
	MessageID      uint64    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	Message        string    `json:"message"`
	Response       string    `json:"response"`
	ModelType      string    `json:"modelType"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ErrorEvent is the failing terminal event of a stream.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MessageLogic is the dispatch orchestrator: it resolves the target
// conversation, invokes the bound backend and persists the resulting turn.
type MessageLogic struct {
	convoDAO   *dao.ConversationDAO
	messageDAO *dao.MessageDAO
	statsDAO   *dao.StatisticsDAO
	backends   map[models.ModelType]pkg.Backend
	wordDelay  time.Duration
	log        *logger.Logger
}

func NewMessageLogic(
	convoDAO *dao.ConversationDAO,
	messageDAO *dao.MessageDAO,
	statsDAO *dao.StatisticsDAO,
	backends map[models.ModelType]pkg.Backend,
	wordDelay time.Duration,
	log *logger.Logger,
) *MessageLogic {
	return &MessageLogic{
		convoDAO:   convoDAO,
		messageDAO: messageDAO,
		statsDAO:   statsDAO,
		backends:   backends,
		wordDelay:  wordDelay,
		log:        log,
	}
}

// ResolveConversation validates the request and returns the conversation the
// message targets, creating one when no id was given. A loaded conversation
// with an unset binding is repaired to the requested model type; an existing
// binding always wins over the request's.
func (l *MessageLogic) ResolveConversation(req SendRequest) (*models.Conversation, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}
	if !req.ModelType.Valid() {
		return nil, fmt.Errorf("%w: valid model type is required (api, custom, or mistral)", ErrInvalidRequest)
	}

	if req.ConversationID == nil {
		convo, err := l.convoDAO.CreateConversation(req.UserID, "", req.ModelType)
		if err != nil {
			return nil, err
		}
		if err := l.statsDAO.IncrementConversations(req.UserID); err != nil {
			l.log.Error("failed to update conversation statistics", "user_id", req.UserID, "error", err)
		}
		return convo, nil
	}

	convo, err := l.convoDAO.GetConversation(*req.ConversationID, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	if convo.ModelType == "" {
		l.log.Warn("repairing unset model type",
			"conversation_id", convo.ID, "model_type", req.ModelType)
		if err := l.convoDAO.RepairModelType(convo.ID, req.ModelType); err != nil {
			return nil, err
		}
		convo.ModelType = req.ModelType
	}
	return convo, nil
}

// SendMessage handles the non-streaming path end to end and returns the
// persisted turn.
func (l *MessageLogic) SendMessage(ctx context.Context, req SendRequest) (*models.Message, error) {
	convo, err := l.ResolveConversation(req)
	if err != nil {
		return nil, err
	}

	reply, err := l.generate(ctx, convo, req)
	if err != nil {
		return nil, err
	}

	return l.persistTurn(convo, req, reply)
}

// StreamReply handles the streaming path for an already resolved
// conversation: it generates the full reply, reveals it through emit as
// cumulative chunks, persists the turn, then emits the terminal complete
// event. Replies from the fine-tuned backend arrive in a single chunk; the
// other two are revealed word by word. On error the caller is responsible
// for the terminal error event.
func (l *MessageLogic) StreamReply(ctx context.Context, convo *models.Conversation, req SendRequest, emit func(event interface{})) error {
	reply, err := l.generate(ctx, convo, req)
	if err != nil {
		return err
	}

	if convo.ModelType == models.ModelCustom {
		emit(ChunkEvent{Type: "chunk", Content: reply.Content, ConversationID: convo.ID.String()})
	} else {
		l.emitWords(ctx, convo.ID.String(), reply.Content, emit)
	}

	msg, err := l.persistTurn(convo, req, reply)
	if err != nil {
		return err
	}

	// A disconnected client stops emission but never the persistence above.
	if ctx.Err() == nil {
		emit(CompleteEvent{
			Type:           "complete",
			MessageID:      msg.ID,
			ConversationID: convo.ID.String(),
			Message:        msg.Message,
			Response:       msg.Response,
			ModelType:      string(msg.ModelType),
			CreatedAt:      msg.CreatedAt,
		})
	}
	return nil
}

// emitWords reveals an already complete reply as growing prefixes split on
// single spaces, pausing briefly between chunks.
func (l *MessageLogic) emitWords(ctx context.Context, conversationID, full string, emit func(event interface{})) {
	words := strings.Split(full, " ")
	var prefix strings.Builder
	for i, word := range words {
		if ctx.Err() != nil {
			return
		}
		if i > 0 {
			prefix.WriteByte(' ')
		}
		prefix.WriteString(word)
		emit(ChunkEvent{Type: "chunk", Content: prefix.String(), ConversationID: conversationID})

		if i == len(words)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.wordDelay):
		}
	}
}

func (l *MessageLogic) generate(ctx context.Context, convo *models.Conversation, req SendRequest) (*pkg.Reply, error) {
	backend, ok := l.backends[convo.ModelType]
	if !ok {
		return nil, fmt.Errorf("%w: no backend registered for model type %q", ErrInvalidRequest, convo.ModelType)
	}

	history, err := l.messageDAO.GetMessagesByConversationID(convo.ID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation context: %w", err)
	}

	reply, err := backend.Generate(ctx, req.Text, BuildChatContext(history), req.IsMathRelated)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	if reply.Degraded {
		l.log.Warn("backend unavailable, serving demo reply",
			"conversation_id", convo.ID, "model_type", convo.ModelType, "model", reply.Model)
	}
	return reply, nil
}

// persistTurn writes the message row and all counters as one unit. A
// failure here is reported as a PersistenceError: the generated reply was
// already handed to the caller and is lost from persistence, which is logged
// rather than hidden.
func (l *MessageLogic) persistTurn(convo *models.Conversation, req SendRequest, reply *pkg.Reply) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: convo.ID,
		UserID:         req.UserID,
		Message:        req.Text,
		Response:       reply.Content,
		ModelType:      convo.ModelType,
		IsMathRelated:  req.IsMathRelated,
	}
	if err := l.messageDAO.RecordTurn(msg); err != nil {
		l.log.Error("generated reply could not be persisted and is lost",
			"conversation_id", convo.ID, "user_id", req.UserID, "error", err)
		return nil, &PersistenceError{Err: err}
	}
	return msg, nil
}
