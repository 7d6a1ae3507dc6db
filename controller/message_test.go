package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
	"github.com/ozayys/ChatBotV1/models"
	"github.com/ozayys/ChatBotV1/pkg"
)

type stubBackend struct {
	content string
	err     error
}

func (s *stubBackend) Generate(context.Context, string, []pkg.Turn, bool) (*pkg.Reply, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &pkg.Reply{Content: s.content, Model: "gpt-3.5-turbo"}, nil
}

func newTestRouter(t *testing.T, backend pkg.Backend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&models.Conversation{},
		&models.Message{},
		&models.UserStatistics{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	log := logger.NewNop()
	backends := map[models.ModelType]pkg.Backend{models.ModelAPI: backend}
	messageLogic := logic.NewMessageLogic(
		dao.NewConversationDAO(db),
		dao.NewMessageDAO(db),
		dao.NewStatisticsDAO(db),
		backends, 0, log,
	)
	ctl := NewMessageController(messageLogic, log)

	r := gin.New()
	authed := r.Group("/api/chat", func(c *gin.Context) {
		c.Set("userID", uint64(1))
	})
	authed.POST("/messages", ctl.SendMessage)
	authed.POST("/messages/stream", ctl.SendStreamingMessage)
	return r
}

// sseFrames extracts the JSON payload of every `data:` frame in a response
// body.
func sseFrames(t *testing.T, body string) []map[string]interface{} {
	t.Helper()
	var frames []map[string]interface{}
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame map[string]interface{}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			t.Fatalf("frame %q: %v", line, err)
		}
		frames = append(frames, frame)
	}
	return frames
}

func TestSendMessageEndpoint(t *testing.T) {
	r := newTestRouter(t, &stubBackend{content: "it is 4"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages",
		strings.NewReader(`{"message":"2+2?","modelType":"api","isMathRelated":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["response"] != "it is 4" {
		t.Fatalf("response = %v", resp["response"])
	}
	if resp["modelType"] != "api" {
		t.Fatalf("modelType = %v", resp["modelType"])
	}
	if resp["conversationId"] == "" || resp["conversationId"] == nil {
		t.Fatal("no conversation id in response")
	}
}

func TestSendMessageEndpointBadConversationID(t *testing.T) {
	r := newTestRouter(t, &stubBackend{content: "x"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages",
		strings.NewReader(`{"message":"hi","modelType":"api","conversationId":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStreamingEndpointFrames(t *testing.T) {
	r := newTestRouter(t, &stubBackend{content: "one two three"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages/stream",
		strings.NewReader(`{"message":"count to three","modelType":"api"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	frames := sseFrames(t, w.Body.String())
	if len(frames) != 4 {
		t.Fatalf("frame count = %d, want 3 chunks and a complete", len(frames))
	}

	wantChunks := []string{"one", "one two", "one two three"}
	for i, want := range wantChunks {
		if frames[i]["type"] != "chunk" {
			t.Fatalf("frame %d type = %v", i, frames[i]["type"])
		}
		if frames[i]["content"] != want {
			t.Fatalf("frame %d content = %v, want %q", i, frames[i]["content"], want)
		}
	}

	last := frames[3]
	if last["type"] != "complete" {
		t.Fatalf("terminal frame type = %v", last["type"])
	}
	if last["response"] != "one two three" {
		t.Fatalf("complete response = %v", last["response"])
	}
	if last["message"] != "count to three" {
		t.Fatalf("complete message = %v", last["message"])
	}
	if last["conversationId"] == "" || last["conversationId"] == nil {
		t.Fatal("complete frame missing conversation id")
	}
}

func TestStreamingEndpointValidationBeforeHeaders(t *testing.T) {
	r := newTestRouter(t, &stubBackend{content: "x"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages/stream",
		strings.NewReader(`{"message":"hi","modelType":"gpt4"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); strings.Contains(ct, "text/event-stream") {
		t.Fatal("validation failure committed the event stream")
	}
}

func TestStreamingEndpointProviderErrorEvent(t *testing.T) {
	r := newTestRouter(t, &stubBackend{err: context.DeadlineExceeded})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/messages/stream",
		strings.NewReader(`{"message":"hi","modelType":"api"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	frames := sseFrames(t, w.Body.String())
	if len(frames) != 1 {
		t.Fatalf("frame count = %d, want a single error frame", len(frames))
	}
	if frames[0]["type"] != "error" {
		t.Fatalf("frame type = %v", frames[0]["type"])
	}
	if frames[0]["message"] != "AI model error occurred" {
		t.Fatalf("frame message = %v", frames[0]["message"])
	}
}
