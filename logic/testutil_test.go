package logic

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/models"
	"github.com/ozayys/ChatBotV1/pkg"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and stable.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.UserStatistics{},
		&models.UserSettings{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

// fakeBackend records its invocations and answers with a fixed reply or
// error.
type fakeBackend struct {
	reply       pkg.Reply
	err         error
	calls       int
	lastPrompt  string
	lastHistory []pkg.Turn
	lastHint    bool
}

func (f *fakeBackend) Generate(_ context.Context, prompt string, history []pkg.Turn, mathHint bool) (*pkg.Reply, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastHistory = history
	f.lastHint = mathHint
	if f.err != nil {
		return nil, f.err
	}
	reply := f.reply
	return &reply, nil
}

type testEnv struct {
	db       *gorm.DB
	convoDAO *dao.ConversationDAO
	msgDAO   *dao.MessageDAO
	statsDAO *dao.StatisticsDAO
	api      *fakeBackend
	custom   *fakeBackend
	mistral  *fakeBackend
	messages *MessageLogic
	convos   *ConversationLogic
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	env := &testEnv{
		db:       db,
		convoDAO: dao.NewConversationDAO(db),
		msgDAO:   dao.NewMessageDAO(db),
		statsDAO: dao.NewStatisticsDAO(db),
		api:      &fakeBackend{reply: pkg.Reply{Content: "api answer", Model: "gpt-3.5-turbo"}},
		custom:   &fakeBackend{reply: pkg.Reply{Content: "custom answer", Model: "T5-Fine-tuned"}},
		mistral:  &fakeBackend{reply: pkg.Reply{Content: "mistral answer", Model: "Mistral-7B-Instruct-v0.3"}},
	}
	backends := map[models.ModelType]pkg.Backend{
		models.ModelAPI:     env.api,
		models.ModelCustom:  env.custom,
		models.ModelMistral: env.mistral,
	}
	log := logger.NewNop()
	env.messages = NewMessageLogic(env.convoDAO, env.msgDAO, env.statsDAO, backends, 0, log)
	env.convos = NewConversationLogic(env.convoDAO, env.msgDAO, env.statsDAO, log)
	return env
}

func (e *testEnv) stats(t *testing.T, userID uint64) *models.UserStatistics {
	t.Helper()
	stats, err := e.statsDAO.GetOrCreate(userID)
	if err != nil {
		t.Fatalf("loading statistics: %v", err)
	}
	return stats
}

func (e *testEnv) messageCount(t *testing.T, userID uint64) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.Message{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("counting messages: %v", err)
	}
	return count
}
