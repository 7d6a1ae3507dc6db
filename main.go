package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/config"
	"github.com/ozayys/ChatBotV1/controller"
	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
	"github.com/ozayys/ChatBotV1/middleware"
	"github.com/ozayys/ChatBotV1/models"
	"github.com/ozayys/ChatBotV1/pkg"
)

func main() {
	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run main.go <config.yaml>")
	}
	if err := config.LoadConfig(os.Args[1]); err != nil {
		log.Fatalf("Failed to load config from %s: %v", os.Args[1], err)
	}
	cfg := &config.GlobalConfig

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.UserStatistics{},
		&models.UserSettings{},
	)
	if err != nil {
		appLog.Fatal("Failed to migrate database", "error", err)
	}

	// Initialize the three answer-generation backends
	backends := map[models.ModelType]pkg.Backend{
		models.ModelAPI: pkg.NewOpenAIBackend(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
		),
		models.ModelCustom: pkg.NewCustomBackend(
			cfg.CustomModel.URL,
			cfg.CustomModelTimeout(),
		),
		models.ModelMistral: pkg.NewMistralBackend(
			cfg.MistralModel.URL,
			cfg.MistralModelTimeout(),
			cfg.MistralRetryDelay(),
		),
	}

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)
	statsDAO := dao.NewStatisticsDAO(db)
	settingsDAO := dao.NewSettingsDAO(db)

	// Initialize Logics
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	userLogic := logic.NewUserLogic(userDAO, jwtSecret, cfg.TokenTTL())
	convoLogic := logic.NewConversationLogic(convoDAO, messageDAO, statsDAO, appLog)
	messageLogic := logic.NewMessageLogic(convoDAO, messageDAO, statsDAO, backends, cfg.WordDelay(), appLog)
	settingsLogic := logic.NewSettingsLogic(settingsDAO, statsDAO)

	// Initialize Controllers
	userCtrl := controller.NewUserController(userLogic, appLog)
	convoCtrl := controller.NewConversationController(convoLogic, appLog)
	messageCtrl := controller.NewMessageController(messageLogic, appLog)
	settingsCtrl := controller.NewSettingsController(settingsLogic, appLog)

	// Setup Gin router
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "MathChat API is running")
	})
	r.GET("/api/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API test endpoint is working"})
	})

	auth := r.Group("/api/auth")
	auth.POST("/register", userCtrl.Register)
	auth.POST("/login", userCtrl.Login)
	auth.GET("/profile", middleware.Auth(jwtSecret), userCtrl.Profile)

	chat := r.Group("/api/chat", middleware.Auth(jwtSecret))
	chat.GET("/conversations", convoCtrl.GetConversations)
	chat.POST("/conversations", convoCtrl.CreateConversation)
	chat.GET("/conversations/:id", convoCtrl.GetConversationMessages)
	chat.DELETE("/conversations/:id", convoCtrl.DeleteConversation)
	chat.DELETE("/conversations/:id/messages", convoCtrl.ClearConversation)
	chat.POST("/messages", messageCtrl.SendMessage)
	chat.POST("/messages/stream", messageCtrl.SendStreamingMessage)
	chat.DELETE("/history", convoCtrl.ClearHistory)
	chat.GET("/settings", settingsCtrl.GetSettings)
	chat.PUT("/settings", settingsCtrl.UpdateSettings)
	chat.GET("/statistics", settingsCtrl.GetStatistics)
	chat.POST("/fix-model-types", convoCtrl.FixModelTypes)

	// Run server
	appLog.Info("Server is starting", "port", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		appLog.Fatal("Failed to run server", "error", err)
	}
}
