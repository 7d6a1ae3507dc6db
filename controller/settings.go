package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozayys/ChatBotV1/logger"
	"github.com/ozayys/ChatBotV1/logic"
	"github.com/ozayys/ChatBotV1/middleware"
	"github.com/ozayys/ChatBotV1/models"
)

// SettingsController handles user settings and statistics requests
type SettingsController struct {
	settingsLogic *logic.SettingsLogic
	log           *logger.Logger
}

func NewSettingsController(settingsLogic *logic.SettingsLogic, log *logger.Logger) *SettingsController {
	return &SettingsController{settingsLogic: settingsLogic, log: log}
}

// GetSettings handles GET /api/chat/settings
func (ctl *SettingsController) GetSettings(c *gin.Context) {
	settings, err := ctl.settingsLogic.GetSettings(middleware.UserID(c))
	if err != nil {
		respondError(c, ctl.log, err, "Server error while retrieving user settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"theme":                settings.Theme,
		"language":             settings.Language,
		"preferredModel":       settings.PreferredModel,
		"notificationsEnabled": settings.NotificationsEnabled,
	})
}

// UpdateSettings handles PUT /api/chat/settings
func (ctl *SettingsController) UpdateSettings(c *gin.Context) {
	type Request struct {
		Theme                string           `json:"theme" binding:"required"`
		Language             string           `json:"language" binding:"required"`
		PreferredModel       models.ModelType `json:"preferredModel" binding:"required"`
		NotificationsEnabled bool             `json:"notificationsEnabled"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid settings payload"})
		return
	}

	settings := &models.UserSettings{
		Theme:                req.Theme,
		Language:             req.Language,
		PreferredModel:       req.PreferredModel,
		NotificationsEnabled: req.NotificationsEnabled,
	}
	if err := ctl.settingsLogic.UpdateSettings(middleware.UserID(c), settings); err != nil {
		respondError(c, ctl.log, err, "Server error while updating user settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings updated successfully",
		"settings": gin.H{
			"theme":                settings.Theme,
			"language":             settings.Language,
			"preferredModel":       settings.PreferredModel,
			"notificationsEnabled": settings.NotificationsEnabled,
		},
	})
}

// GetStatistics handles GET /api/chat/statistics
func (ctl *SettingsController) GetStatistics(c *gin.Context) {
	stats, err := ctl.settingsLogic.GetStatistics(middleware.UserID(c))
	if err != nil {
		respondError(c, ctl.log, err, "Server error while retrieving user statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalConversations":    stats.TotalConversations,
		"totalMessages":         stats.TotalMessages,
		"mathQuestionsCount":    stats.MathQuestionsCount,
		"generalQuestionsCount": stats.GeneralQuestionsCount,
		"apiModelUses":          stats.APIModelUses,
		"customModelUses":       stats.CustomModelUses,
		"mistralModelUses":      stats.MistralModelUses,
		"lastActiveAt":          stats.LastActiveAt,
	})
}
