package logic

import (
	"fmt"

	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/models"
)

// SettingsLogic handles user preferences and usage statistics
type SettingsLogic struct {
	settingsDAO *dao.SettingsDAO
	statsDAO    *dao.StatisticsDAO
}

func NewSettingsLogic(settingsDAO *dao.SettingsDAO, statsDAO *dao.StatisticsDAO) *SettingsLogic {
	return &SettingsLogic{
		settingsDAO: settingsDAO,
		statsDAO:    statsDAO,
	}
}

// GetSettings returns the user's settings, creating defaults on first read.
func (l *SettingsLogic) GetSettings(userID uint64) (*models.UserSettings, error) {
	return l.settingsDAO.GetOrCreate(userID)
}

// UpdateSettings replaces the user's settings wholesale.
func (l *SettingsLogic) UpdateSettings(userID uint64, settings *models.UserSettings) error {
	if settings.PreferredModel != "" && !settings.PreferredModel.Valid() {
		return fmt.Errorf("%w: invalid preferred model: %s", ErrInvalidRequest, settings.PreferredModel)
	}
	return l.settingsDAO.Update(userID, settings)
}

// GetStatistics returns the user's usage counters, creating the row on first
// access.
func (l *SettingsLogic) GetStatistics(userID uint64) (*models.UserStatistics, error) {
	return l.statsDAO.GetOrCreate(userID)
}
