package dao

import (
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/models"
)

// SettingsDAO handles per-user preference rows
type SettingsDAO struct {
	db *gorm.DB
}

func NewSettingsDAO(db *gorm.DB) *SettingsDAO {
	return &SettingsDAO{db: db}
}

// GetOrCreate returns a user's settings, creating the defaults row on first
// read.
func (d *SettingsDAO) GetOrCreate(userID uint64) (*models.UserSettings, error) {
	settings := models.DefaultSettings(userID)
	if err := d.db.Where("user_id = ?", userID).FirstOrCreate(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Update replaces a user's settings wholesale, creating the row first when
// it does not exist yet. Select forces zero values (e.g. notifications off)
// through.
func (d *SettingsDAO) Update(userID uint64, settings *models.UserSettings) error {
	settings.UserID = userID
	return d.db.Transaction(func(tx *gorm.DB) error {
		existing := models.DefaultSettings(userID)
		if err := tx.Where("user_id = ?", userID).FirstOrCreate(existing).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserSettings{}).
			Where("user_id = ?", userID).
			Select("theme", "language", "preferred_model", "notifications_enabled").
			Updates(settings).Error
	})
}
