package models

// UserSettings holds per-user preferences. One row per user, created with
// defaults on first read and updated wholesale on write.
type UserSettings struct {
	UserID               uint64    `gorm:"primaryKey" json:"user_id"`
	Theme                string    `gorm:"not null" json:"theme"`
	Language             string    `gorm:"not null" json:"language"`
	PreferredModel       ModelType `gorm:"not null" json:"preferred_model"`
	NotificationsEnabled bool      `gorm:"not null" json:"notifications_enabled"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings(userID uint64) *UserSettings {
	return &UserSettings{
		UserID:               userID,
		Theme:                "light",
		Language:             "tr",
		PreferredModel:       ModelAPI,
		NotificationsEnabled: true,
	}
}
