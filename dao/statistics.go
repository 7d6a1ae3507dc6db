package dao

import (
	"time"

	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/models"
)

// StatisticsDAO handles the per-user usage counters
type StatisticsDAO struct {
	db *gorm.DB
}

func NewStatisticsDAO(db *gorm.DB) *StatisticsDAO {
	return &StatisticsDAO{db: db}
}

// ensureStatistics lazily creates the counters row for a user.
func ensureStatistics(tx *gorm.DB, userID uint64, now time.Time) error {
	stats := models.UserStatistics{UserID: userID, LastActiveAt: now}
	return tx.Where("user_id = ?", userID).FirstOrCreate(&stats).Error
}

// GetOrCreate returns a user's statistics, creating the row on first access.
func (d *StatisticsDAO) GetOrCreate(userID uint64) (*models.UserStatistics, error) {
	stats := models.UserStatistics{UserID: userID, LastActiveAt: time.Now()}
	if err := d.db.Where("user_id = ?", userID).FirstOrCreate(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// IncrementConversations bumps the conversation counter and last-active
// timestamp, creating the row if needed.
func (d *StatisticsDAO) IncrementConversations(userID uint64) error {
	now := time.Now()
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureStatistics(tx, userID, now); err != nil {
			return err
		}
		return tx.Model(&models.UserStatistics{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_conversations": gorm.Expr("total_conversations + 1"),
				"last_active_at":      now,
			}).Error
	})
}

// DecrementConversations lowers the conversation counter, never below zero.
func (d *StatisticsDAO) DecrementConversations(userID uint64) error {
	now := time.Now()
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureStatistics(tx, userID, now); err != nil {
			return err
		}
		return tx.Model(&models.UserStatistics{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_conversations": gorm.Expr(
					"CASE WHEN total_conversations > 0 THEN total_conversations - 1 ELSE 0 END"),
				"last_active_at": now,
			}).Error
	})
}
