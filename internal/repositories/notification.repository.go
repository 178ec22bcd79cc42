package repositories

import (
	"context"

	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateLog(ctx context.Context, tx *gorm.DB, entry *NotificationLog) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*NotificationLog, error)
}

type notificationRepository struct {
	log logger.Logger
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) CreateLog(ctx context.Context, tx *gorm.DB, entry *NotificationLog) error {
	log := r.log.Function("CreateLog")

	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return log.Err("failed to create notification log", err, "userID", entry.UserID)
	}

	return nil
}

func (r *notificationRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*NotificationLog, error) {
	log := r.log.Function("ListByUser")

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []*NotificationLog
	if err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, log.Err("failed to list notification logs", err, "userID", userID)
	}

	return entries, nil
}
