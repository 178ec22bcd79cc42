package repositories

import (
	"context"

	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserSettings, error)
	Update(ctx context.Context, tx *gorm.DB, settings *UserSettings) error
	UpsertPushSubscription(ctx context.Context, tx *gorm.DB, subscription *PushSubscription) error
}

type settingsRepository struct {
	log logger.Logger
}

func NewSettingsRepository() SettingsRepository {
	return &settingsRepository{
		log: logger.New("settingsRepository"),
	}
}

// GetOrCreate returns the user's settings row, creating one with defaults
// on first access.
func (r *settingsRepository) GetOrCreate(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*UserSettings, error) {
	log := r.log.Function("GetOrCreate")

	var settings UserSettings
	err := tx.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if err == nil {
		return &settings, nil
	}

	if err != gorm.ErrRecordNotFound {
		return nil, log.Err("failed to get settings", err, "userID", userID)
	}

	settings = UserSettings{
		UserID:            userID,
		EmailEnabled:      true,
		PushEnabled:       false,
		NotifyOnNewNearby: true,
		NotifyOnStatus:    true,
		NearbyRadius:      2000,
	}
	if err := tx.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, log.Err("failed to create default settings", err, "userID", userID)
	}

	return &settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, tx *gorm.DB, settings *UserSettings) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(settings).Error; err != nil {
		return log.Err("failed to update settings", err, "userID", settings.UserID)
	}

	return nil
}

func (r *settingsRepository) UpsertPushSubscription(
	ctx context.Context,
	tx *gorm.DB,
	subscription *PushSubscription,
) error {
	log := r.log.Function("UpsertPushSubscription")

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "keys", "updated_at"}),
		}).
		Create(subscription).Error; err != nil {
		return log.Err("failed to upsert push subscription", err, "userID", subscription.UserID)
	}

	return nil
}
