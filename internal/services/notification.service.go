package services

import (
	"context"
	"encoding/json"

	"brokex/internal/events"
	. "brokex/internal/models"
	"brokex/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService decides whether a notification should be recorded and
// writes the audit row. Actual delivery is delegated to external services;
// this service only records intent and publishes the event.
type NotificationService struct {
	eventBus *events.EventBus
	log      logger.Logger
}

func NewNotificationService(eventBus *events.EventBus) *NotificationService {
	return &NotificationService{
		eventBus: eventBus,
		log:      logger.New("NotificationService"),
	}
}

// NotifyExperienceCreated records the new-experience notification for the
// reporter. The gate on the creator's own settings mirrors the platform's
// historical behavior; see DESIGN.md for the open product question about
// who this should actually reach.
func (ns *NotificationService) NotifyExperienceCreated(
	ctx context.Context,
	tx *gorm.DB,
	notificationRepo repositories.NotificationRepository,
	settingsRepo repositories.SettingsRepository,
	user *User,
	experience *Experience,
) error {
	log := ns.log.Function("NotifyExperienceCreated")

	settings, err := settingsRepo.GetOrCreate(ctx, tx, user.ID)
	if err != nil {
		return log.Err("failed to load notification settings", err, "userID", user.ID)
	}

	if !settings.EmailEnabled {
		log.Debug("email notifications disabled, skipping", "userID", user.ID)
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"experienceId": experience.ID,
		"title":        experience.Title,
		"status":       experience.Status,
	})
	if err != nil {
		return log.Err("failed to marshal notification payload", err)
	}

	entry := &NotificationLog{
		UserID:       user.ID,
		ExperienceID: &experience.ID,
		Channel:      NotificationChannelEmail,
		Subject:      "New experience reported: " + experience.Title,
		Payload:      datatypes.JSON(payload),
	}
	if err := notificationRepo.CreateLog(ctx, tx, entry); err != nil {
		return err
	}

	if err := ns.eventBus.Publish(events.NOTIFICATION_CHANNEL, events.Event{
		Type:   events.NOTIFICATION_SENT,
		UserID: &user.ID,
		Data: map[string]any{
			"notificationId": entry.ID,
			"experienceId":   experience.ID,
		},
	}); err != nil {
		log.Warn("failed to publish notification event", "error", err)
	}

	return nil
}
