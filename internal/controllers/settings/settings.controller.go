package settingsController

import (
	"context"
	"encoding/json"

	"brokex/internal/database"
	. "brokex/internal/models"
	"brokex/internal/repositories"
	"brokex/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/datatypes"
)

type UpdateSettingsRequest struct {
	EmailEnabled      *bool `json:"emailEnabled"`
	PushEnabled       *bool `json:"pushEnabled"`
	NotifyOnNewNearby *bool `json:"notifyOnNewNearby"`
	NotifyOnStatus    *bool `json:"notifyOnStatus"`
	NearbyRadius      *int  `json:"nearbyRadius" validate:"omitempty,gte=100,lte=20000"`
}

type PushSubscriptionRequest struct {
	Endpoint string            `json:"endpoint" validate:"required,url"`
	Keys     map[string]string `json:"keys"     validate:"required"`
}

type SettingsControllerInterface interface {
	Get(ctx context.Context, user *User) (*UserSettings, error)
	Update(ctx context.Context, user *User, req UpdateSettingsRequest) (*UserSettings, error)
	RegisterPushSubscription(ctx context.Context, user *User, req PushSubscriptionRequest) error
}

type SettingsController struct {
	settingsRepo repositories.SettingsRepository
	userRepo     repositories.UserRepository
	db           database.DB
	log          logger.Logger
}

func New(repos repositories.Repository, db database.DB) SettingsControllerInterface {
	return &SettingsController{
		settingsRepo: repos.Settings,
		userRepo:     repos.User,
		db:           db,
		log:          logger.New("settingsController"),
	}
}

func (sc *SettingsController) Get(ctx context.Context, user *User) (*UserSettings, error) {
	return sc.settingsRepo.GetOrCreate(ctx, sc.db.SQLWithContext(ctx), user.ID)
}

func (sc *SettingsController) Update(
	ctx context.Context,
	user *User,
	req UpdateSettingsRequest,
) (*UserSettings, error) {
	log := sc.log.Function("Update")

	settings, err := sc.settingsRepo.GetOrCreate(ctx, sc.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}

	if req.EmailEnabled != nil {
		settings.EmailEnabled = *req.EmailEnabled
	}
	if req.PushEnabled != nil {
		settings.PushEnabled = *req.PushEnabled
	}
	if req.NotifyOnNewNearby != nil {
		settings.NotifyOnNewNearby = *req.NotifyOnNewNearby
	}
	if req.NotifyOnStatus != nil {
		settings.NotifyOnStatus = *req.NotifyOnStatus
	}
	if req.NearbyRadius != nil {
		settings.NearbyRadius = *req.NearbyRadius
	}

	if err := sc.settingsRepo.Update(ctx, sc.db.SQLWithContext(ctx), settings); err != nil {
		return nil, err
	}

	// Settings ride along on the cached user row.
	if err := sc.userRepo.ClearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after settings update", "userID", user.ID, "error", err)
	}

	return settings, nil
}

func (sc *SettingsController) RegisterPushSubscription(
	ctx context.Context,
	user *User,
	req PushSubscriptionRequest,
) error {
	keys, err := json.Marshal(req.Keys)
	if err != nil {
		return sc.log.ErrorWithType(types.ErrInvalid, "invalid push subscription keys")
	}

	subscription := &PushSubscription{
		UserID:   user.ID,
		Endpoint: req.Endpoint,
		Keys:     datatypes.JSON(keys),
	}

	return sc.settingsRepo.UpsertPushSubscription(ctx, sc.db.SQLWithContext(ctx), subscription)
}
