package experienceController

import (
	"context"
	"errors"

	"brokex/internal/database"
	"brokex/internal/events"
	. "brokex/internal/models"
	"brokex/internal/repositories"
	"brokex/internal/services"
	"brokex/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateExperienceRequest is the validated payload for a new report.
type CreateExperienceRequest struct {
	Title                 string   `json:"title"                 validate:"required,min=3,max=200"`
	Description           string   `json:"description"           validate:"max=5000"`
	CategoryID            int      `json:"categoryId"            validate:"required,gt=0"`
	Latitude              string   `json:"latitude"              validate:"required,latitude"`
	Longitude             string   `json:"longitude"             validate:"required,longitude"`
	Address               string   `json:"address"               validate:"max=500"`
	Priority              string   `json:"priority"              validate:"omitempty,oneof=low medium high critical"`
	ImageURLs             []string `json:"imageUrls"             validate:"max=10,dive,url"`
	RequiredVerifications int      `json:"requiredVerifications" validate:"omitempty,gte=1,lte=10"`
	VerificationRadius    int      `json:"verificationRadius"    validate:"omitempty,gte=10,lte=5000"`
}

// UpdateExperienceRequest carries a partial owner-only update. Nil fields
// are left untouched.
type UpdateExperienceRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=low medium high critical"`
	Status      *string `json:"status"      validate:"omitempty"`
}

// ExperienceView is an experience annotated with the caller's vote.
type ExperienceView struct {
	*Experience
	UserVote *bool `json:"userVote,omitempty"`
}

type ExperienceControllerInterface interface {
	Create(ctx context.Context, user *User, req CreateExperienceRequest) (*Experience, error)
	GetByID(ctx context.Context, user *User, id uuid.UUID) (*ExperienceView, error)
	List(ctx context.Context, user *User) ([]ExperienceView, error)
	Markers(ctx context.Context) ([]Marker, error)
	Clusters(ctx context.Context, zoom int) ([]services.Cluster, error)
	Search(ctx context.Context, query string) ([]*Experience, error)
	Update(ctx context.Context, user *User, id uuid.UUID, req UpdateExperienceRequest) (*Experience, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
}

type ExperienceController struct {
	experienceRepo   repositories.ExperienceRepository
	categoryRepo     repositories.CategoryRepository
	voteRepo         repositories.VoteRepository
	settingsRepo     repositories.SettingsRepository
	notificationRepo repositories.NotificationRepository
	transaction      *services.TransactionService
	notification     *services.NotificationService
	clustering       *services.ClusteringService
	eventBus         *events.EventBus
	db               database.DB
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	svc services.Service,
	eventBus *events.EventBus,
	db database.DB,
) ExperienceControllerInterface {
	return &ExperienceController{
		experienceRepo:   repos.Experience,
		categoryRepo:     repos.Category,
		voteRepo:         repos.Vote,
		settingsRepo:     repos.Settings,
		notificationRepo: repos.Notification,
		transaction:      svc.Transaction,
		notification:     svc.Notification,
		clustering:       svc.Clustering,
		eventBus:         eventBus,
		db:               db,
		log:              logger.New("experienceController"),
	}
}

func (ec *ExperienceController) Create(
	ctx context.Context,
	user *User,
	req CreateExperienceRequest,
) (*Experience, error) {
	log := ec.log.Function("Create")

	latitude, err := decimal.NewFromString(req.Latitude)
	if err != nil {
		return nil, ec.log.ErrorWithType(types.ErrInvalid, "invalid latitude", "latitude", req.Latitude)
	}
	longitude, err := decimal.NewFromString(req.Longitude)
	if err != nil {
		return nil, ec.log.ErrorWithType(types.ErrInvalid, "invalid longitude", "longitude", req.Longitude)
	}

	if _, err := ec.categoryRepo.GetByID(ctx, ec.db.SQLWithContext(ctx), req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ec.log.ErrorWithType(types.ErrInvalid, "unknown category", "categoryID", req.CategoryID)
		}
		return nil, err
	}

	priority := ExperiencePriorityMedium
	if req.Priority != "" {
		priority = ExperiencePriority(req.Priority)
	}

	experience := &Experience{
		ReporterID:            user.ID,
		CategoryID:            req.CategoryID,
		Title:                 req.Title,
		Description:           req.Description,
		Latitude:              latitude,
		Longitude:             longitude,
		Address:               req.Address,
		Status:                ExperienceStatusPending,
		Priority:              priority,
		RequiredVerifications: defaultIfZero(req.RequiredVerifications, 3),
		VerificationRadius:    defaultIfZero(req.VerificationRadius, 100),
	}

	for _, url := range req.ImageURLs {
		experience.Images = append(experience.Images, ExperienceImage{URL: url})
	}

	err = ec.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := ec.experienceRepo.Create(ctx, tx, experience); err != nil {
			return err
		}

		return ec.notification.NotifyExperienceCreated(
			ctx, tx, ec.notificationRepo, ec.settingsRepo, user, experience,
		)
	})
	if err != nil {
		return nil, err
	}

	if err := ec.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.EXPERIENCE_CREATED,
		UserID: &user.ID,
		Data: map[string]any{
			"experienceId": experience.ID,
			"title":        experience.Title,
			"latitude":     experience.Latitude,
			"longitude":    experience.Longitude,
		},
	}); err != nil {
		log.Warn("failed to publish experience created event", "experienceID", experience.ID, "error", err)
	}

	log.Info("experience created", "experienceID", experience.ID, "reporterID", user.ID)
	return experience, nil
}

func (ec *ExperienceController) GetByID(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*ExperienceView, error) {
	experience, err := ec.experienceRepo.GetByID(ctx, ec.db.SQLWithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	view := ExperienceView{Experience: experience}
	if user != nil {
		votes, err := ec.voteRepo.GetUserVotes(ctx, ec.db.SQLWithContext(ctx), user.ID, []uuid.UUID{id})
		if err != nil {
			return nil, err
		}
		if direction, ok := votes[id]; ok {
			view.UserVote = &direction
		}
	}

	return &view, nil
}

func (ec *ExperienceController) List(ctx context.Context, user *User) ([]ExperienceView, error) {
	experiences, err := ec.experienceRepo.List(ctx, ec.db.SQLWithContext(ctx))
	if err != nil {
		return nil, err
	}

	views := make([]ExperienceView, 0, len(experiences))

	var userVotes map[uuid.UUID]bool
	if user != nil {
		ids := make([]uuid.UUID, 0, len(experiences))
		for _, experience := range experiences {
			ids = append(ids, experience.ID)
		}
		if userVotes, err = ec.voteRepo.GetUserVotes(ctx, ec.db.SQLWithContext(ctx), user.ID, ids); err != nil {
			return nil, err
		}
	}

	for _, experience := range experiences {
		view := ExperienceView{Experience: experience}
		if direction, ok := userVotes[experience.ID]; ok {
			d := direction
			view.UserVote = &d
		}
		views = append(views, view)
	}

	return views, nil
}

func (ec *ExperienceController) Markers(ctx context.Context) ([]Marker, error) {
	return ec.experienceRepo.Markers(ctx, ec.db.SQLWithContext(ctx))
}

func (ec *ExperienceController) Clusters(ctx context.Context, zoom int) ([]services.Cluster, error) {
	markers, err := ec.experienceRepo.Markers(ctx, ec.db.SQLWithContext(ctx))
	if err != nil {
		return nil, err
	}

	return ec.clustering.Cluster(markers, zoom), nil
}

func (ec *ExperienceController) Search(ctx context.Context, query string) ([]*Experience, error) {
	return ec.experienceRepo.Search(ctx, ec.db.SQLWithContext(ctx), query)
}

func (ec *ExperienceController) Update(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req UpdateExperienceRequest,
) (*Experience, error) {
	log := ec.log.Function("Update")

	experience, err := ec.experienceRepo.GetByID(ctx, ec.db.SQLWithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	if experience.ReporterID != user.ID {
		return nil, ec.log.ErrorWithType(types.ErrForbidden,
			"only the reporter can update an experience",
			"experienceID", id, "userID", user.ID)
	}

	if req.Title != nil {
		experience.Title = *req.Title
	}
	if req.Description != nil {
		experience.Description = *req.Description
	}
	if req.Priority != nil {
		priority := ExperiencePriority(*req.Priority)
		if !priority.IsValid() {
			return nil, ec.log.ErrorWithType(types.ErrInvalid, "invalid priority", "priority", *req.Priority)
		}
		experience.Priority = priority
	}
	if req.Status != nil {
		status := ExperienceStatus(*req.Status)
		if !status.IsValid() {
			return nil, ec.log.ErrorWithType(types.ErrInvalid, "invalid status", "status", *req.Status)
		}
		experience.Status = status
	}

	if err := ec.experienceRepo.Update(ctx, ec.db.SQLWithContext(ctx), experience); err != nil {
		return nil, err
	}

	if err := ec.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.EXPERIENCE_UPDATED,
		UserID: &user.ID,
		Data: map[string]any{
			"experienceId": experience.ID,
			"status":       experience.Status,
		},
	}); err != nil {
		log.Warn("failed to publish experience updated event", "experienceID", id, "error", err)
	}

	return experience, nil
}

// Delete removes an experience and, via cascade, its images, votes, fixes,
// and verifications. Only the original reporter may delete.
func (ec *ExperienceController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	log := ec.log.Function("Delete")

	experience, err := ec.experienceRepo.GetByID(ctx, ec.db.SQLWithContext(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}

	if experience.ReporterID != user.ID {
		return ec.log.ErrorWithType(types.ErrForbidden,
			"only the reporter can delete an experience",
			"experienceID", id, "userID", user.ID)
	}

	if err := ec.experienceRepo.Delete(ctx, ec.db.SQLWithContext(ctx), id); err != nil {
		return err
	}

	if err := ec.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.EXPERIENCE_DELETED,
		UserID: &user.ID,
		Data:   map[string]any{"experienceId": id},
	}); err != nil {
		log.Warn("failed to publish experience deleted event", "experienceID", id, "error", err)
	}

	log.Info("experience deleted", "experienceID", id, "userID", user.ID)
	return nil
}

func defaultIfZero(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
