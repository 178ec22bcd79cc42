package fixController

import (
	"context"
	"errors"
	"strings"
	"time"

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

type ClaimRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateFixRequest struct {
	Status *string `json:"status" validate:"omitempty"`
	Notes  *string `json:"notes"  validate:"omitempty,max=2000"`
}

type ProofRequest struct {
	ImageURLs []string `json:"imageUrls" validate:"required,min=1,max=10,dive,url"`
}

type VerifyRequest struct {
	Status    string  `json:"status"    validate:"required,oneof=pending issue_still_there issue_resolved"`
	Comment   *string `json:"comment"   validate:"omitempty,max=2000"`
	Latitude  *string `json:"latitude"  validate:"omitempty,latitude"`
	Longitude *string `json:"longitude" validate:"omitempty,longitude"`
}

type FixControllerInterface interface {
	Claim(ctx context.Context, user *User, experienceID uuid.UUID, req ClaimRequest) (*ExperienceFix, error)
	UpdateStatus(ctx context.Context, user *User, fixID uuid.UUID, req UpdateFixRequest) (*ExperienceFix, error)
	AttachProof(ctx context.Context, user *User, fixID uuid.UUID, req ProofRequest) (*ExperienceFix, error)
	Verify(ctx context.Context, user *User, experienceID uuid.UUID, req VerifyRequest) (*ExperienceVerification, error)
	ListByExperience(ctx context.Context, experienceID uuid.UUID) ([]*ExperienceFix, error)
	ListVerifications(ctx context.Context, experienceID uuid.UUID) ([]*ExperienceVerification, error)
}

type FixController struct {
	fixRepo          repositories.FixRepository
	experienceRepo   repositories.ExperienceRepository
	verificationRepo repositories.VerificationRepository
	transaction      *services.TransactionService
	eventBus         *events.EventBus
	db               database.DB
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	transaction *services.TransactionService,
	eventBus *events.EventBus,
	db database.DB,
) FixControllerInterface {
	return &FixController{
		fixRepo:          repos.Fix,
		experienceRepo:   repos.Experience,
		verificationRepo: repos.Verification,
		transaction:      transaction,
		eventBus:         eventBus,
		db:               db,
		log:              logger.New("fixController"),
	}
}

// Claim registers the caller's commitment to remediate an experience. A
// user can hold at most one claim per experience.
func (fc *FixController) Claim(
	ctx context.Context,
	user *User,
	experienceID uuid.UUID,
	req ClaimRequest,
) (*ExperienceFix, error) {
	log := fc.log.Function("Claim")

	if _, err := fc.experienceRepo.GetByID(ctx, fc.db.SQLWithContext(ctx), experienceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	existing, err := fc.fixRepo.GetByExperienceAndClaimant(ctx, fc.db.SQLWithContext(ctx), experienceID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fc.log.ErrorWithType(types.ErrConflict,
			"experience already claimed by this user",
			"experienceID", experienceID, "userID", user.ID)
	}

	fix := &ExperienceFix{
		ExperienceID: experienceID,
		ClaimedByID:  user.ID,
		Status:       FixStatusClaimed,
		Notes:        req.Notes,
	}

	if err := fc.fixRepo.Create(ctx, fc.db.SQLWithContext(ctx), fix); err != nil {
		// The unique index backstops the application-level check.
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, types.ErrConflict
		}
		return nil, err
	}

	if err := fc.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.FIX_CLAIMED,
		UserID: &user.ID,
		Data: map[string]any{
			"experienceId": experienceID,
			"fixId":        fix.ID,
		},
	}); err != nil {
		log.Warn("failed to publish fix claimed event", "fixID", fix.ID, "error", err)
	}

	return fix, nil
}

// UpdateStatus moves the claimant's own progress marker. The parent
// experience's status is deliberately untouched; the two lifecycles are
// tracked independently.
func (fc *FixController) UpdateStatus(
	ctx context.Context,
	user *User,
	fixID uuid.UUID,
	req UpdateFixRequest,
) (*ExperienceFix, error) {
	log := fc.log.Function("UpdateStatus")

	fix, err := fc.fixRepo.GetByID(ctx, fc.db.SQLWithContext(ctx), fixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	if fix.ClaimedByID != user.ID {
		return nil, fc.log.ErrorWithType(types.ErrForbidden,
			"only the claimant can update a fix", "fixID", fixID, "userID", user.ID)
	}

	if req.Status != nil {
		status := FixStatus(*req.Status)
		if !status.IsValid() {
			return nil, fc.log.ErrorWithType(types.ErrInvalid, "invalid fix status", "status", *req.Status)
		}
		fix.Status = status
		if status == FixStatusCompleted {
			now := time.Now()
			fix.CompletedAt = &now
		}
	}
	if req.Notes != nil {
		fix.Notes = req.Notes
	}

	if err := fc.fixRepo.Update(ctx, fc.db.SQLWithContext(ctx), fix); err != nil {
		return nil, err
	}

	if err := fc.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.FIX_UPDATED,
		UserID: &user.ID,
		Data: map[string]any{
			"experienceId": fix.ExperienceID,
			"fixId":        fix.ID,
			"status":       fix.Status,
		},
	}); err != nil {
		log.Warn("failed to publish fix updated event", "fixID", fix.ID, "error", err)
	}

	return fix, nil
}

func (fc *FixController) AttachProof(
	ctx context.Context,
	user *User,
	fixID uuid.UUID,
	req ProofRequest,
) (*ExperienceFix, error) {
	fix, err := fc.fixRepo.GetByID(ctx, fc.db.SQLWithContext(ctx), fixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	if fix.ClaimedByID != user.ID {
		return nil, fc.log.ErrorWithType(types.ErrForbidden,
			"only the claimant can attach proof", "fixID", fixID, "userID", user.ID)
	}

	images := make([]ExperienceImage, 0, len(req.ImageURLs))
	for _, url := range req.ImageURLs {
		images = append(images, ExperienceImage{URL: url})
	}

	err = fc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return fc.fixRepo.AttachProofImages(ctx, tx, fixID, images)
	})
	if err != nil {
		return nil, err
	}

	return fc.fixRepo.GetByID(ctx, fc.db.SQLWithContext(ctx), fixID)
}

// Verify records a community member's attestation. When the verifier
// supplies coordinates, the Haversine distance to the experience is stored
// and attestations beyond the experience's verification radius are
// rejected. Verifications are evidence only; they never change the parent
// experience's status.
func (fc *FixController) Verify(
	ctx context.Context,
	user *User,
	experienceID uuid.UUID,
	req VerifyRequest,
) (*ExperienceVerification, error) {
	log := fc.log.Function("Verify")

	experience, err := fc.experienceRepo.GetByID(ctx, fc.db.SQLWithContext(ctx), experienceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	verification := &ExperienceVerification{
		ExperienceID: experienceID,
		VerifierID:   user.ID,
		Status:       VerificationStatus(req.Status),
		Comment:      req.Comment,
	}

	if req.Latitude != nil && req.Longitude != nil {
		latitude, err := decimal.NewFromString(*req.Latitude)
		if err != nil {
			return nil, fc.log.ErrorWithType(types.ErrInvalid, "invalid latitude", "latitude", *req.Latitude)
		}
		longitude, err := decimal.NewFromString(*req.Longitude)
		if err != nil {
			return nil, fc.log.ErrorWithType(types.ErrInvalid, "invalid longitude", "longitude", *req.Longitude)
		}

		expLat, _ := experience.Latitude.Float64()
		expLng, _ := experience.Longitude.Float64()
		verLat, _ := latitude.Float64()
		verLng, _ := longitude.Float64()

		distance := services.Haversine(expLat, expLng, verLat, verLng)
		if distance > float64(experience.VerificationRadius) {
			return nil, fc.log.ErrorWithType(types.ErrInvalid,
				"verifier is outside the verification radius",
				"experienceID", experienceID,
				"distanceMeters", distance,
				"radiusMeters", experience.VerificationRadius)
		}

		verification.Latitude = &latitude
		verification.Longitude = &longitude
		verification.DistanceMeters = &distance
	}

	if err := fc.verificationRepo.Create(ctx, fc.db.SQLWithContext(ctx), verification); err != nil {
		return nil, err
	}

	resolvedCount, err := fc.verificationRepo.CountByStatus(
		ctx, fc.db.SQLWithContext(ctx), experienceID, VerificationStatusIssueResolved)
	if err != nil {
		log.Warn("failed to count resolved verifications", "experienceID", experienceID, "error", err)
	}

	if err := fc.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.VERIFICATION_ADDED,
		UserID: &user.ID,
		Data: map[string]any{
			"experienceId":          experienceID,
			"verificationId":        verification.ID,
			"status":                verification.Status,
			"resolvedCount":         resolvedCount,
			"requiredVerifications": experience.RequiredVerifications,
		},
	}); err != nil {
		log.Warn("failed to publish verification event", "experienceID", experienceID, "error", err)
	}

	return verification, nil
}

func (fc *FixController) ListByExperience(
	ctx context.Context,
	experienceID uuid.UUID,
) ([]*ExperienceFix, error) {
	return fc.fixRepo.ListByExperience(ctx, fc.db.SQLWithContext(ctx), experienceID)
}

func (fc *FixController) ListVerifications(
	ctx context.Context,
	experienceID uuid.UUID,
) ([]*ExperienceVerification, error) {
	return fc.verificationRepo.ListByExperience(ctx, fc.db.SQLWithContext(ctx), experienceID)
}
