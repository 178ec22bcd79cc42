package repositories

import (
	"context"

	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, verification *ExperienceVerification) error
	ListByExperience(ctx context.Context, tx *gorm.DB, experienceID uuid.UUID) ([]*ExperienceVerification, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, experienceID uuid.UUID, status VerificationStatus) (int64, error)
}

type verificationRepository struct {
	log logger.Logger
}

func NewVerificationRepository() VerificationRepository {
	return &verificationRepository{
		log: logger.New("verificationRepository"),
	}
}

func (r *verificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	verification *ExperienceVerification,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(verification).Error; err != nil {
		return log.Err("failed to create verification", err,
			"experienceID", verification.ExperienceID, "verifierID", verification.VerifierID)
	}

	return nil
}

func (r *verificationRepository) ListByExperience(
	ctx context.Context,
	tx *gorm.DB,
	experienceID uuid.UUID,
) ([]*ExperienceVerification, error) {
	log := r.log.Function("ListByExperience")

	var verifications []*ExperienceVerification
	if err := tx.WithContext(ctx).
		Preload("Verifier").
		Where("experience_id = ?", experienceID).
		Order("created_at DESC").
		Find(&verifications).Error; err != nil {
		return nil, log.Err("failed to list verifications", err, "experienceID", experienceID)
	}

	return verifications, nil
}

func (r *verificationRepository) CountByStatus(
	ctx context.Context,
	tx *gorm.DB,
	experienceID uuid.UUID,
	status VerificationStatus,
) (int64, error) {
	log := r.log.Function("CountByStatus")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&ExperienceVerification{}).
		Where("experience_id = ? AND status = ?", experienceID, status).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count verifications", err, "experienceID", experienceID)
	}

	return count, nil
}
