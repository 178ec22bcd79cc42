package repositories

import (
	"context"

	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FixRepository interface {
	Create(ctx context.Context, tx *gorm.DB, fix *ExperienceFix) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ExperienceFix, error)
	GetByExperienceAndClaimant(ctx context.Context, tx *gorm.DB, experienceID, claimantID uuid.UUID) (*ExperienceFix, error)
	ListByExperience(ctx context.Context, tx *gorm.DB, experienceID uuid.UUID) ([]*ExperienceFix, error)
	Update(ctx context.Context, tx *gorm.DB, fix *ExperienceFix) error
	AttachProofImages(ctx context.Context, tx *gorm.DB, fixID uuid.UUID, images []ExperienceImage) error
}

type fixRepository struct {
	log logger.Logger
}

func NewFixRepository() FixRepository {
	return &fixRepository{
		log: logger.New("fixRepository"),
	}
}

func (r *fixRepository) Create(ctx context.Context, tx *gorm.DB, fix *ExperienceFix) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(fix).Error; err != nil {
		return log.Err("failed to create fix claim", err,
			"experienceID", fix.ExperienceID, "claimantID", fix.ClaimedByID)
	}

	return nil
}

func (r *fixRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ExperienceFix, error) {
	log := r.log.Function("GetByID")

	var fix ExperienceFix
	if err := tx.WithContext(ctx).
		Preload("ProofImages").
		Preload("ClaimedBy").
		First(&fix, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get fix", err, "fixID", id)
	}

	return &fix, nil
}

func (r *fixRepository) GetByExperienceAndClaimant(
	ctx context.Context,
	tx *gorm.DB,
	experienceID, claimantID uuid.UUID,
) (*ExperienceFix, error) {
	log := r.log.Function("GetByExperienceAndClaimant")

	var fix ExperienceFix
	err := tx.WithContext(ctx).
		First(&fix, "experience_id = ? AND claimed_by_id = ?", experienceID, claimantID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get fix claim", err,
			"experienceID", experienceID, "claimantID", claimantID)
	}

	return &fix, nil
}

func (r *fixRepository) ListByExperience(
	ctx context.Context,
	tx *gorm.DB,
	experienceID uuid.UUID,
) ([]*ExperienceFix, error) {
	log := r.log.Function("ListByExperience")

	var fixes []*ExperienceFix
	if err := tx.WithContext(ctx).
		Preload("ProofImages").
		Preload("ClaimedBy").
		Where("experience_id = ?", experienceID).
		Order("created_at ASC").
		Find(&fixes).Error; err != nil {
		return nil, log.Err("failed to list fixes", err, "experienceID", experienceID)
	}

	return fixes, nil
}

func (r *fixRepository) Update(ctx context.Context, tx *gorm.DB, fix *ExperienceFix) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(fix).Error; err != nil {
		return log.Err("failed to update fix", err, "fixID", fix.ID)
	}

	return nil
}

func (r *fixRepository) AttachProofImages(
	ctx context.Context,
	tx *gorm.DB,
	fixID uuid.UUID,
	images []ExperienceImage,
) error {
	log := r.log.Function("AttachProofImages")

	if len(images) == 0 {
		return nil
	}

	for i := range images {
		images[i].ExperienceFixID = &fixID
	}

	if err := tx.WithContext(ctx).Create(&images).Error; err != nil {
		return log.Err("failed to attach proof images", err, "fixID", fixID)
	}

	return nil
}
