package repositories

import (
	"context"

	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteRepository interface {
	GetByExperienceAndUser(ctx context.Context, tx *gorm.DB, experienceID, userID uuid.UUID) (*Vote, error)
	Create(ctx context.Context, tx *gorm.DB, vote *Vote) error
	UpdateDirection(ctx context.Context, tx *gorm.DB, vote *Vote, upvote bool) error
	Delete(ctx context.Context, tx *gorm.DB, vote *Vote) error
	GetUserVotes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, experienceIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type voteRepository struct {
	log logger.Logger
}

func NewVoteRepository() VoteRepository {
	return &voteRepository{
		log: logger.New("voteRepository"),
	}
}

func (r *voteRepository) GetByExperienceAndUser(
	ctx context.Context,
	tx *gorm.DB,
	experienceID, userID uuid.UUID,
) (*Vote, error) {
	log := r.log.Function("GetByExperienceAndUser")

	var vote Vote
	err := tx.WithContext(ctx).
		First(&vote, "experience_id = ? AND user_id = ?", experienceID, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get vote", err, "experienceID", experienceID, "userID", userID)
	}

	return &vote, nil
}

func (r *voteRepository) Create(ctx context.Context, tx *gorm.DB, vote *Vote) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(vote).Error; err != nil {
		return log.Err("failed to create vote", err,
			"experienceID", vote.ExperienceID, "userID", vote.UserID)
	}

	return nil
}

func (r *voteRepository) UpdateDirection(
	ctx context.Context,
	tx *gorm.DB,
	vote *Vote,
	upvote bool,
) error {
	log := r.log.Function("UpdateDirection")

	if err := tx.WithContext(ctx).Model(vote).Update("upvote", upvote).Error; err != nil {
		return log.Err("failed to update vote direction", err, "voteID", vote.ID)
	}

	return nil
}

func (r *voteRepository) Delete(ctx context.Context, tx *gorm.DB, vote *Vote) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Unscoped().Delete(vote).Error; err != nil {
		return log.Err("failed to delete vote", err, "voteID", vote.ID)
	}

	return nil
}

// GetUserVotes returns the caller's vote direction per experience for list
// annotation. Missing entries mean no vote.
func (r *voteRepository) GetUserVotes(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	experienceIDs []uuid.UUID,
) (map[uuid.UUID]bool, error) {
	log := r.log.Function("GetUserVotes")

	if len(experienceIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}

	var votes []Vote
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND experience_id IN ?", userID, experienceIDs).
		Find(&votes).Error; err != nil {
		return nil, log.Err("failed to get user votes", err, "userID", userID)
	}

	result := make(map[uuid.UUID]bool, len(votes))
	for _, vote := range votes {
		result[vote.ExperienceID] = vote.Upvote
	}

	return result, nil
}
