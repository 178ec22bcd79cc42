package voteController

import (
	"context"
	"strings"

	"brokex/internal/database"
	"brokex/internal/events"
	. "brokex/internal/models"
	"brokex/internal/repositories"
	"brokex/internal/services"
	"brokex/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoteResult is the experience row annotated with the caller's vote state
// after the toggle.
type VoteResult struct {
	Experience *Experience `json:"experience"`
	UserVote   VoteState   `json:"userVote"`
}

type VoteControllerInterface interface {
	Toggle(ctx context.Context, user *User, experienceID uuid.UUID, upvote bool) (*VoteResult, error)
}

type eventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type VoteController struct {
	voteRepo       repositories.VoteRepository
	experienceRepo repositories.ExperienceRepository
	transaction    *services.TransactionService
	eventBus       eventPublisher
	db             database.DB
	log            logger.Logger
}

func New(
	repos repositories.Repository,
	transaction *services.TransactionService,
	eventBus *events.EventBus,
	db database.DB,
) VoteControllerInterface {
	return &VoteController{
		voteRepo:       repos.Vote,
		experienceRepo: repos.Experience,
		transaction:    transaction,
		eventBus:       eventBus,
		db:             db,
		log:            logger.New("voteController"),
	}
}

// Toggle applies one vote request inside a single transaction:
//   - no existing vote: insert and bump the matching counter
//   - same direction: delete the vote and drop the counter (toggle off)
//   - opposite direction: flip the row, decrement the old counter and
//     increment the new one
func (vc *VoteController) Toggle(
	ctx context.Context,
	user *User,
	experienceID uuid.UUID,
	upvote bool,
) (*VoteResult, error) {
	log := vc.log.Function("Toggle")

	resultState := VoteStateNone

	err := vc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := vc.voteRepo.GetByExperienceAndUser(ctx, tx, experienceID, user.ID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			vote := &Vote{
				ExperienceID: experienceID,
				UserID:       user.ID,
				Upvote:       upvote,
			}
			if err := vc.voteRepo.Create(ctx, tx, vote); err != nil {
				// Concurrent toggles race to insert the first row; the
				// loser hits idx_votes_experience_user and can retry.
				if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
					return types.ErrConflict
				}
				return err
			}
			if upvote {
				resultState = VoteStateUp
				return vc.experienceRepo.AdjustVoteCounters(ctx, tx, experienceID, 1, 0)
			}
			resultState = VoteStateDown
			return vc.experienceRepo.AdjustVoteCounters(ctx, tx, experienceID, 0, 1)

		case existing.Upvote == upvote:
			// Voting the same direction twice removes the vote.
			if err := vc.voteRepo.Delete(ctx, tx, existing); err != nil {
				return err
			}
			resultState = VoteStateNone
			if upvote {
				return vc.experienceRepo.AdjustVoteCounters(ctx, tx, experienceID, -1, 0)
			}
			return vc.experienceRepo.AdjustVoteCounters(ctx, tx, experienceID, 0, -1)

		default:
			if err := vc.voteRepo.UpdateDirection(ctx, tx, existing, upvote); err != nil {
				return err
			}
			if upvote {
				resultState = VoteStateUp
				return vc.experienceRepo.AdjustVoteCounters(ctx, tx, experienceID, 1, -1)
			}
			resultState = VoteStateDown
			return vc.experienceRepo.AdjustVoteCounters(ctx, tx, experienceID, -1, 1)
		}
	})
	if err != nil {
		return nil, err
	}

	experience, err := vc.experienceRepo.GetByID(ctx, vc.db.SQLWithContext(ctx), experienceID)
	if err != nil {
		return nil, log.Err("failed to reload experience after vote", err, "experienceID", experienceID)
	}

	if err := vc.eventBus.Publish(events.EXPERIENCE_CHANNEL, events.Event{
		Type:   events.VOTE_CHANGED,
		UserID: &user.ID,
		Data: map[string]any{
			"experienceId": experienceID,
			"upvotes":      experience.Upvotes,
			"downvotes":    experience.Downvotes,
			"userVote":     resultState,
		},
	}); err != nil {
		log.Warn("failed to publish vote event", "experienceID", experienceID, "error", err)
	}

	return &VoteResult{
		Experience: experience,
		UserVote:   resultState,
	}, nil
}
