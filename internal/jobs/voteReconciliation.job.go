package jobs

import (
	"context"

	"brokex/internal/repositories"
	"brokex/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// VoteReconciliationJob recomputes the denormalized vote counters from the
// vote rows. Counters normally stay in sync through transactional deltas;
// this repairs any drift from crashed requests or manual data edits.
type VoteReconciliationJob struct {
	experienceRepo repositories.ExperienceRepository
	transaction    *services.TransactionService
	log            logger.Logger
	schedule       services.Schedule
}

func NewVoteReconciliationJob(
	experienceRepo repositories.ExperienceRepository,
	transaction *services.TransactionService,
	schedule services.Schedule,
) *VoteReconciliationJob {
	log := logger.New("voteReconciliationJob")
	log.Info("Creating vote reconciliation job", "schedule", schedule)

	return &VoteReconciliationJob{
		experienceRepo: experienceRepo,
		transaction:    transaction,
		log:            log,
		schedule:       schedule,
	}
}

func (j *VoteReconciliationJob) Name() string {
	return "VoteCounterReconciliation"
}

func (j *VoteReconciliationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting vote counter reconciliation")

	var repaired int
	err := j.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		count, err := j.experienceRepo.RecountVotes(ctx, tx)
		if err != nil {
			return err
		}
		repaired = count
		return nil
	})
	if err != nil {
		return log.Err("vote counter reconciliation failed", err)
	}

	log.Info("Vote counter reconciliation completed", "repaired", repaired)
	return nil
}

func (j *VoteReconciliationJob) Schedule() services.Schedule {
	return j.schedule
}
