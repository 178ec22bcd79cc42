package statsController

import (
	"context"

	"brokex/internal/database"
	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// PlatformStats summarizes platform-wide activity for the stats endpoint.
type PlatformStats struct {
	TotalExperiences int64                      `json:"totalExperiences"`
	ByStatus         map[ExperienceStatus]int64 `json:"byStatus"`
	TotalUsers       int64                      `json:"totalUsers"`
	TotalVotes       int64                      `json:"totalVotes"`
	TotalFixes       int64                      `json:"totalFixes"`
	TotalVerified    int64                      `json:"totalVerified"`
}

// Achievement is a derived badge; nothing is stored, badges are computed
// from the user's activity counts on read.
type Achievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
	Progress    int64  `json:"progress"`
	Threshold   int64  `json:"threshold"`
}

type StatsControllerInterface interface {
	PlatformStats(ctx context.Context) (*PlatformStats, error)
	Achievements(ctx context.Context, user *User) ([]Achievement, error)
}

type StatsController struct {
	db  database.DB
	log logger.Logger
}

func New(db database.DB) StatsControllerInterface {
	return &StatsController{
		db:  db,
		log: logger.New("statsController"),
	}
}

func (sc *StatsController) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	log := sc.log.Function("PlatformStats")

	tx := sc.db.SQLWithContext(ctx)
	stats := &PlatformStats{ByStatus: make(map[ExperienceStatus]int64)}

	if err := tx.Model(&Experience{}).Count(&stats.TotalExperiences).Error; err != nil {
		return nil, log.Err("failed to count experiences", err)
	}

	var rows []struct {
		Status ExperienceStatus
		Count  int64
	}
	if err := tx.Model(&Experience{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count experiences by status", err)
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}
	stats.TotalVerified = stats.ByStatus[ExperienceStatusVerified]

	if err := tx.Model(&User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, log.Err("failed to count users", err)
	}
	if err := tx.Model(&Vote{}).Count(&stats.TotalVotes).Error; err != nil {
		return nil, log.Err("failed to count votes", err)
	}
	if err := tx.Model(&ExperienceFix{}).Count(&stats.TotalFixes).Error; err != nil {
		return nil, log.Err("failed to count fixes", err)
	}

	return stats, nil
}

func (sc *StatsController) Achievements(ctx context.Context, user *User) ([]Achievement, error) {
	log := sc.log.Function("Achievements")

	tx := sc.db.SQLWithContext(ctx)

	var reported, fixed, verified int64
	if err := tx.Model(&Experience{}).Where("reporter_id = ?", user.ID).Count(&reported).Error; err != nil {
		return nil, log.Err("failed to count reported experiences", err, "userID", user.ID)
	}
	if err := tx.Model(&ExperienceFix{}).
		Where("claimed_by_id = ? AND status = ?", user.ID, FixStatusCompleted).
		Count(&fixed).Error; err != nil {
		return nil, log.Err("failed to count completed fixes", err, "userID", user.ID)
	}
	if err := tx.Model(&ExperienceVerification{}).
		Where("verifier_id = ?", user.ID).
		Count(&verified).Error; err != nil {
		return nil, log.Err("failed to count verifications", err, "userID", user.ID)
	}

	badge := func(key, name, description string, progress, threshold int64) Achievement {
		return Achievement{
			Key:         key,
			Name:        name,
			Description: description,
			Earned:      progress >= threshold,
			Progress:    progress,
			Threshold:   threshold,
		}
	}

	return []Achievement{
		badge("first_report", "First Report", "Report your first broken experience", reported, 1),
		badge("watchdog", "Watchdog", "Report 10 broken experiences", reported, 10),
		badge("first_fix", "Fixer", "Complete your first fix", fixed, 1),
		badge("handy", "Handy", "Complete 5 fixes", fixed, 5),
		badge("witness", "Witness", "Verify an experience in your community", verified, 1),
		badge("inspector", "Inspector", "Verify 20 experiences", verified, 20),
	}, nil
}
