package controllers

import (
	"brokex/config"
	"brokex/internal/database"
	"brokex/internal/events"
	"brokex/internal/repositories"
	"brokex/internal/services"

	experienceController "brokex/internal/controllers/experiences"
	fixController "brokex/internal/controllers/fixes"
	settingsController "brokex/internal/controllers/settings"
	statsController "brokex/internal/controllers/stats"
	voteController "brokex/internal/controllers/votes"
)

type Controllers struct {
	Experience experienceController.ExperienceControllerInterface
	Vote       voteController.VoteControllerInterface
	Fix        fixController.FixControllerInterface
	Settings   settingsController.SettingsControllerInterface
	Stats      statsController.StatsControllerInterface
}

func New(
	svc services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Experience: experienceController.New(repos, svc, eventBus, db),
		Vote:       voteController.New(repos, svc.Transaction, eventBus, db),
		Fix:        fixController.New(repos, svc.Transaction, eventBus, db),
		Settings:   settingsController.New(repos, db),
		Stats:      statsController.New(db),
	}
}
