package middleware

import (
	"brokex/config"
	"brokex/internal/database"
	"brokex/internal/events"
	"brokex/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB       database.DB
	userRepo repositories.UserRepository
	Config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:       db,
		userRepo: repos.User,
		Config:   config,
		log:      log,
		eventBus: eventBus,
	}
}
