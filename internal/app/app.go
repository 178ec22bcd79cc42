package app

import (
	"context"

	"brokex/config"
	"brokex/internal/controllers"
	"brokex/internal/database"
	"brokex/internal/events"
	"brokex/internal/handlers/middleware"
	"brokex/internal/jobs"
	"brokex/internal/repositories"
	"brokex/internal/services"
	"brokex/internal/validation"
	"brokex/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config
	Validator  *validation.Validator

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	svc, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)
	controllers := controllers.New(svc, repos, eventBus, config, db)

	if config.SchedulerEnabled {
		reconciliationJob := jobs.NewVoteReconciliationJob(
			repos.Experience,
			svc.Transaction,
			services.Daily,
		)
		if err := svc.Scheduler.AddJob(reconciliationJob); err != nil {
			return &App{}, log.Err("failed to register vote reconciliation job", err)
		}
		if err := svc.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
		log.Info("Registered vote reconciliation job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Validator:   validation.New(),
		Services:    svc,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Validator,
		a.Services.Identity,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Notification,
		a.Services.Clustering,
		a.Repos.User,
		a.Repos.Category,
		a.Repos.Experience,
		a.Repos.Vote,
		a.Repos.Fix,
		a.Repos.Verification,
		a.Repos.Settings,
		a.Repos.Notification,
		a.Controllers.Experience,
		a.Controllers.Vote,
		a.Controllers.Fix,
		a.Controllers.Settings,
		a.Controllers.Stats,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Identity != nil {
		if closeErr := a.Services.Identity.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
