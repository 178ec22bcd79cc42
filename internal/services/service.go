package services

import (
	"brokex/config"
	"brokex/internal/database"
	"brokex/internal/events"
)

type Service struct {
	Identity     *IdentityService
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	Notification *NotificationService
	Clustering   *ClusteringService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)

	identityService, err := NewIdentityService(config)
	if err != nil {
		return Service{}, err
	}

	schedulerService := NewSchedulerService()
	notificationService := NewNotificationService(eventBus)
	clusteringService := NewClusteringService()

	return Service{
		Identity:     identityService,
		Transaction:  transactionService,
		Scheduler:    schedulerService,
		Notification: notificationService,
		Clustering:   clusteringService,
	}, nil
}
