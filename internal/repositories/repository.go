package repositories

import "brokex/internal/database"

type Repository struct {
	User         UserRepository
	Category     CategoryRepository
	Experience   ExperienceRepository
	Vote         VoteRepository
	Fix          FixRepository
	Verification VerificationRepository
	Settings     SettingsRepository
	Notification NotificationRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db), // user repo needs cache for subject-id lookups
		Category:     NewCategoryRepository(db),
		Experience:   NewExperienceRepository(db),
		Vote:         NewVoteRepository(),
		Fix:          NewFixRepository(),
		Verification: NewVerificationRepository(),
		Settings:     NewSettingsRepository(),
		Notification: NewNotificationRepository(),
	}
}
