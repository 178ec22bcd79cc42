package database

import (
	"brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Experience{},
		&models.ExperienceImage{},
		&models.Vote{},
		&models.ExperienceFix{},
		&models.ExperienceVerification{},
		&models.UserSettings{},
		&models.PushSubscription{},
		&models.NotificationLog{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create
// automatically.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		// The vote toggle relies on at most one row per (experience, user)
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_experience_user ON votes(experience_id, user_id) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_experiences_status_created_at ON experiences(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_experiences_reporter ON experiences(reporter_id)",
		"CREATE INDEX IF NOT EXISTS idx_fixes_claimant ON experience_fixes(claimed_by_id)",
		"CREATE INDEX IF NOT EXISTS idx_verifications_experience ON experience_verifications(experience_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
