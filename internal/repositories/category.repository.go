package repositories

import (
	"context"
	"time"

	"brokex/internal/database"
	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	CATEGORY_CACHE_KEY    = "categories:all"
	CATEGORY_CACHE_EXPIRY = 12 * time.Hour
)

type CategoryRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]Category, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Category, error)
	UpsertSeed(ctx context.Context, tx *gorm.DB, categories []Category) error
}

type categoryRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCategoryRepository(db database.DB) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: logger.New("categoryRepository"),
	}
}

func (r *categoryRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]Category, error) {
	log := r.log.Function("GetAll")

	var categories []Category
	found, err := database.NewCacheBuilder(r.db.Cache.General, CATEGORY_CACHE_KEY).
		WithContext(ctx).Get(&categories)
	if err == nil && found {
		return categories, nil
	}

	if err := tx.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, log.Err("failed to list categories", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.General, CATEGORY_CACHE_KEY).
		WithStruct(categories).
		WithTTL(CATEGORY_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache categories", "error", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Category, error) {
	log := r.log.Function("GetByID")

	var category Category
	if err := tx.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get category", err, "categoryID", id)
	}

	return &category, nil
}

// UpsertSeed installs the default category set, matching on slug.
func (r *categoryRepository) UpsertSeed(ctx context.Context, tx *gorm.DB, categories []Category) error {
	log := r.log.Function("UpsertSeed")

	if len(categories) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "updated_at"}),
		}).
		Create(&categories).Error; err != nil {
		return log.Err("failed to seed categories", err)
	}

	return database.NewCacheBuilder(r.db.Cache.General, CATEGORY_CACHE_KEY).
		WithContext(ctx).Delete()
}
