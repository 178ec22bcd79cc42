package seed

import (
	"context"

	"brokex/internal/database"
	. "brokex/internal/models"
	"brokex/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// Seed loads the default issue categories. Upserts by slug so re-running
// is safe.
func Seed(db database.DB, log logger.Logger) error {
	log = log.Function("Seed")

	categories := []Category{
		{Name: "Roads & Sidewalks", Slug: "roads-sidewalks"},
		{Name: "Street Lighting", Slug: "street-lighting"},
		{Name: "Trash & Dumping", Slug: "trash-dumping"},
		{Name: "Graffiti & Vandalism", Slug: "graffiti-vandalism"},
		{Name: "Parks & Trees", Slug: "parks-trees"},
		{Name: "Water & Drainage", Slug: "water-drainage"},
		{Name: "Traffic Signals", Slug: "traffic-signals"},
		{Name: "Public Property", Slug: "public-property"},
		{Name: "Other", Slug: "other"},
	}

	categoryRepo := repositories.NewCategoryRepository(db)
	if err := categoryRepo.UpsertSeed(context.Background(), db.SQL, categories); err != nil {
		return log.Err("failed to seed categories", err)
	}

	log.Info("Seeded categories", "count", len(categories))
	return nil
}
