package repositories

import (
	"context"
	"time"

	"brokex/internal/database"
	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Caps mirror the client contracts: 100 for the feed, 50 for the map,
	// 20 for search.
	EXPERIENCE_LIST_LIMIT   = 100
	EXPERIENCE_MARKER_LIMIT = 50
	EXPERIENCE_SEARCH_LIMIT = 20

	MARKERS_CACHE_KEY    = "markers:pending"
	MARKERS_CACHE_EXPIRY = 30 * time.Second
)

type ExperienceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, experience *Experience) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Experience, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Experience, error)
	Markers(ctx context.Context, tx *gorm.DB) ([]Marker, error)
	Search(ctx context.Context, tx *gorm.DB, query string) ([]*Experience, error)
	Update(ctx context.Context, tx *gorm.DB, experience *Experience) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	AdjustVoteCounters(ctx context.Context, tx *gorm.DB, id uuid.UUID, upDelta, downDelta int) error
	RecountVotes(ctx context.Context, tx *gorm.DB) (int, error)
	InvalidateMarkersCache(ctx context.Context) error
}

type experienceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewExperienceRepository(db database.DB) ExperienceRepository {
	return &experienceRepository{
		db:  db,
		log: logger.New("experienceRepository"),
	}
}

func (r *experienceRepository) Create(ctx context.Context, tx *gorm.DB, experience *Experience) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(experience).Error; err != nil {
		return log.Err("failed to create experience", err, "reporterID", experience.ReporterID)
	}

	if err := r.InvalidateMarkersCache(ctx); err != nil {
		log.Warn("failed to invalidate markers cache", "error", err)
	}

	return nil
}

func (r *experienceRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Experience, error) {
	log := r.log.Function("GetByID")

	var experience Experience
	if err := tx.WithContext(ctx).
		Preload("Images").
		Preload("Reporter").
		Preload("Category").
		Preload("Fixes").
		Preload("Fixes.ProofImages").
		Preload("Verifications").
		First(&experience, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get experience", err, "experienceID", id)
	}

	return &experience, nil
}

func (r *experienceRepository) List(ctx context.Context, tx *gorm.DB) ([]*Experience, error) {
	log := r.log.Function("List")

	var experiences []*Experience
	if err := tx.WithContext(ctx).
		Preload("Images").
		Preload("Reporter").
		Preload("Category").
		Order("created_at DESC").
		Limit(EXPERIENCE_LIST_LIMIT).
		Find(&experiences).Error; err != nil {
		return nil, log.Err("failed to list experiences", err)
	}

	return experiences, nil
}

// Markers returns the lightweight pending-only map projection, cached
// briefly since the map polls it on every pan.
func (r *experienceRepository) Markers(ctx context.Context, tx *gorm.DB) ([]Marker, error) {
	log := r.log.Function("Markers")

	var markers []Marker
	found, err := database.NewCacheBuilder(r.db.Cache.Markers, MARKERS_CACHE_KEY).
		WithContext(ctx).Get(&markers)
	if err == nil && found {
		return markers, nil
	}

	var experiences []*Experience
	if err := tx.WithContext(ctx).
		Select("id", "latitude", "longitude", "status", "priority", "title").
		Where("status = ?", ExperienceStatusPending).
		Order("created_at DESC").
		Limit(EXPERIENCE_MARKER_LIMIT).
		Find(&experiences).Error; err != nil {
		return nil, log.Err("failed to query markers", err)
	}

	markers = make([]Marker, 0, len(experiences))
	for _, experience := range experiences {
		markers = append(markers, experience.ToMarker())
	}

	if err := database.NewCacheBuilder(r.db.Cache.Markers, MARKERS_CACHE_KEY).
		WithStruct(markers).
		WithTTL(MARKERS_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache markers", "error", err)
	}

	return markers, nil
}

func (r *experienceRepository) Search(ctx context.Context, tx *gorm.DB, query string) ([]*Experience, error) {
	log := r.log.Function("Search")

	// Empty queries return nothing rather than everything.
	if query == "" {
		return []*Experience{}, nil
	}

	pattern := "%" + query + "%"
	var experiences []*Experience
	if err := tx.WithContext(ctx).
		Preload("Images").
		Preload("Category").
		Where("title ILIKE ? OR description ILIKE ? OR address ILIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(EXPERIENCE_SEARCH_LIMIT).
		Find(&experiences).Error; err != nil {
		return nil, log.Err("failed to search experiences", err, "query", query)
	}

	return experiences, nil
}

func (r *experienceRepository) Update(ctx context.Context, tx *gorm.DB, experience *Experience) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(experience).Error; err != nil {
		return log.Err("failed to update experience", err, "experienceID", experience.ID)
	}

	if err := r.InvalidateMarkersCache(ctx); err != nil {
		log.Warn("failed to invalidate markers cache", "error", err)
	}

	return nil
}

// Delete removes the experience row; images, votes, fixes, and
// verifications go with it via the FK cascade.
func (r *experienceRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Unscoped().Delete(&Experience{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete experience", err, "experienceID", id)
	}

	if err := r.InvalidateMarkersCache(ctx); err != nil {
		log.Warn("failed to invalidate markers cache", "error", err)
	}

	return nil
}

func (r *experienceRepository) AdjustVoteCounters(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	upDelta, downDelta int,
) error {
	log := r.log.Function("AdjustVoteCounters")

	updates := map[string]any{}
	if upDelta != 0 {
		updates["upvotes"] = gorm.Expr("GREATEST(upvotes + ?, 0)", upDelta)
	}
	if downDelta != 0 {
		updates["downvotes"] = gorm.Expr("GREATEST(downvotes + ?, 0)", downDelta)
	}
	if len(updates) == 0 {
		return nil
	}

	result := tx.WithContext(ctx).Model(&Experience{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return log.Err("failed to adjust vote counters", result.Error, "experienceID", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// RecountVotes repairs drifted denormalized counters from the vote rows.
// Returns the number of experiences whose counters changed.
func (r *experienceRepository) RecountVotes(ctx context.Context, tx *gorm.DB) (int, error) {
	log := r.log.Function("RecountVotes")

	result := tx.WithContext(ctx).Exec(`
		UPDATE experiences e
		SET upvotes = counts.up, downvotes = counts.down
		FROM (
			SELECT e2.id,
				COALESCE(SUM(CASE WHEN v.upvote THEN 1 ELSE 0 END), 0) AS up,
				COALESCE(SUM(CASE WHEN NOT v.upvote THEN 1 ELSE 0 END), 0) AS down
			FROM experiences e2
			LEFT JOIN votes v ON v.experience_id = e2.id AND v.deleted_at IS NULL
			GROUP BY e2.id
		) counts
		WHERE counts.id = e.id
		  AND (e.upvotes <> counts.up OR e.downvotes <> counts.down)
	`)
	if result.Error != nil {
		return 0, log.Err("failed to recount votes", result.Error)
	}

	return int(result.RowsAffected), nil
}

func (r *experienceRepository) InvalidateMarkersCache(ctx context.Context) error {
	return database.NewCacheBuilder(r.db.Cache.Markers, MARKERS_CACHE_KEY).
		WithContext(ctx).Delete()
}
