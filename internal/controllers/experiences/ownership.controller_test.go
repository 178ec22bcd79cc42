package experienceController

import (
	"context"
	"testing"

	"brokex/internal/database"
	. "brokex/internal/models"
	"brokex/internal/types"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubExperienceRepo struct {
	experience  *Experience
	getErr      error
	deleteCalls int
}

func (s *stubExperienceRepo) Create(ctx context.Context, tx *gorm.DB, experience *Experience) error {
	return nil
}

func (s *stubExperienceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Experience, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.experience, nil
}

func (s *stubExperienceRepo) List(ctx context.Context, tx *gorm.DB) ([]*Experience, error) {
	return nil, nil
}

func (s *stubExperienceRepo) Markers(ctx context.Context, tx *gorm.DB) ([]Marker, error) {
	return nil, nil
}

func (s *stubExperienceRepo) Search(ctx context.Context, tx *gorm.DB, query string) ([]*Experience, error) {
	return nil, nil
}

func (s *stubExperienceRepo) Update(ctx context.Context, tx *gorm.DB, experience *Experience) error {
	return nil
}

func (s *stubExperienceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	s.deleteCalls++
	return nil
}

func (s *stubExperienceRepo) AdjustVoteCounters(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	upDelta, downDelta int,
) error {
	return nil
}

func (s *stubExperienceRepo) RecountVotes(ctx context.Context, tx *gorm.DB) (int, error) {
	return 0, nil
}

func (s *stubExperienceRepo) InvalidateMarkersCache(ctx context.Context) error {
	return nil
}

func setupOwnershipController(t *testing.T, repo *stubExperienceRepo) *ExperienceController {
	db, _, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return &ExperienceController{
		experienceRepo: repo,
		db:             database.DB{SQL: gormDB},
		log:            logger.New("experienceController"),
	}
}

func TestDeleteRejectsNonReporter(t *testing.T) {
	reporterID := uuid.New()
	experienceID := uuid.New()
	repo := &stubExperienceRepo{
		experience: &Experience{
			BaseUUIDModel: BaseUUIDModel{ID: experienceID},
			ReporterID:    reporterID,
		},
	}
	controller := setupOwnershipController(t, repo)

	intruder := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	err := controller.Delete(context.Background(), intruder, experienceID)

	assert.ErrorIs(t, err, types.ErrForbidden)
	assert.Zero(t, repo.deleteCalls)
}

func TestDeleteMissingExperience(t *testing.T) {
	repo := &stubExperienceRepo{getErr: gorm.ErrRecordNotFound}
	controller := setupOwnershipController(t, repo)

	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	err := controller.Delete(context.Background(), user, uuid.New())

	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Zero(t, repo.deleteCalls)
}

func TestUpdateRejectsNonReporter(t *testing.T) {
	reporterID := uuid.New()
	experienceID := uuid.New()
	repo := &stubExperienceRepo{
		experience: &Experience{
			BaseUUIDModel: BaseUUIDModel{ID: experienceID},
			ReporterID:    reporterID,
		},
	}
	controller := setupOwnershipController(t, repo)

	title := "Someone else's report"
	intruder := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	_, err := controller.Update(context.Background(), intruder, experienceID, UpdateExperienceRequest{
		Title: &title,
	})

	assert.ErrorIs(t, err, types.ErrForbidden)
}
