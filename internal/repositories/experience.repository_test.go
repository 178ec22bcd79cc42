package repositories

import (
	"context"
	"testing"

	"brokex/internal/database"
	. "brokex/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupExperienceRepo(t *testing.T) (ExperienceRepository, *gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewExperienceRepository(database.DB{SQL: gormDB}), gormDB, mock
}

func TestMarkersQueriesPendingOnlyWithCap(t *testing.T) {
	repo, gormDB, mock := setupExperienceRepo(t)

	rows := sqlmock.NewRows([]string{"id", "latitude", "longitude", "status", "priority", "title"}).
		AddRow(uuid.New().String(), "41.499321", "-81.694361", "pending", "high", "Pothole on Main St").
		AddRow(uuid.New().String(), "41.501200", "-81.690010", "pending", "low", "Broken streetlight")

	mock.ExpectQuery(`SELECT "id","latitude","longitude","status","priority","title" FROM "experiences" WHERE status = \$1`).
		WithArgs(string(ExperienceStatusPending), EXPERIENCE_MARKER_LIMIT).
		WillReturnRows(rows)

	markers, err := repo.Markers(context.Background(), gormDB)

	assert.NoError(t, err)
	require.Len(t, markers, 2)
	assert.Equal(t, ExperienceStatusPending, markers[0].Status)
	assert.Equal(t, "Pothole on Main St", markers[0].Title)
	assert.Equal(t, ExperiencePriorityLow, markers[1].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEmptyQueryReturnsEmpty(t *testing.T) {
	repo, gormDB, mock := setupExperienceRepo(t)

	results, err := repo.Search(context.Background(), gormDB, "")

	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchMatchesTitleDescriptionAndAddress(t *testing.T) {
	repo, gormDB, mock := setupExperienceRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "experiences" WHERE \(title ILIKE \$1 OR description ILIKE \$2 OR address ILIKE \$3\)`).
		WithArgs("%pothole%", "%pothole%", "%pothole%", EXPERIENCE_SEARCH_LIMIT).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	results, err := repo.Search(context.Background(), gormDB, "pothole")

	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustVoteCountersClampsAtZeroInSQL(t *testing.T) {
	repo, gormDB, mock := setupExperienceRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "experiences" SET "downvotes"=GREATEST\(downvotes \+ \$\d, 0\),.*"upvotes"=GREATEST\(upvotes \+ \$\d, 0\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return repo.AdjustVoteCounters(context.Background(), tx, id, 1, -1)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustVoteCountersSkipsZeroDeltas(t *testing.T) {
	repo, gormDB, mock := setupExperienceRepo(t)

	err := repo.AdjustVoteCounters(context.Background(), gormDB, uuid.New(), 0, 0)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustVoteCountersMissingExperience(t *testing.T) {
	repo, gormDB, mock := setupExperienceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "experiences"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return repo.AdjustVoteCounters(context.Background(), tx, uuid.New(), 1, 0)
	})

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
