package voteController

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokex/internal/database"
	"brokex/internal/events"
	. "brokex/internal/models"
	"brokex/internal/repositories"
	"brokex/internal/services"
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
	adjustments [][2]int
}

func (s *stubExperienceRepo) Create(ctx context.Context, tx *gorm.DB, experience *Experience) error {
	return nil
}

func (s *stubExperienceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Experience, error) {
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
	return nil
}

func (s *stubExperienceRepo) AdjustVoteCounters(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	upDelta, downDelta int,
) error {
	s.adjustments = append(s.adjustments, [2]int{upDelta, downDelta})
	s.experience.Upvotes = max(s.experience.Upvotes+upDelta, 0)
	s.experience.Downvotes = max(s.experience.Downvotes+downDelta, 0)
	return nil
}

func (s *stubExperienceRepo) RecountVotes(ctx context.Context, tx *gorm.DB) (int, error) {
	return 0, nil
}

func (s *stubExperienceRepo) InvalidateMarkersCache(ctx context.Context) error {
	return nil
}

type stubPublisher struct {
	published []events.Event
}

func (s *stubPublisher) Publish(channel events.Channel, event events.Event) error {
	s.published = append(s.published, event)
	return nil
}

func setupToggleController(
	t *testing.T,
	experience *Experience,
) (*VoteController, *stubExperienceRepo, *stubPublisher, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	dbWrapper := database.DB{SQL: gormDB}
	experienceRepo := &stubExperienceRepo{experience: experience}
	publisher := &stubPublisher{}

	controller := &VoteController{
		voteRepo:       repositories.NewVoteRepository(),
		experienceRepo: experienceRepo,
		transaction:    services.NewTransactionService(dbWrapper),
		eventBus:       publisher,
		db:             dbWrapper,
		log:            logger.New("voteController"),
	}

	return controller, experienceRepo, publisher, mock
}

func voteColumns() []string {
	return []string{"id", "created_at", "updated_at", "deleted_at", "experience_id", "user_id", "upvote"}
}

func existingVoteRows(experienceID, userID uuid.UUID, upvote bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(voteColumns()).
		AddRow(uuid.New().String(), now, now, nil, experienceID.String(), userID.String(), upvote)
}

func TestVoteToggleInsertsFirstVote(t *testing.T) {
	experienceID := uuid.New()
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	experience := &Experience{BaseUUIDModel: BaseUUIDModel{ID: experienceID}}

	controller, repo, publisher, mock := setupToggleController(t, experience)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(sqlmock.NewRows(voteColumns()))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	result, err := controller.Toggle(context.Background(), user, experienceID, true)

	assert.NoError(t, err)
	assert.Equal(t, VoteStateUp, result.UserVote)
	assert.Equal(t, [][2]int{{1, 0}}, repo.adjustments)
	assert.Len(t, publisher.published, 1)
	assert.Equal(t, events.VOTE_CHANGED, publisher.published[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteToggleSameDirectionRemovesVote(t *testing.T) {
	experienceID := uuid.New()
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	experience := &Experience{BaseUUIDModel: BaseUUIDModel{ID: experienceID}, Upvotes: 1}

	controller, repo, _, mock := setupToggleController(t, experience)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(existingVoteRows(experienceID, user.ID, true))
	mock.ExpectExec(`DELETE FROM "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := controller.Toggle(context.Background(), user, experienceID, true)

	assert.NoError(t, err)
	assert.Equal(t, VoteStateNone, result.UserVote)
	assert.Equal(t, [][2]int{{-1, 0}}, repo.adjustments)
	assert.Equal(t, 0, result.Experience.Upvotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteToggleOppositeDirectionFlips(t *testing.T) {
	experienceID := uuid.New()
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	experience := &Experience{BaseUUIDModel: BaseUUIDModel{ID: experienceID}, Downvotes: 1}

	controller, repo, publisher, mock := setupToggleController(t, experience)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(existingVoteRows(experienceID, user.ID, false))
	mock.ExpectExec(`UPDATE "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := controller.Toggle(context.Background(), user, experienceID, true)

	assert.NoError(t, err)
	assert.Equal(t, VoteStateUp, result.UserVote)
	assert.Equal(t, [][2]int{{1, -1}}, repo.adjustments)
	assert.Equal(t, 1, result.Experience.Upvotes)
	assert.Equal(t, 0, result.Experience.Downvotes)
	assert.Len(t, publisher.published, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteToggleDuplicateInsertMapsToConflict(t *testing.T) {
	experienceID := uuid.New()
	user := &User{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}}
	experience := &Experience{BaseUUIDModel: BaseUUIDModel{ID: experienceID}}

	controller, _, publisher, mock := setupToggleController(t, experience)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(sqlmock.NewRows(voteColumns()))
	mock.ExpectQuery(`INSERT INTO "votes"`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "idx_votes_experience_user"`))
	mock.ExpectRollback()

	result, err := controller.Toggle(context.Background(), user, experienceID, true)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrConflict)
	assert.Empty(t, publisher.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
