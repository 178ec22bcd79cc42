package jobs

import (
	"context"
	"errors"
	"testing"

	"brokex/internal/database"
	. "brokex/internal/models"
	"brokex/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubExperienceRepo struct {
	recountResult int
	recountErr    error
	recountCalls  int
}

func (s *stubExperienceRepo) Create(ctx context.Context, tx *gorm.DB, experience *Experience) error {
	return nil
}

func (s *stubExperienceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Experience, error) {
	return nil, nil
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
	return nil
}

func (s *stubExperienceRepo) RecountVotes(ctx context.Context, tx *gorm.DB) (int, error) {
	s.recountCalls++
	return s.recountResult, s.recountErr
}

func (s *stubExperienceRepo) InvalidateMarkersCache(ctx context.Context) error {
	return nil
}

func setupTransaction(t *testing.T) (*services.TransactionService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return services.NewTransactionService(database.DB{SQL: gormDB}), mock
}

func TestVoteReconciliationJob_Execute(t *testing.T) {
	transaction, mock := setupTransaction(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &stubExperienceRepo{recountResult: 3}
	job := NewVoteReconciliationJob(repo, transaction, services.Daily)

	err := job.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, repo.recountCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteReconciliationJob_Execute_RollsBackOnError(t *testing.T) {
	transaction, mock := setupTransaction(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &stubExperienceRepo{recountErr: errors.New("recount failed")}
	job := NewVoteReconciliationJob(repo, transaction, services.Daily)

	err := job.Execute(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteReconciliationJob_Metadata(t *testing.T) {
	job := NewVoteReconciliationJob(&stubExperienceRepo{}, nil, services.Daily)

	assert.Equal(t, "VoteCounterReconciliation", job.Name())
	assert.Equal(t, services.Daily, job.Schedule())
}
