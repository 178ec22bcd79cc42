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
	USER_CACHE_EXPIRY    = 24 * time.Hour
	USER_CACHE_PREFIX    = "user:"
	SUBJECT_CACHE_PREFIX = "subject:"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetBySubjectID(ctx context.Context, tx *gorm.DB, subjectID string) (*User, error)
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	FindOrCreateBySubject(ctx context.Context, tx *gorm.DB, user *User) (*User, error)
	ClearUserCache(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if found, err := r.getCache(ctx, USER_CACHE_PREFIX+id.String(), &user); err == nil && found {
		return &user, nil
	}

	if err := tx.WithContext(ctx).Preload("Settings").First(&user, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get user by id", err, "userID", id)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

func (r *userRepository) GetBySubjectID(
	ctx context.Context,
	tx *gorm.DB,
	subjectID string,
) (*User, error) {
	log := r.log.Function("GetBySubjectID")

	var user User
	if found, err := r.getCache(ctx, SUBJECT_CACHE_PREFIX+subjectID, &user); err == nil && found {
		return &user, nil
	}

	if err := tx.WithContext(ctx).Preload("Settings").First(&user, "subject_id = ?", subjectID).Error; err != nil {
		return nil, log.Err("failed to get user by subject id", err, "subjectID", subjectID)
	}

	if err := r.addUserToCache(ctx, &user); err != nil {
		log.Warn("failed to add user to cache", "subjectID", subjectID, "error", err)
	}

	return &user, nil
}

// FindOrCreateBySubject lazily provisions a local user record mirroring the
// identity provider's profile, keyed by the external subject id.
func (r *userRepository) FindOrCreateBySubject(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
) (*User, error) {
	log := r.log.Function("FindOrCreateBySubject")

	var existing User
	err := tx.WithContext(ctx).First(&existing, "subject_id = ?", user.SubjectID).Error
	if err == nil {
		existing.UpdateFromIdentity(
			user.SubjectID,
			user.Email,
			&user.DisplayName,
			user.FirstName,
			user.LastName,
			derefOrEmpty(user.Provider),
		)
		if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, log.Err("failed to refresh user from identity", err, "subjectID", user.SubjectID)
		}
		if cacheErr := r.ClearUserCache(ctx, &existing); cacheErr != nil {
			log.Warn("failed to clear user cache", "userID", existing.ID, "error", cacheErr)
		}
		return &existing, nil
	}

	if err != gorm.ErrRecordNotFound {
		return nil, log.Err("failed to look up user by subject id", err, "subjectID", user.SubjectID)
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return nil, log.Err("failed to create user", err, "subjectID", user.SubjectID)
	}

	log.Info("provisioned new user", "userID", user.ID, "subjectID", user.SubjectID)
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.ClearUserCache(ctx, user); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, user *User) error {
	log := r.log.Function("ClearUserCache")

	if err := database.NewCacheBuilder(r.db.Cache.User, USER_CACHE_PREFIX+user.ID.String()).
		WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	if user.SubjectID != "" {
		if err := database.NewCacheBuilder(r.db.Cache.User, SUBJECT_CACHE_PREFIX+user.SubjectID).
			WithContext(ctx).Delete(); err != nil {
			log.Warn("failed to clear subject cache", "subjectID", user.SubjectID, "error", err)
		}
	}

	return nil
}

func (r *userRepository) getCache(ctx context.Context, key string, user *User) (bool, error) {
	return database.NewCacheBuilder(r.db.Cache.User, key).WithContext(ctx).Get(user)
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) error {
	if err := database.NewCacheBuilder(r.db.Cache.User, USER_CACHE_PREFIX+user.ID.String()).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		return err
	}

	if user.SubjectID == "" {
		return nil
	}

	return database.NewCacheBuilder(r.db.Cache.User, SUBJECT_CACHE_PREFIX+user.SubjectID).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set()
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
