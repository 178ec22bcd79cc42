package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseUUIDModel keys rows by uuidv7 so primary keys sort by creation time.
// The database must provide the uuidv7() function; see the migrations.
type BaseUUIDModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuidv7()" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"                        json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"                        json:"updatedAt"`
	DeletedAt gorm.DeletedAt `                                             json:"deletedAt"`
}

// BaseModel is for small lookup tables where a serial id reads better than
// a uuid, such as categories.
type BaseModel struct {
	ID        int            `gorm:"type:int;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"                    json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"                    json:"updatedAt"`
	DeletedAt gorm.DeletedAt `                                         json:"deletedAt"`
}
