package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserSettings holds per-user notification preferences. A row is created
// lazily with defaults the first time settings are read or written.
type UserSettings struct {
	BaseUUIDModel
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	EmailEnabled      bool      `gorm:"not null;default:true"          json:"emailEnabled"`
	PushEnabled       bool      `gorm:"not null;default:false"         json:"pushEnabled"`
	NotifyOnNewNearby bool      `gorm:"not null;default:true"          json:"notifyOnNewNearby"`
	NotifyOnStatus    bool      `gorm:"not null;default:true"          json:"notifyOnStatus"`
	NearbyRadius      int       `gorm:"not null;default:2000"          json:"nearbyRadius"` // meters
}

// PushSubscription stores a Web Push endpoint registration. Keys carries the
// p256dh/auth pair as delivered by the browser.
type PushSubscription struct {
	BaseUUIDModel
	UserID   uuid.UUID      `gorm:"type:uuid;not null;index"       json:"userId"`
	Endpoint string         `gorm:"type:text;not null;uniqueIndex" json:"endpoint"`
	Keys     datatypes.JSON `gorm:"type:jsonb"                     json:"keys"`
}

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelPush  NotificationChannel = "push"
)

// NotificationLog records every notification the platform decided to send.
// Actual delivery is handled by external services; this table is the audit
// trail and dedupe source.
type NotificationLog struct {
	BaseUUIDModel
	UserID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"userId"`
	ExperienceID *uuid.UUID          `gorm:"type:uuid;index"          json:"experienceId,omitempty"`
	Channel      NotificationChannel `gorm:"type:text;not null"       json:"channel"`
	Subject      string              `gorm:"type:text;not null"       json:"subject"`
	Payload      datatypes.JSON      `gorm:"type:jsonb"               json:"payload,omitempty"`
	SentAt       *time.Time          `gorm:"type:timestamp"           json:"sentAt,omitempty"`
}
