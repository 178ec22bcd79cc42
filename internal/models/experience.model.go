package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExperienceStatus tracks the public lifecycle of a reported issue. Statuses
// are validated for membership only; clients may move between them in any
// order (there is no enforced transition graph).
type ExperienceStatus string

const (
	ExperienceStatusPending       ExperienceStatus = "pending"
	ExperienceStatusClaimed       ExperienceStatus = "claimed"
	ExperienceStatusInProgress    ExperienceStatus = "in_progress"
	ExperienceStatusProofUploaded ExperienceStatus = "proof_uploaded"
	ExperienceStatusResolved      ExperienceStatus = "resolved"
	ExperienceStatusVerified      ExperienceStatus = "verified"
	ExperienceStatusDisputed      ExperienceStatus = "disputed"
)

func (s ExperienceStatus) IsValid() bool {
	switch s {
	case ExperienceStatusPending, ExperienceStatusClaimed, ExperienceStatusInProgress,
		ExperienceStatusProofUploaded, ExperienceStatusResolved,
		ExperienceStatusVerified, ExperienceStatusDisputed:
		return true
	}
	return false
}

type ExperiencePriority string

const (
	ExperiencePriorityLow      ExperiencePriority = "low"
	ExperiencePriorityMedium   ExperiencePriority = "medium"
	ExperiencePriorityHigh     ExperiencePriority = "high"
	ExperiencePriorityCritical ExperiencePriority = "critical"
)

func (p ExperiencePriority) IsValid() bool {
	switch p {
	case ExperiencePriorityLow, ExperiencePriorityMedium,
		ExperiencePriorityHigh, ExperiencePriorityCritical:
		return true
	}
	return false
}

// Experience is a user-submitted report of a broken real-world condition at
// a location. Vote counters are denormalized; the reconciliation job repairs
// drift against the vote rows.
type Experience struct {
	BaseUUIDModel
	ReporterID  uuid.UUID `gorm:"type:uuid;not null;index"  json:"reporterId"`
	Reporter    *User     `gorm:"foreignKey:ReporterID"     json:"reporter,omitempty"`
	CategoryID  int       `gorm:"not null;index"            json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID"     json:"category,omitempty"`
	Title       string    `gorm:"type:text;not null"        json:"title"`
	Description string    `gorm:"type:text"                 json:"description"`

	Latitude  decimal.Decimal `gorm:"type:decimal(9,6);not null" json:"latitude"`
	Longitude decimal.Decimal `gorm:"type:decimal(9,6);not null" json:"longitude"`
	Address   string          `gorm:"type:text"                  json:"address"`

	Status   ExperienceStatus   `gorm:"type:text;not null;default:'pending';index" json:"status"`
	Priority ExperiencePriority `gorm:"type:text;not null;default:'medium'"        json:"priority"`

	Upvotes   int `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int `gorm:"not null;default:0" json:"downvotes"`

	RequiredVerifications int `gorm:"not null;default:3"   json:"requiredVerifications"`
	VerificationRadius    int `gorm:"not null;default:100" json:"verificationRadius"` // meters

	Images        []ExperienceImage        `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Votes         []Vote                   `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"-"`
	Fixes         []ExperienceFix          `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"fixes,omitempty"`
	Verifications []ExperienceVerification `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"verifications,omitempty"`
}

// ExperienceImage stores an image URL only; binary content lives with the
// upload provider. An image belongs to an experience or, for proof photos,
// to a fix.
type ExperienceImage struct {
	BaseUUIDModel
	ExperienceID    *uuid.UUID `gorm:"type:uuid;index" json:"experienceId,omitempty"`
	ExperienceFixID *uuid.UUID `gorm:"type:uuid;index" json:"experienceFixId,omitempty"`
	URL             string     `gorm:"type:text;not null" json:"url"`
	Caption         *string    `gorm:"type:text"          json:"caption,omitempty"`
}

// Marker is the lightweight map projection of an experience.
type Marker struct {
	ID        uuid.UUID          `json:"id"`
	Latitude  decimal.Decimal    `json:"latitude"`
	Longitude decimal.Decimal    `json:"longitude"`
	Status    ExperienceStatus   `json:"status"`
	Priority  ExperiencePriority `json:"priority"`
	Title     string             `json:"title"`
}

func (e *Experience) ToMarker() Marker {
	return Marker{
		ID:        e.ID,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Status:    e.Status,
		Priority:  e.Priority,
		Title:     e.Title,
	}
}
