package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VerificationStatus string

const (
	VerificationStatusPending        VerificationStatus = "pending"
	VerificationStatusIssueStillHere VerificationStatus = "issue_still_there"
	VerificationStatusIssueResolved  VerificationStatus = "issue_resolved"
)

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusIssueStillHere, VerificationStatusIssueResolved:
		return true
	}
	return false
}

// ExperienceVerification is a community member's attestation about the
// current state of a reported experience. When the verifier supplies
// coordinates, DistanceMeters holds the Haversine distance to the
// experience at the time of the attestation. Verifications are stored as
// evidence; they are not aggregated into the parent experience's status.
type ExperienceVerification struct {
	BaseUUIDModel
	ExperienceID uuid.UUID   `gorm:"type:uuid;not null;index" json:"experienceId"`
	Experience   *Experience `gorm:"foreignKey:ExperienceID"  json:"experience,omitempty"`
	VerifierID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"verifierId"`
	Verifier     *User       `gorm:"foreignKey:VerifierID"    json:"verifier,omitempty"`

	Status  VerificationStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Comment *string            `gorm:"type:text"                            json:"comment,omitempty"`

	Latitude       *decimal.Decimal `gorm:"type:decimal(9,6)" json:"latitude,omitempty"`
	Longitude      *decimal.Decimal `gorm:"type:decimal(9,6)" json:"longitude,omitempty"`
	DistanceMeters *float64         `gorm:"type:float"        json:"distanceMeters,omitempty"`
}
