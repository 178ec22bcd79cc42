package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExperienceStatus_IsValid(t *testing.T) {
	valid := []ExperienceStatus{
		ExperienceStatusPending,
		ExperienceStatusClaimed,
		ExperienceStatusInProgress,
		ExperienceStatusProofUploaded,
		ExperienceStatusResolved,
		ExperienceStatusVerified,
		ExperienceStatusDisputed,
	}
	for _, status := range valid {
		assert.True(t, status.IsValid(), "expected %q to be valid", status)
	}

	assert.False(t, ExperienceStatus("").IsValid())
	assert.False(t, ExperienceStatus("open").IsValid())
	assert.False(t, ExperienceStatus("PENDING").IsValid())
}

func TestExperiencePriority_IsValid(t *testing.T) {
	valid := []ExperiencePriority{
		ExperiencePriorityLow,
		ExperiencePriorityMedium,
		ExperiencePriorityHigh,
		ExperiencePriorityCritical,
	}
	for _, priority := range valid {
		assert.True(t, priority.IsValid(), "expected %q to be valid", priority)
	}

	assert.False(t, ExperiencePriority("").IsValid())
	assert.False(t, ExperiencePriority("urgent").IsValid())
}

func TestExperience_ToMarker(t *testing.T) {
	experience := Experience{
		Title:     "Pothole on Main St",
		Latitude:  decimal.RequireFromString("40.712800"),
		Longitude: decimal.RequireFromString("-74.006000"),
		Status:    ExperienceStatusPending,
		Priority:  ExperiencePriorityHigh,
	}
	experience.ID = uuid.New()

	marker := experience.ToMarker()

	assert.Equal(t, experience.ID, marker.ID)
	assert.Equal(t, "Pothole on Main St", marker.Title)
	assert.True(t, marker.Latitude.Equal(experience.Latitude))
	assert.True(t, marker.Longitude.Equal(experience.Longitude))
	assert.Equal(t, ExperienceStatusPending, marker.Status)
	assert.Equal(t, ExperiencePriorityHigh, marker.Priority)
}
