package fixController_test

import (
	"testing"

	fixController "brokex/internal/controllers/fixes"
	. "brokex/internal/models"
	"brokex/internal/services"
	"brokex/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRequest_Validation(t *testing.T) {
	v := validation.New()

	t.Run("valid statuses", func(t *testing.T) {
		for _, status := range []string{"pending", "issue_still_there", "issue_resolved"} {
			fieldErrors, err := v.Validate(fixController.VerifyRequest{Status: status})
			require.NoError(t, err)
			assert.Nil(t, fieldErrors, "status %q should pass", status)
		}
	})

	t.Run("missing status", func(t *testing.T) {
		fieldErrors, err := v.Validate(fixController.VerifyRequest{})
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "status")
	})

	t.Run("unknown status", func(t *testing.T) {
		fieldErrors, err := v.Validate(fixController.VerifyRequest{Status: "maybe"})
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "status")
	})

	t.Run("coordinates validated when present", func(t *testing.T) {
		lat := "100.0"
		fieldErrors, err := v.Validate(fixController.VerifyRequest{
			Status:   "issue_resolved",
			Latitude: &lat,
		})
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "latitude")
	})
}

func TestProofRequest_Validation(t *testing.T) {
	v := validation.New()

	t.Run("requires at least one image", func(t *testing.T) {
		fieldErrors, err := v.Validate(fixController.ProofRequest{})
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "imageURLs")
	})

	t.Run("valid proof", func(t *testing.T) {
		fieldErrors, err := v.Validate(fixController.ProofRequest{
			ImageURLs: []string{"https://example.com/after.jpg"},
		})
		require.NoError(t, err)
		assert.Nil(t, fieldErrors)
	})
}

// Verifications are only accepted from inside the experience's configured
// radius. This pins the distance gate against the haversine measure the
// controller uses.
func TestVerificationDistanceGate(t *testing.T) {
	experience := Experience{VerificationRadius: 100}

	// Reporter location
	lat, lng := 40.712800, -74.006000

	within := services.Haversine(lat, lng, 40.713300, -74.006000) // ~55m
	outside := services.Haversine(lat, lng, 40.714800, -74.006000) // ~220m

	assert.LessOrEqual(t, within, float64(experience.VerificationRadius))
	assert.Greater(t, outside, float64(experience.VerificationRadius))
}

func TestFixStatus_IsValid(t *testing.T) {
	for _, status := range []FixStatus{
		FixStatusClaimed,
		FixStatusInProgress,
		FixStatusCompleted,
		FixStatusAbandoned,
	} {
		assert.True(t, status.IsValid())
	}

	assert.False(t, FixStatus("done").IsValid())
	assert.False(t, FixStatus("").IsValid())
}
