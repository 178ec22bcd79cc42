package experienceController_test

import (
	"testing"

	experienceController "brokex/internal/controllers/experiences"
	"brokex/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() experienceController.CreateExperienceRequest {
	return experienceController.CreateExperienceRequest{
		Title:      "Pothole on Main St",
		CategoryID: 1,
		Latitude:   "40.712800",
		Longitude:  "-74.006000",
	}
}

func TestCreateExperienceRequest_Validation(t *testing.T) {
	v := validation.New()

	t.Run("minimal valid request", func(t *testing.T) {
		fieldErrors, err := v.Validate(validCreateRequest())
		require.NoError(t, err)
		assert.Nil(t, fieldErrors)
	})

	t.Run("full valid request", func(t *testing.T) {
		req := validCreateRequest()
		req.Description = "Deep pothole near the crosswalk"
		req.Address = "123 Main St"
		req.Priority = "critical"
		req.ImageURLs = []string{"https://example.com/pothole.jpg"}
		req.RequiredVerifications = 5
		req.VerificationRadius = 250

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Nil(t, fieldErrors)
	})

	t.Run("missing title", func(t *testing.T) {
		req := validCreateRequest()
		req.Title = ""

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "title")
	})

	t.Run("title too short", func(t *testing.T) {
		req := validCreateRequest()
		req.Title = "ab"

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "title")
	})

	t.Run("latitude out of range", func(t *testing.T) {
		req := validCreateRequest()
		req.Latitude = "91.0"

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "latitude")
	})

	t.Run("longitude not a number", func(t *testing.T) {
		req := validCreateRequest()
		req.Longitude = "east"

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "longitude")
	})

	t.Run("unknown priority", func(t *testing.T) {
		req := validCreateRequest()
		req.Priority = "urgent"

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "priority")
	})

	t.Run("too many images", func(t *testing.T) {
		req := validCreateRequest()
		for range 11 {
			req.ImageURLs = append(req.ImageURLs, "https://example.com/img.jpg")
		}

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "imageURLs")
	})

	t.Run("verification radius too small", func(t *testing.T) {
		req := validCreateRequest()
		req.VerificationRadius = 5

		fieldErrors, err := v.Validate(req)
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "verificationRadius")
	})
}

func TestUpdateExperienceRequest_Validation(t *testing.T) {
	v := validation.New()

	t.Run("empty patch is valid", func(t *testing.T) {
		fieldErrors, err := v.Validate(experienceController.UpdateExperienceRequest{})
		require.NoError(t, err)
		assert.Nil(t, fieldErrors)
	})

	t.Run("short title rejected", func(t *testing.T) {
		title := "ab"
		fieldErrors, err := v.Validate(experienceController.UpdateExperienceRequest{Title: &title})
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "title")
	})

	t.Run("bad priority rejected", func(t *testing.T) {
		priority := "whenever"
		fieldErrors, err := v.Validate(experienceController.UpdateExperienceRequest{Priority: &priority})
		require.NoError(t, err)
		assert.Contains(t, fieldErrors, "priority")
	})
}
