package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title     string   `validate:"required,min=3,max=20"`
	Priority  string   `validate:"omitempty,oneof=low medium high"`
	Latitude  string   `validate:"required,latitude"`
	Longitude string   `validate:"required,longitude"`
	ImageURLs []string `validate:"max=2,dive,url"`
}

func TestValidator_Valid(t *testing.T) {
	v := New()

	fieldErrors, err := v.Validate(sampleRequest{
		Title:     "Pothole on Main",
		Priority:  "high",
		Latitude:  "40.712800",
		Longitude: "-74.006000",
		ImageURLs: []string{"https://example.com/a.jpg"},
	})

	assert.NoError(t, err)
	assert.Nil(t, fieldErrors)
}

func TestValidator_MissingRequired(t *testing.T) {
	v := New()

	fieldErrors, err := v.Validate(sampleRequest{})

	require.NoError(t, err)
	require.NotNil(t, fieldErrors)
	assert.Contains(t, fieldErrors, "title")
	assert.Contains(t, fieldErrors, "latitude")
	assert.Contains(t, fieldErrors, "longitude")
	assert.Equal(t, "The title field is required", fieldErrors["title"])
}

func TestValidator_BadCoordinates(t *testing.T) {
	v := New()

	fieldErrors, err := v.Validate(sampleRequest{
		Title:     "Broken light",
		Latitude:  "95.0",
		Longitude: "-200.0",
	})

	require.NoError(t, err)
	require.NotNil(t, fieldErrors)
	assert.Contains(t, fieldErrors, "latitude")
	assert.Contains(t, fieldErrors, "longitude")
}

func TestValidator_OneOf(t *testing.T) {
	v := New()

	fieldErrors, err := v.Validate(sampleRequest{
		Title:     "Broken light",
		Priority:  "urgent",
		Latitude:  "40.7",
		Longitude: "-74.0",
	})

	require.NoError(t, err)
	require.NotNil(t, fieldErrors)
	assert.Equal(t, "The priority field must be one of: low medium high", fieldErrors["priority"])
}

func TestValidator_DiveURL(t *testing.T) {
	v := New()

	fieldErrors, err := v.Validate(sampleRequest{
		Title:     "Broken light",
		Latitude:  "40.7",
		Longitude: "-74.0",
		ImageURLs: []string{"not a url"},
	})

	require.NoError(t, err)
	require.NotNil(t, fieldErrors)
	assert.NotEmpty(t, fieldErrors)
}
