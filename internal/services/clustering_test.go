package services

import (
	"testing"

	. "brokex/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marker(lat, lng string) Marker {
	return Marker{
		ID:        uuid.New(),
		Latitude:  decimal.RequireFromString(lat),
		Longitude: decimal.RequireFromString(lng),
		Status:    ExperienceStatusPending,
	}
}

func TestHaversine(t *testing.T) {
	// Same point
	assert.Equal(t, 0.0, Haversine(40.7128, -74.0060, 40.7128, -74.0060))

	// One degree of latitude is roughly 111 km
	distance := Haversine(40.0, -74.0, 41.0, -74.0)
	assert.InDelta(t, 111195, distance, 500)

	// Short hop, about 120m at this latitude
	short := Haversine(40.712800, -74.006000, 40.713800, -74.006500)
	assert.Greater(t, short, 100.0)
	assert.Less(t, short, 150.0)
}

func TestClusterRadiusMeters(t *testing.T) {
	assert.Equal(t, 500.0, ClusterRadiusMeters(5))
	assert.Equal(t, 500.0, ClusterRadiusMeters(9))
	assert.Equal(t, 300.0, ClusterRadiusMeters(10))
	assert.Equal(t, 300.0, ClusterRadiusMeters(11))
	assert.Equal(t, 150.0, ClusterRadiusMeters(12))
	assert.Equal(t, 150.0, ClusterRadiusMeters(13))
}

func TestCluster_HighZoomReturnsIndividualMarkers(t *testing.T) {
	service := NewClusteringService()

	markers := []Marker{
		marker("40.712800", "-74.006000"),
		marker("40.712810", "-74.006010"),
		marker("40.712820", "-74.006020"),
	}

	clusters := service.Cluster(markers, CLUSTER_MAX_ZOOM)

	require.Len(t, clusters, 3)
	for i, cluster := range clusters {
		assert.Equal(t, 1, cluster.Count)
		assert.Equal(t, markers[i].ID, cluster.Markers[0].ID)
	}
}

func TestCluster_GroupsNearbyMarkers(t *testing.T) {
	service := NewClusteringService()

	// Two markers ~15m apart, one ~5km away
	markers := []Marker{
		marker("40.712800", "-74.006000"),
		marker("40.712900", "-74.006100"),
		marker("40.757000", "-73.986000"),
	}

	clusters := service.Cluster(markers, 8)

	require.Len(t, clusters, 2)
	assert.Equal(t, 2, clusters[0].Count)
	assert.Equal(t, 1, clusters[1].Count)
}

func TestCluster_PositionIsMeanOfMembers(t *testing.T) {
	service := NewClusteringService()

	markers := []Marker{
		marker("40.000000", "-74.000000"),
		marker("40.001000", "-74.001000"),
	}

	clusters := service.Cluster(markers, 8)

	require.Len(t, clusters, 1)
	assert.InDelta(t, 40.0005, clusters[0].Latitude, 1e-9)
	assert.InDelta(t, -74.0005, clusters[0].Longitude, 1e-9)
}

func TestCluster_RadiusBandingSplitsAtHigherZoom(t *testing.T) {
	service := NewClusteringService()

	// ~400m apart: inside the 500m radius, outside the 150m radius
	markers := []Marker{
		marker("40.712800", "-74.006000"),
		marker("40.716400", "-74.006000"),
	}

	lowZoom := service.Cluster(markers, 8)
	require.Len(t, lowZoom, 1)
	assert.Equal(t, 2, lowZoom[0].Count)

	highZoom := service.Cluster(markers, 13)
	require.Len(t, highZoom, 2)
}

func TestCluster_Deterministic(t *testing.T) {
	service := NewClusteringService()

	markers := []Marker{
		marker("40.712800", "-74.006000"),
		marker("40.712900", "-74.006100"),
		marker("40.757000", "-73.986000"),
		marker("40.757100", "-73.986100"),
	}

	first := service.Cluster(markers, 9)
	second := service.Cluster(markers, 9)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Count, second[i].Count)
		assert.Equal(t, first[i].Latitude, second[i].Latitude)
		assert.Equal(t, first[i].Longitude, second[i].Longitude)
	}
}

func TestCluster_EmptyInput(t *testing.T) {
	service := NewClusteringService()

	assert.Empty(t, service.Cluster(nil, 8))
	assert.Empty(t, service.Cluster([]Marker{}, CLUSTER_MAX_ZOOM))
}
