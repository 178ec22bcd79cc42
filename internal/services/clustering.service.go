package services

import (
	"math"

	. "brokex/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/shopspring/decimal"
)

const (
	// Above this zoom every marker renders individually.
	CLUSTER_MAX_ZOOM = 14

	earthRadiusMeters = 6371000.0
)

// Cluster is a group of nearby markers merged into a single display point.
// Position is the arithmetic mean of the members' coordinates.
type Cluster struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Count     int      `json:"count"`
	Markers   []Marker `json:"markers"`
}

// ClusteringService groups map markers by great-circle distance at low zoom
// levels. Grouping is greedy in input order, so the output is deterministic
// for a given marker slice.
type ClusteringService struct {
	log logger.Logger
}

func NewClusteringService() *ClusteringService {
	return &ClusteringService{
		log: logger.New("ClusteringService"),
	}
}

// ClusterRadiusMeters returns the grouping radius for a zoom level.
func ClusterRadiusMeters(zoom int) float64 {
	switch {
	case zoom < 10:
		return 500
	case zoom < 12:
		return 300
	default:
		return 150
	}
}

// Cluster groups the markers for the given zoom level. At zoom >= 14 each
// marker becomes its own cluster.
func (s *ClusteringService) Cluster(markers []Marker, zoom int) []Cluster {
	if zoom >= CLUSTER_MAX_ZOOM {
		clusters := make([]Cluster, 0, len(markers))
		for _, marker := range markers {
			clusters = append(clusters, Cluster{
				Latitude:  decimalToFloat(marker.Latitude),
				Longitude: decimalToFloat(marker.Longitude),
				Count:     1,
				Markers:   []Marker{marker},
			})
		}
		return clusters
	}

	radius := ClusterRadiusMeters(zoom)
	processed := make([]bool, len(markers))
	clusters := make([]Cluster, 0)

	for i := range markers {
		if processed[i] {
			continue
		}
		processed[i] = true

		members := []Marker{markers[i]}
		for j := i + 1; j < len(markers); j++ {
			if processed[j] {
				continue
			}
			distance := Haversine(
				decimalToFloat(markers[i].Latitude),
				decimalToFloat(markers[i].Longitude),
				decimalToFloat(markers[j].Latitude),
				decimalToFloat(markers[j].Longitude),
			)
			if distance <= radius {
				processed[j] = true
				members = append(members, markers[j])
			}
		}

		var latSum, lngSum float64
		for _, member := range members {
			latSum += decimalToFloat(member.Latitude)
			lngSum += decimalToFloat(member.Longitude)
		}

		clusters = append(clusters, Cluster{
			Latitude:  latSum / float64(len(members)),
			Longitude: lngSum / float64(len(members)),
			Count:     len(members),
			Markers:   members,
		})
	}

	return clusters
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
