package util

import (
	"fmt"
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CalculateDistance returns the great-circle (haversine) distance in
// kilometres between two points given in degrees.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degToRad(lat1)
	lat2Rad := degToRad(lat2)
	dLat := lat2Rad - lat1Rad
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceBetween is CalculateDistance over GeoPoints.
func DistanceBetween(a, b GeoPoint) float64 {
	return CalculateDistance(a.Lat, a.Lng, b.Lat, b.Lng)
}

// FormatDistance renders kilometres for display: metres below 1 km
// ("350 m"), one decimal above ("1.2 km").
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return strings.Replace(fmt.Sprintf("%.1f km", km), ".0 km", " km", 1)
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
