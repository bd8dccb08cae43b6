package util

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371000.0

// GreatCircleDistance returns the distance in meters between two points given in degrees.
func GreatCircleDistance(lat1, lng1, lat2, lng2 float64) float64 {
	from := s2.LatLngFromDegrees(lat1, lng1)
	to := s2.LatLngFromDegrees(lat2, lng2)

	var angle s1.Angle = from.Distance(to)
	return angle.Radians() * earthRadiusMeters
}
