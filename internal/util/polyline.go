package util

import (
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

// DefaultPolylinePrecision is the number of decimal digits OSRM uses for "polyline" geometries.
const DefaultPolylinePrecision = 5

func codec(precision int) polyline.Codec {
	if precision <= 0 {
		precision = DefaultPolylinePrecision
	}
	return polyline.Codec{Dim: 2, Scale: math.Pow10(precision)}
}

// DecodePolyline converts an encoded polyline into [lat, lng] pairs using the given precision
// (5 for Google/OSRM "polyline", 6 for "polyline6").
func DecodePolyline(encoded string, precision int) ([][2]float64, error) {
	if encoded == "" {
		return nil, nil
	}

	coords, rest, err := codec(precision).DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode polyline: %d trailing bytes", len(rest))
	}

	points := make([][2]float64, len(coords))
	for i, c := range coords {
		points[i] = [2]float64{c[0], c[1]}
	}
	return points, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(points [][2]float64, precision int) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p[0], p[1]}
	}
	return string(codec(precision).EncodeCoords(nil, coords))
}
