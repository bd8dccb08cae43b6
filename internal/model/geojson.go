package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineString returns the route geometry in GeoJSON axis order (lng, lat).
func (r *Route) LineString() orb.LineString {
	ls := make(orb.LineString, len(r.Coordinates))
	for i, c := range r.Coordinates {
		ls[i] = orb.Point{c.Lng, c.Lat}
	}
	return ls
}

// Bound returns the bounding box of the route geometry.
func (r *Route) Bound() orb.Bound {
	return r.LineString().Bound()
}

// Point converts the position to an orb point.
func (l LatLng) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// RoutesToFeatureCollection renders routes as LineString features followed by the resolved
// waypoints of the first route as Point features.
func RoutesToFeatureCollection(routes []*Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, r := range routes {
		f := geojson.NewFeature(r.LineString())
		f.Properties["kind"] = "route"
		f.Properties["index"] = i
		f.Properties["name"] = r.Name
		f.Properties["total_distance"] = r.Summary.TotalDistance
		f.Properties["total_time"] = r.Summary.TotalTime
		fc.Append(f)
	}

	if len(routes) == 0 {
		return fc
	}

	wps := routes[0].Waypoints
	for i, wp := range wps {
		if wp.LatLng == nil {
			continue
		}
		f := geojson.NewFeature(wp.LatLng.Point())
		f.Properties["kind"] = "waypoint"
		f.Properties["index"] = i
		f.Properties["name"] = wp.Name
		f.Properties["role"] = waypointRole(i, len(wps))
		fc.Append(f)
	}

	return fc
}

func waypointRole(i, n int) string {
	switch {
	case i == 0:
		return "origin"
	case i == n-1:
		return "destination"
	default:
		return "stop"
	}
}
