package osrm

import (
	"evroute/internal/model"

	"github.com/paulmach/orb"
)

// RequiresMoreDetail reports whether a simplified route should be re-requested with full
// geometry because the viewport no longer contains all of its input waypoints.
func RequiresMoreDetail(route *model.Route, bounds orb.Bound) bool {
	if !route.Properties.IsSimplified {
		return false
	}

	for _, wp := range route.InputWaypoints {
		if wp.LatLng == nil {
			continue
		}
		if !bounds.Contains(wp.LatLng.Point()) {
			return true
		}
	}
	return false
}
