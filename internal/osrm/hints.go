package osrm

import (
	"fmt"
	"maps"

	"evroute/internal/model"
)

// HintCache is an immutable snapshot of backend hint tokens keyed by rounded waypoint
// position. The zero value is an empty cache.
type HintCache struct {
	locations map[string]string
}

// NewHintCache copies the given location key -> hint entries into a snapshot.
func NewHintCache(entries map[string]string) HintCache {
	return HintCache{locations: maps.Clone(entries)}
}

// LocationKey is the key a position is stored under.
func LocationKey(pos model.LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", pos.Lat, pos.Lng)
}

// Lookup returns the hint stored for a position, or "".
func (h HintCache) Lookup(pos model.LatLng) string {
	return h.locations[LocationKey(pos)]
}

// Len returns the number of stored hints.
func (h HintCache) Len() int {
	return len(h.locations)
}

// Entries returns a copy of the stored entries.
func (h HintCache) Entries() map[string]string {
	return maps.Clone(h.locations)
}

// rebuildHints creates the snapshot for the next request. Hints are only kept when the
// backend resolved exactly the requested waypoints; they mean nothing for an EV-expanded set.
func rebuildHints(resolved []RawWaypoint, input []model.Waypoint) HintCache {
	if len(resolved) != len(input) {
		return HintCache{}
	}

	locations := make(map[string]string, len(input))
	for i := range input {
		if input[i].LatLng == nil {
			continue
		}
		locations[LocationKey(*input[i].LatLng)] = resolved[i].Hint
	}
	return HintCache{locations: locations}
}
