package model

import (
	"fmt"
	"maps"
)

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the position as "lat,lng".
func (l LatLng) String() string {
	return fmt.Sprintf("%g,%g", l.Lat, l.Lng)
}

// Waypoint is a stop of a trip. A nil LatLng means the waypoint has not been placed yet.
type Waypoint struct {
	LatLng  *LatLng        `json:"latLng,omitempty"`
	Name    string         `json:"name,omitempty"`
	Options map[string]any `json:"options,omitempty"`
	Hint    string         `json:"hint,omitempty"`
}

// NewWaypoint creates a placed waypoint.
func NewWaypoint(lat, lng float64, name string) Waypoint {
	return Waypoint{LatLng: &LatLng{Lat: lat, Lng: lng}, Name: name}
}

// IsPlaced reports whether the waypoint has a position.
func (w Waypoint) IsPlaced() bool {
	return w.LatLng != nil
}

// Copy returns a deep copy so later mutation of the source does not leak into requests.
func (w Waypoint) Copy() Waypoint {
	c := Waypoint{Name: w.Name, Hint: w.Hint}
	if w.LatLng != nil {
		pos := *w.LatLng
		c.LatLng = &pos
	}
	if w.Options != nil {
		c.Options = maps.Clone(w.Options)
	}
	return c
}

// CopyWaypoints deep-copies a waypoint list.
func CopyWaypoints(wps []Waypoint) []Waypoint {
	if wps == nil {
		return nil
	}
	out := make([]Waypoint, len(wps))
	for i, wp := range wps {
		out[i] = wp.Copy()
	}
	return out
}
