package osrm

import "encoding/json"

// RawRouteResponse is the JSON body of an OSRM route service response with EV extensions.
type RawRouteResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message,omitempty"`
	Routes    []RawRoute      `json:"routes"`
	Waypoints []RawWaypoint   `json:"waypoints"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// RawWaypoint is a location the backend snapped to. Charging stops inserted by the backend
// carry a station name and charge annotations.
type RawWaypoint struct {
	Location       []float64 `json:"location"` // [lon, lat]
	Name           string    `json:"name"`
	Hint           string    `json:"hint"`
	Distance       float64   `json:"distance"`
	ChargeDuration float64   `json:"charge_duration"`
	ChargeText     string    `json:"charge_text"`
}

type RawRoute struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Geometry string   `json:"geometry"`
	Legs     []RawLeg `json:"legs"`
}

type RawLeg struct {
	Summary  string    `json:"summary"`
	Distance float64   `json:"distance"`
	Duration float64   `json:"duration"`
	Steps    []RawStep `json:"steps"`
}

type RawStep struct {
	Geometry string      `json:"geometry"`
	Maneuver RawManeuver `json:"maneuver"`
	Name     string      `json:"name"`
	Mode     string      `json:"mode"`
	Distance float64     `json:"distance"`
	Duration float64     `json:"duration"`
}

type RawManeuver struct {
	Type          string    `json:"type"`
	Modifier      string    `json:"modifier,omitempty"`
	BearingBefore float64   `json:"bearing_before"`
	BearingAfter  float64   `json:"bearing_after"`
	Exit          *int      `json:"exit,omitempty"`
	Location      []float64 `json:"location,omitempty"`
}

// hasMetadata reports whether the response carried a non-null metadata object.
func (r *RawRouteResponse) hasMetadata() bool {
	return len(r.Metadata) > 0 && string(r.Metadata) != "null"
}
