package model

import "encoding/json"

// InstructionType is the closed set of instruction kinds produced from backend maneuvers.
type InstructionType string

const (
	InstructionHead               InstructionType = "Head"
	InstructionContinue           InstructionType = "Continue"
	InstructionWaypointReached    InstructionType = "WaypointReached"
	InstructionDestinationReached InstructionType = "DestinationReached"
	InstructionRoundabout         InstructionType = "Roundabout"
	InstructionMerge              InstructionType = "Merge"
	InstructionFork               InstructionType = "Fork"
	InstructionOnRamp             InstructionType = "OnRamp"
	InstructionOffRamp            InstructionType = "OffRamp"
	InstructionEndOfRoad          InstructionType = "EndOfRoad"
	InstructionStraight           InstructionType = "Straight"
	InstructionSlightRight        InstructionType = "SlightRight"
	InstructionRight              InstructionType = "Right"
	InstructionSharpRight         InstructionType = "SharpRight"
	InstructionTurnAround         InstructionType = "Uturn"
	InstructionSharpLeft          InstructionType = "SharpLeft"
	InstructionLeft               InstructionType = "Left"
	InstructionSlightLeft         InstructionType = "SlightLeft"
)

// Modifier is the direction qualifier of an instruction.
type Modifier string

const (
	ModifierNone        Modifier = ""
	ModifierUturn       Modifier = "Uturn"
	ModifierSharpRight  Modifier = "SharpRight"
	ModifierRight       Modifier = "Right"
	ModifierSlightRight Modifier = "SlightRight"
	ModifierStraight    Modifier = "Straight"
	ModifierSlightLeft  Modifier = "SlightLeft"
	ModifierLeft        Modifier = "Left"
	ModifierSharpLeft   Modifier = "SharpLeft"
)

// Direction is a compass octant.
type Direction string

const (
	North     Direction = "N"
	NorthEast Direction = "NE"
	East      Direction = "E"
	SouthEast Direction = "SE"
	South     Direction = "S"
	SouthWest Direction = "SW"
	West      Direction = "W"
	NorthWest Direction = "NW"
)

// Instruction is a visible maneuver of a route. Index is the offset into Route.Coordinates
// where the maneuver begins.
type Instruction struct {
	Type      InstructionType `json:"type"`
	Distance  float64         `json:"distance"`
	Time      float64         `json:"time"`
	Road      string          `json:"road"`
	Direction Direction       `json:"direction"`
	Exit      *int            `json:"exit,omitempty"`
	Index     int             `json:"index"`
	Mode      string          `json:"mode"`
	Modifier  Modifier        `json:"modifier,omitempty"`
	Text      string          `json:"text"`
}

// Summary holds route totals in meters and seconds.
type Summary struct {
	TotalDistance float64 `json:"totalDistance"`
	TotalTime     float64 `json:"totalTime"`
}

// RouteProperties describes how the route geometry was requested.
type RouteProperties struct {
	IsSimplified bool `json:"isSimplified"`
}

// Route is the normalized result of one backend route.
type Route struct {
	Name            string          `json:"name"`
	Coordinates     []LatLng        `json:"coordinates"`
	Instructions    []Instruction   `json:"instructions"`
	Summary         Summary         `json:"summary"`
	Waypoints       []Waypoint      `json:"waypoints"`
	InputWaypoints  []Waypoint      `json:"inputWaypoints"`
	WaypointIndices []int           `json:"waypointIndices,omitempty"`
	Properties      RouteProperties `json:"properties"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}
