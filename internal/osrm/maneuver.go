package osrm

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"evroute/internal/model"
)

// ManeuverType is the closed set of maneuver types an OSRM v5 backend emits.
type ManeuverType int

const (
	ManeuverUnknown ManeuverType = iota
	ManeuverTurn
	ManeuverNewName
	ManeuverDepart
	ManeuverArrive
	ManeuverMerge
	ManeuverRamp // deprecated since API v5.1
	ManeuverOnRamp
	ManeuverOffRamp
	ManeuverFork
	ManeuverEndOfRoad
	ManeuverUseLane
	ManeuverContinue
	ManeuverRoundabout
	ManeuverRotary
	ManeuverRoundaboutTurn
	ManeuverNotification
	ManeuverExitRoundabout
	ManeuverExitRotary
)

var maneuverTypes = map[string]ManeuverType{
	"turn":            ManeuverTurn,
	"new name":        ManeuverNewName,
	"depart":          ManeuverDepart,
	"arrive":          ManeuverArrive,
	"merge":           ManeuverMerge,
	"ramp":            ManeuverRamp,
	"on ramp":         ManeuverOnRamp,
	"off ramp":        ManeuverOffRamp,
	"fork":            ManeuverFork,
	"end of road":     ManeuverEndOfRoad,
	"use lane":        ManeuverUseLane,
	"continue":        ManeuverContinue,
	"roundabout":      ManeuverRoundabout,
	"rotary":          ManeuverRotary,
	"roundabout turn": ManeuverRoundaboutTurn,
	"notification":    ManeuverNotification,
	"exit roundabout": ManeuverExitRoundabout,
	"exit rotary":     ManeuverExitRotary,
}

// ParseManeuverType maps the wire name of a maneuver type. Unrecognized names yield ManeuverUnknown.
func ParseManeuverType(s string) ManeuverType {
	return maneuverTypes[s]
}

// collapsesModifier reports whether the maneuver's modifier is reduced to Left/Right.
func (t ManeuverType) collapsesModifier() bool {
	switch t {
	case ManeuverMerge, ManeuverFork, ManeuverOnRamp, ManeuverOffRamp, ManeuverEndOfRoad:
		return true
	}
	return false
}

// instructionType classifies a maneuver. The boolean is false when the maneuver carries no
// usable classification (a turn-like maneuver without a modifier).
func instructionType(m RawManeuver, lastLeg bool) (model.InstructionType, bool) {
	switch ParseManeuverType(m.Type) {
	case ManeuverNewName:
		return model.InstructionContinue, true
	case ManeuverDepart:
		return model.InstructionHead, true
	case ManeuverArrive:
		if lastLeg {
			return model.InstructionDestinationReached, true
		}
		return model.InstructionWaypointReached, true
	case ManeuverRoundabout, ManeuverRotary:
		return model.InstructionRoundabout, true
	case ManeuverMerge:
		return model.InstructionMerge, true
	case ManeuverFork:
		return model.InstructionFork, true
	case ManeuverOnRamp:
		return model.InstructionOnRamp, true
	case ManeuverOffRamp:
		return model.InstructionOffRamp, true
	case ManeuverEndOfRoad:
		return model.InstructionEndOfRoad, true
	default:
		// turn, ramp, continue, use lane, roundabout turn, notification, exits and unknown
		// types are all reduced to the direction they take.
		if m.Modifier == "" {
			return "", false
		}
		return model.InstructionType(titleCase(m.Modifier)), true
	}
}

// modifier classifies the direction qualifier of a maneuver.
func modifier(m RawManeuver) model.Modifier {
	mod := m.Modifier
	if ParseManeuverType(m.Type).collapsesModifier() {
		mod = leftOrRight(mod)
	}
	if mod == "" {
		return model.ModifierNone
	}
	return model.Modifier(titleCase(mod))
}

func leftOrRight(d string) string {
	if strings.Contains(d, "left") {
		return "Left"
	}
	return "Right"
}

var octants = [8]model.Direction{
	model.North, model.NorthEast, model.East, model.SouthEast,
	model.South, model.SouthWest, model.West, model.NorthWest,
}

// bearingToDirection converts a bearing in degrees to a compass octant.
func bearingToDirection(bearing float64) model.Direction {
	oct := int(math.Floor(bearing/45+0.5)) % 8
	if oct < 0 {
		oct += 8
	}
	return octants[oct]
}

// titleCase upper-cases the first letter of every space separated word and drops the spaces:
// "slight left" -> "SlightLeft".
func titleCase(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, " ") {
		b.WriteString(capitalizeFirst(word))
	}
	return b.String()
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
