package osrm

import (
	"encoding/json"
	"strings"

	"evroute/internal/model"
	"evroute/internal/util"
)

// Interpreter converts backend responses into routes. It holds no state between calls.
type Interpreter struct {
	PolylinePrecision   int
	MetadataOnAllRoutes bool
}

// InterpretJSON parses a response body and interprets it.
func (in *Interpreter) InterpretJSON(body []byte, input []model.Waypoint, opts RouteOptions) ([]*model.Route, HintCache, error) {
	var resp RawRouteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, HintCache{}, &Error{
			Kind:    KindParse,
			Message: "Error parsing OSRM response: " + err.Error(),
			Err:     err,
		}
	}
	return in.Interpret(&resp, input, opts)
}

// Interpret converts a decoded response into one route per backend route and returns the hint
// snapshot to use for the next request.
func (in *Interpreter) Interpret(resp *RawRouteResponse, input []model.Waypoint, opts RouteOptions) ([]*model.Route, HintCache, error) {
	if resp.Code != "Ok" {
		return nil, HintCache{}, &Error{Kind: KindBackendStatus, Code: resp.Code, Message: resp.Message}
	}

	resolved, err := toWaypoints(input, resp.Waypoints)
	if err != nil {
		return nil, HintCache{}, err
	}

	routes := make([]*model.Route, 0, len(resp.Routes))
	for i := range resp.Routes {
		route, err := in.convertRoute(&resp.Routes[i])
		if err != nil {
			return nil, HintCache{}, err
		}
		route.InputWaypoints = model.CopyWaypoints(input)
		route.Waypoints = model.CopyWaypoints(resolved)
		route.Properties.IsSimplified = opts.isSimplified()

		if err := annotateCharging(route, resp); err != nil {
			return nil, HintCache{}, err
		}
		routes = append(routes, route)
	}

	if resp.hasMetadata() && len(routes) > 0 {
		if in.MetadataOnAllRoutes {
			for _, r := range routes {
				r.Metadata = append(json.RawMessage(nil), resp.Metadata...)
			}
		} else {
			// The front-end reads trip metadata from the last alternative only.
			routes[len(routes)-1].Metadata = append(json.RawMessage(nil), resp.Metadata...)
		}
	}

	return routes, rebuildHints(resp.Waypoints, input), nil
}

// toWaypoints reconciles the resolved waypoints with the caller's. When the backend inserted
// charging stops, only origin and destination keep the caller's names, and every waypoint
// shares the first input waypoint's options.
func toWaypoints(input []model.Waypoint, vias []RawWaypoint) ([]model.Waypoint, error) {
	if len(input) == 0 {
		return nil, interpretationError("no input waypoints")
	}
	if len(vias) == 0 {
		return nil, interpretationError("response has no waypoints")
	}

	sameCount := len(vias) == len(input)
	wps := make([]model.Waypoint, len(vias))
	for i, via := range vias {
		if len(via.Location) < 2 {
			return nil, interpretationError("waypoint %d has malformed location %v", i, via.Location)
		}
		wp := model.Waypoint{
			LatLng: &model.LatLng{Lat: via.Location[1], Lng: via.Location[0]},
			Hint:   via.Hint,
		}

		if sameCount {
			wp.Name = input[i].Name
			wp.Options = input[i].Copy().Options
		} else {
			switch i {
			case 0:
				wp.Name = input[0].Name
			case len(vias) - 1:
				wp.Name = input[len(input)-1].Name
			default:
				wp.Name = via.Name
			}
			wp.Options = input[0].Copy().Options
		}
		wps[i] = wp
	}
	return wps, nil
}

func (in *Interpreter) decode(encoded string) ([]model.LatLng, error) {
	points, err := util.DecodePolyline(encoded, in.PolylinePrecision)
	if err != nil {
		return nil, err
	}
	coords := make([]model.LatLng, len(points))
	for i, p := range points {
		coords[i] = model.LatLng{Lat: p[0], Lng: p[1]}
	}
	return coords, nil
}

func (in *Interpreter) convertRoute(raw *RawRoute) (*model.Route, error) {
	if len(raw.Legs) == 0 {
		return nil, interpretationError("route has no legs")
	}

	route := &model.Route{
		Summary: model.Summary{
			TotalDistance: raw.Distance,
			TotalTime:     raw.Duration,
		},
		Instructions: []model.Instruction{},
	}

	legNames := make([]string, len(raw.Legs))
	for i, leg := range raw.Legs {
		legNames[i] = capitalizeFirst(leg.Summary)
	}
	route.Name = strings.Join(legNames, ", ")

	if len(raw.Legs[0].Steps) == 0 {
		coords, err := in.decode(raw.Geometry)
		if err != nil {
			return nil, interpretationError("route geometry: %w", err)
		}
		route.Coordinates = coords
		return route, nil
	}

	index := 0
	lastLeg := len(raw.Legs) - 1
	for i, leg := range raw.Legs {
		for j, step := range leg.Steps {
			geometry, err := in.decode(step.Geometry)
			if err != nil {
				return nil, interpretationError("leg %d step %d geometry: %w", i, j, err)
			}
			route.Coordinates = append(route.Coordinates, geometry...)

			typ, ok := instructionType(step.Maneuver, i == lastLeg)
			if ok {
				mt := ParseManeuverType(step.Maneuver.Type)
				if (i == 0 && mt == ManeuverDepart) || mt == ManeuverArrive {
					route.WaypointIndices = append(route.WaypointIndices, index)
				}

				// Only origin, charging stops and destination surface to the map.
				if (i == 0 && typ == model.InstructionHead) ||
					typ == model.InstructionWaypointReached ||
					typ == model.InstructionDestinationReached {
					route.Instructions = append(route.Instructions, model.Instruction{
						Type:      typ,
						Road:      step.Name,
						Direction: bearingToDirection(step.Maneuver.BearingAfter),
						Exit:      step.Maneuver.Exit,
						Index:     index,
						Mode:      step.Mode,
						Modifier:  modifier(step.Maneuver),
					})
				}
			}

			index += len(geometry)
		}
	}

	return route, nil
}

// annotateCharging stitches charge duration/text and leg distances onto the visible
// instructions. Distances come from the first backend route, and instruction j is fed by
// leg j-1, which holds as long as exactly one instruction surfaces per leg boundary.
func annotateCharging(route *model.Route, resp *RawRouteResponse) error {
	instr := route.Instructions
	if len(instr) == 0 {
		return nil
	}
	vias := resp.Waypoints
	resolved := len(route.Waypoints)

	wi := 1
	for j := range instr {
		if instr[j].Type != model.InstructionWaypointReached {
			continue
		}
		if wi >= len(vias) {
			break
		}
		instr[j].Time = vias[wi].ChargeDuration
		instr[j].Text = vias[wi].ChargeText
		wi++
		if wi >= resolved {
			break
		}
	}

	instr[0].Text = vias[0].ChargeText
	instr[len(instr)-1].Text = vias[len(vias)-1].ChargeText

	legs := resp.Routes[0].Legs
	wi = 1
	for j := 1; j < len(instr); j++ {
		if j-1 >= len(legs) {
			return interpretationError("instruction %d (%s) has no matching leg, route has %d legs",
				j, instr[j].Type, len(legs))
		}
		instr[j].Distance = legs[j-1].Distance
		wi++
		if wi >= resolved {
			break
		}
	}

	return nil
}
