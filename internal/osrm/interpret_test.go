package osrm

import (
	"encoding/json"
	"testing"

	"evroute/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterpreter() *Interpreter {
	return &Interpreter{PolylinePrecision: 5}
}

func TestInterpretDirectRoute(t *testing.T) {
	input := inputWaypoints()

	routes, hints, err := newInterpreter().Interpret(directResponse(), input, RouteOptions{})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Equal(t, "A9, a10", r.Name)
	assert.Equal(t, 584000.0, r.Summary.TotalDistance)
	assert.Equal(t, 20000.0, r.Summary.TotalTime)
	assert.Len(t, r.Coordinates, 7)
	assert.Equal(t, []int{0, 5}, r.WaypointIndices)
	assert.True(t, r.Properties.IsSimplified)

	require.Len(t, r.Instructions, 2)
	head, dest := r.Instructions[0], r.Instructions[1]
	assert.Equal(t, model.InstructionHead, head.Type)
	assert.Equal(t, model.East, head.Direction)
	assert.Equal(t, 0, head.Index)
	assert.Equal(t, "start 80%", head.Text)
	assert.Equal(t, "Road depart", head.Road)
	assert.Equal(t, "driving", head.Mode)

	assert.Equal(t, model.InstructionDestinationReached, dest.Type)
	assert.Equal(t, 5, dest.Index)
	assert.Equal(t, "arrive 20%", dest.Text)
	assert.Equal(t, 584000.0, dest.Distance)

	require.Len(t, r.Waypoints, 2)
	assert.Equal(t, "Berlin", r.Waypoints[0].Name)
	assert.Equal(t, "Munich", r.Waypoints[1].Name)
	assert.Equal(t, model.LatLng{Lat: 52.5171, Lng: 13.3887}, *r.Waypoints[0].LatLng)
	assert.Equal(t, false, r.Waypoints[1].Options["allowUTurn"])
	assert.Equal(t, input, r.InputWaypoints)

	assert.Equal(t, 2, hints.Len())
	assert.Equal(t, "hint-a", hints.Lookup(*input[0].LatLng))
	assert.Equal(t, "hint-b", hints.Lookup(*input[1].LatLng))
}

func TestInterpretChargingStops(t *testing.T) {
	input := inputWaypoints()

	routes, hints, err := newInterpreter().Interpret(chargingResponse(), input, RouteOptions{})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Equal(t, "A9, A9", r.Name)
	assert.Len(t, r.Coordinates, 10)
	assert.Equal(t, []int{0, 4, 8}, r.WaypointIndices)

	require.Len(t, r.Instructions, 3)
	assert.Equal(t, model.InstructionHead, r.Instructions[0].Type)
	assert.Equal(t, "depart 90%", r.Instructions[0].Text)
	assert.Zero(t, r.Instructions[0].Distance)

	stop := r.Instructions[1]
	assert.Equal(t, model.InstructionWaypointReached, stop.Type)
	assert.Equal(t, 4, stop.Index)
	assert.Equal(t, 1800.0, stop.Time)
	assert.Equal(t, "charge 15% -> 80%", stop.Text)
	assert.Equal(t, 310000.0, stop.Distance)

	dest := r.Instructions[2]
	assert.Equal(t, model.InstructionDestinationReached, dest.Type)
	assert.Equal(t, 8, dest.Index)
	assert.Equal(t, "arrive 22%", dest.Text)
	assert.Equal(t, 290000.0, dest.Distance)

	require.Len(t, r.Waypoints, 3)
	assert.Equal(t, "Berlin", r.Waypoints[0].Name)
	assert.Equal(t, "Supercharger Hof", r.Waypoints[1].Name)
	assert.Equal(t, "Munich", r.Waypoints[2].Name)
	for _, wp := range r.Waypoints {
		assert.Equal(t, true, wp.Options["allowUTurn"], "charging trips share the origin's options")
	}
	assert.Len(t, r.InputWaypoints, 2)

	assert.JSONEq(t, `{"req_id":"1700000000000-abcdef","charging_stops":1}`, string(r.Metadata))
	assert.Zero(t, hints.Len(), "hints are dropped when the backend added waypoints")
}

func TestInterpretInstructionIndexesWithinCoordinates(t *testing.T) {
	for name, resp := range map[string]*RawRouteResponse{
		"direct":   directResponse(),
		"charging": chargingResponse(),
	} {
		t.Run(name, func(t *testing.T) {
			routes, _, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
			require.NoError(t, err)
			for _, r := range routes {
				for _, in := range r.Instructions {
					assert.GreaterOrEqual(t, in.Index, 0)
					assert.Less(t, in.Index, len(r.Coordinates))
				}
				for _, idx := range r.WaypointIndices {
					assert.Less(t, idx, len(r.Coordinates))
				}
			}
		})
	}
}

func TestInterpretAlternativesMetadata(t *testing.T) {
	resp := chargingResponse()
	resp.Routes = append(resp.Routes, resp.Routes[0])

	routes, _, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{ComputeAlternatives: true})
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Nil(t, routes[0].Metadata)
	require.NotNil(t, routes[1].Metadata)

	want := string(resp.Metadata)
	resp.Metadata[0] = 'x'
	assert.JSONEq(t, want, string(routes[1].Metadata), "routes do not share the response buffer")
	resp.Metadata[0] = '{'

	in := &Interpreter{PolylinePrecision: 5, MetadataOnAllRoutes: true}
	routes, _, err = in.Interpret(resp, inputWaypoints(), RouteOptions{ComputeAlternatives: true})
	require.NoError(t, err)
	for _, r := range routes {
		assert.JSONEq(t, string(resp.Metadata), string(r.Metadata))
	}
}

func TestInterpretNullMetadataIgnored(t *testing.T) {
	resp := directResponse()
	resp.Metadata = json.RawMessage("null")

	routes, _, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	require.NoError(t, err)
	assert.Nil(t, routes[0].Metadata)
}

func TestInterpretBackendStatus(t *testing.T) {
	resp := &RawRouteResponse{Code: "NoRoute", Message: "Impossible route between points"}

	routes, hints, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	require.Error(t, err)
	assert.Nil(t, routes)
	assert.Zero(t, hints.Len())

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindBackendStatus, rerr.Kind)
	assert.Equal(t, "NoRoute", rerr.Code)
	assert.Equal(t, "Impossible route between points", rerr.Message)
}

func TestInterpretZeroRoutes(t *testing.T) {
	resp := directResponse()
	resp.Routes = nil

	routes, hints, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Equal(t, 2, hints.Len())
}

func TestInterpretGeometryWithoutSteps(t *testing.T) {
	resp := directResponse()
	resp.Routes[0].Geometry = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	resp.Routes[0].Legs[0].Steps = nil

	routes, _, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{GeometryOnly: true})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	r := routes[0]
	assert.Len(t, r.Coordinates, 3)
	assert.InDelta(t, 38.5, r.Coordinates[0].Lat, 1e-9)
	assert.InDelta(t, -120.2, r.Coordinates[0].Lng, 1e-9)
	assert.NotNil(t, r.Instructions)
	assert.Empty(t, r.Instructions)
	assert.Empty(t, r.WaypointIndices)
	assert.False(t, r.Properties.IsSimplified)
}

func TestInterpretLegMismatch(t *testing.T) {
	resp := chargingResponse()
	leg := resp.Routes[0].Legs[0]
	leg.Steps = []RawStep{
		step("depart", "", 0, [2]float64{52.5, 13.4}, [2]float64{52.4, 13.3}),
		step("arrive", "", 0, [2]float64{52.4, 13.3}),
		step("arrive", "", 0, [2]float64{48.1, 11.5}),
	}
	resp.Routes[0].Legs = []RawLeg{leg}

	_, _, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInterpretation))
}

func TestInterpretRejectsBadInput(t *testing.T) {
	resp := directResponse()
	resp.Routes[0].Legs[0].Steps[1].Geometry = "_p~iF~ps|U_"
	_, _, err := newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	assert.True(t, IsKind(err, KindInterpretation))

	resp = directResponse()
	resp.Routes[0].Legs = nil
	_, _, err = newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	assert.True(t, IsKind(err, KindInterpretation))

	resp = directResponse()
	resp.Waypoints[1].Location = []float64{11.5}
	_, _, err = newInterpreter().Interpret(resp, inputWaypoints(), RouteOptions{})
	assert.True(t, IsKind(err, KindInterpretation))
}

func TestInterpretJSON(t *testing.T) {
	body, err := json.Marshal(chargingResponse())
	require.NoError(t, err)

	routes, _, err := newInterpreter().InterpretJSON(body, inputWaypoints(), RouteOptions{})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 1800.0, routes[0].Instructions[1].Time)

	_, _, err = newInterpreter().InterpretJSON([]byte(`{"code":`), inputWaypoints(), RouteOptions{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindParse))
	assert.Contains(t, err.Error(), "Error parsing OSRM response")
}
