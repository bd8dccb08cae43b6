package plan

import (
	"encoding/json"
	"testing"

	"evroute/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(wps []model.Waypoint) []string {
	out := make([]string, len(wps))
	for i, wp := range wps {
		out[i] = wp.Name
	}
	return out
}

func TestNewPadsToTwoWaypoints(t *testing.T) {
	p := New()
	wps := p.Waypoints()
	require.Len(t, wps, 2)
	assert.False(t, p.IsReady())

	p = New(model.NewWaypoint(1, 2, "a"))
	assert.Equal(t, []string{"a", ""}, names(p.Waypoints()))
}

func TestSpliceWaypoints(t *testing.T) {
	p := New(
		model.NewWaypoint(1, 1, "a"),
		model.NewWaypoint(2, 2, "b"),
		model.NewWaypoint(3, 3, "c"),
	)
	assert.True(t, p.IsReady())

	removed := p.SpliceWaypoints(1, 1, model.NewWaypoint(4, 4, "x"), model.NewWaypoint(5, 5, "y"))
	assert.Equal(t, []string{"b"}, names(removed))
	assert.Equal(t, []string{"a", "x", "y", "c"}, names(p.Waypoints()))

	removed = p.SpliceWaypoints(0, 10)
	assert.Len(t, removed, 4)
	assert.Len(t, p.Waypoints(), 2, "list never shrinks below two")
	assert.False(t, p.IsReady())

	p.SpliceWaypoints(-3, 0, model.NewWaypoint(6, 6, "z"))
	assert.Equal(t, []string{"z", "", ""}, names(p.Waypoints()))
}

func TestWaypointsAreCopies(t *testing.T) {
	p := New(model.NewWaypoint(1, 1, "a"), model.NewWaypoint(2, 2, "b"))
	wps := p.Waypoints()
	wps[0].Name = "changed"
	wps[0].LatLng.Lat = 99

	got := p.Waypoints()
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, 1.0, got[0].LatLng.Lat)
}

func TestReverseWaypointsNotifies(t *testing.T) {
	p := New(model.NewWaypoint(1, 1, "a"), model.NewWaypoint(2, 2, "b"), model.NewWaypoint(3, 3, "c"))

	var seen [][]string
	p.OnWaypointsChanged(func(wps []model.Waypoint) {
		seen = append(seen, names(wps))
	})

	p.ReverseWaypoints()
	assert.Equal(t, []string{"c", "b", "a"}, names(p.Waypoints()))
	require.Len(t, seen, 1)
	assert.Equal(t, []string{"c", "b", "a"}, seen[0])

	p.SetWaypoints([]model.Waypoint{model.NewWaypoint(0, 0, "only")})
	require.Len(t, seen, 2)
	assert.Equal(t, []string{"only", ""}, seen[1])
}

func TestTripMetadata(t *testing.T) {
	p := New()
	assert.Equal(t, "", p.TripID())

	p.SetTripMetadata(json.RawMessage(`{"req_id":"1700000000000-abc123","charging_stops":2}`))
	assert.Equal(t, "1700000000000-abc123", p.TripID())

	assert.Equal(t, "", TripIDFromMetadata(json.RawMessage(`[1,2]`)))
}

func TestUpdateEV(t *testing.T) {
	p := New()
	require.NoError(t, p.UpdateEV(func(ev *EVParams) error {
		ev.SetDeparture(60)
		return nil
	}))
	assert.Equal(t, 60, p.EV().DepartureBatteryPct)

	err := p.UpdateEV(func(ev *EVParams) error {
		ev.SetDeparture(10)
		return ev.SetModel("trabant")
	})
	assert.ErrorIs(t, err, ErrUnknownEVModel)
	assert.Equal(t, 60, p.EV().DepartureBatteryPct, "failed updates are discarded")
}
