package plan

import (
	"encoding/json"
	"slices"
	"sync"

	"evroute/internal/model"
)

// Plan holds the editable state of a trip: the waypoint list, the EV preferences and the
// metadata of the last planned trip. It always holds at least two waypoints.
type Plan struct {
	mu        sync.RWMutex
	waypoints []model.Waypoint
	ev        EVParams
	metadata  json.RawMessage
	listeners []func([]model.Waypoint)
}

// New creates a plan with the given waypoints and default EV parameters.
func New(waypoints ...model.Waypoint) *Plan {
	p := &Plan{ev: DefaultEVParams()}
	p.waypoints = padWaypoints(model.CopyWaypoints(waypoints))
	return p
}

func padWaypoints(wps []model.Waypoint) []model.Waypoint {
	for len(wps) < 2 {
		wps = append(wps, model.Waypoint{})
	}
	return wps
}

// OnWaypointsChanged registers fn to be called with a copy of the waypoints after every change.
func (p *Plan) OnWaypointsChanged(fn func([]model.Waypoint)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Waypoints returns a copy of the waypoint list.
func (p *Plan) Waypoints() []model.Waypoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return model.CopyWaypoints(p.waypoints)
}

// SetWaypoints replaces the whole list and returns the removed waypoints.
func (p *Plan) SetWaypoints(waypoints []model.Waypoint) []model.Waypoint {
	p.mu.RLock()
	n := len(p.waypoints)
	p.mu.RUnlock()
	return p.SpliceWaypoints(0, n, waypoints...)
}

// SpliceWaypoints removes deleteCount waypoints starting at index, inserts the given ones in
// their place and returns the removed waypoints. Out of range arguments are clamped. The list is
// padded with unplaced waypoints so it never shrinks below two.
func (p *Plan) SpliceWaypoints(index, deleteCount int, waypoints ...model.Waypoint) []model.Waypoint {
	p.mu.Lock()

	index = min(max(index, 0), len(p.waypoints))
	end := min(index+max(deleteCount, 0), len(p.waypoints))

	removed := model.CopyWaypoints(p.waypoints[index:end])
	p.waypoints = slices.Replace(p.waypoints, index, end, model.CopyWaypoints(waypoints)...)
	p.waypoints = padWaypoints(p.waypoints)

	snapshot := model.CopyWaypoints(p.waypoints)
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(model.CopyWaypoints(snapshot))
	}
	return removed
}

// ReverseWaypoints reverses the waypoint order.
func (p *Plan) ReverseWaypoints() {
	wps := p.Waypoints()
	slices.Reverse(wps)
	p.SetWaypoints(wps)
}

// IsReady reports whether every waypoint has been placed.
func (p *Plan) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, wp := range p.waypoints {
		if !wp.IsPlaced() {
			return false
		}
	}
	return true
}

// EV returns the current EV parameters.
func (p *Plan) EV() EVParams {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ev
}

// UpdateEV applies fn to the EV parameters under the plan's lock.
func (p *Plan) UpdateEV(fn func(*EVParams) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev := p.ev
	if err := fn(&ev); err != nil {
		return err
	}
	p.ev = ev
	return nil
}

// SetTripMetadata stores the metadata of the last planned trip.
func (p *Plan) SetTripMetadata(metadata json.RawMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metadata = slices.Clone(metadata)
}

// TripMetadata returns the metadata of the last planned trip, or nil.
func (p *Plan) TripMetadata() json.RawMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.metadata)
}

// TripID returns the req_id of the last planned trip, or "" when there is none.
func (p *Plan) TripID() string {
	return TripIDFromMetadata(p.TripMetadata())
}

// TripIDFromMetadata extracts req_id from backend trip metadata.
func TripIDFromMetadata(metadata json.RawMessage) string {
	if len(metadata) == 0 {
		return ""
	}
	var m struct {
		ReqID string `json:"req_id"`
	}
	if err := json.Unmarshal(metadata, &m); err != nil {
		return ""
	}
	return m.ReqID
}
