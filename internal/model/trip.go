package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Trip is one successful planning request, identified by its request id.
type Trip struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Waypoints []Waypoint        `json:"waypoints"`
	EVParams  map[string]string `json:"ev_params"`
	Routes    []*Route          `json:"routes,omitempty"`
	Metadata  json.RawMessage   `json:"metadata,omitempty"`
	Score     *int              `json:"score,omitempty"`

	// Summary is the stored first-route summary of a trip whose routes were not loaded.
	Summary *TripSummary `json:"summary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripSummary is what PostgreSQL keeps of the first route.
type TripSummary struct {
	RouteName     string  `json:"route_name"`
	TotalDistance float64 `json:"total_distance"`
	TotalTime     float64 `json:"total_time"`
	ChargingStops int     `json:"charging_stops"`
}

// RouteSummary summarizes the first route, or returns the stored summary when the routes
// are not loaded.
func (t *Trip) RouteSummary() TripSummary {
	if len(t.Routes) == 0 {
		if t.Summary != nil {
			return *t.Summary
		}
		return TripSummary{}
	}
	r := t.Routes[0]
	return TripSummary{
		RouteName:     r.Name,
		TotalDistance: r.Summary.TotalDistance,
		TotalTime:     r.Summary.TotalTime,
		ChargingStops: t.ChargingStops(),
	}
}

// ChargingStops counts the backend-inserted stops of the first route.
func (t *Trip) ChargingStops() int {
	if len(t.Routes) == 0 {
		if t.Summary != nil {
			return t.Summary.ChargingStops
		}
		return 0
	}
	resolved := len(t.Routes[0].Waypoints)
	input := len(t.Routes[0].InputWaypoints)
	if resolved <= input {
		return 0
	}
	return resolved - input
}

// TripPG is the GORM model for the Trip entity. Routes are not stored; the summary of the
// first route is kept instead.
type TripPG struct {
	ID            string `gorm:"primaryKey;size:64"`
	SessionID     string `gorm:"size:64;index"`
	Waypoints     string `gorm:"type:text"`
	EVParams      string `gorm:"type:text"`
	RouteName     string `gorm:"size:512"`
	TotalDistance float64
	TotalTime     float64
	ChargingStops int
	Metadata      string `gorm:"type:text"`
	Score         *int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ToPG converts the trip to its PostgreSQL row.
func (t *Trip) ToPG() (*TripPG, error) {
	wps, err := json.Marshal(t.Waypoints)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(t.EVParams)
	if err != nil {
		return nil, err
	}

	summary := t.RouteSummary()
	return &TripPG{
		ID:            t.ID,
		SessionID:     t.SessionID,
		Waypoints:     string(wps),
		EVParams:      string(params),
		RouteName:     summary.RouteName,
		TotalDistance: summary.TotalDistance,
		TotalTime:     summary.TotalTime,
		ChargingStops: summary.ChargingStops,
		Metadata:      string(t.Metadata),
		Score:         t.Score,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}, nil
}

// FromPG rebuilds a trip from its row. Routes are not restored; their summary is.
func FromPG(row *TripPG) (*Trip, error) {
	t := &Trip{
		ID:        row.ID,
		SessionID: row.SessionID,
		Score:     row.Score,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	t.Summary = &TripSummary{
		RouteName:     row.RouteName,
		TotalDistance: row.TotalDistance,
		TotalTime:     row.TotalTime,
		ChargingStops: row.ChargingStops,
	}
	if row.Waypoints != "" {
		if err := json.Unmarshal([]byte(row.Waypoints), &t.Waypoints); err != nil {
			return nil, err
		}
	}
	if row.EVParams != "" {
		if err := json.Unmarshal([]byte(row.EVParams), &t.EVParams); err != nil {
			return nil, err
		}
	}
	if row.Metadata != "" {
		t.Metadata = json.RawMessage(row.Metadata)
	}
	return t, nil
}
