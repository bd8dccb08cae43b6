package plan

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrUnknownEVModel = errors.New("unknown EV model")

// Range is the accepted span of a battery percentage and its default.
type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

func (r Range) clamp(v int) int {
	return min(max(v, r.Min), r.Max)
}

var (
	DepartureRange   = Range{Min: 1, Max: 100, Default: 100}
	StartChargeRange = Range{Min: 15, Max: 70, Default: 15}
	StopChargeRange  = Range{Min: 50, Max: 100, Default: 80}
	ArrivalRange     = Range{Min: 15, Max: 70, Default: 15}
)

// EVModel is a vehicle the routing backend has a consumption model for.
type EVModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var models = []EVModel{
	{ID: "tesla_model3", Name: "Tesla Model 3"},
	{ID: "tesla_models2", Name: "Tesla Model S2"},
	{ID: "ford_mach-e", Name: "Ford Mach-E"},
}

// Models returns the supported EV models, default first.
func Models() []EVModel {
	out := make([]EVModel, len(models))
	copy(out, models)
	return out
}

// DefaultModel is the model used when none is chosen.
func DefaultModel() string {
	return models[0].ID
}

// Request parameter names understood by the EV routing backend.
const (
	ParamDeparture   = "departure_battery_pct"
	ParamStartCharge = "preferred_start_charge_battery_pct"
	ParamStopCharge  = "preferred_stop_charge_battery_pct"
	ParamArrival     = "preferred_arrival_battery_pct"
	ParamModel       = "ev_model"
	ParamRequestID   = "req_id"
)

// EVParams are the battery preferences of a trip, all in percent.
type EVParams struct {
	DepartureBatteryPct int    `json:"departure_battery_pct"`
	StartChargePct      int    `json:"preferred_start_charge_battery_pct"`
	StopChargePct       int    `json:"preferred_stop_charge_battery_pct"`
	ArrivalBatteryPct   int    `json:"preferred_arrival_battery_pct"`
	Model               string `json:"ev_model"`
}

func DefaultEVParams() EVParams {
	return EVParams{
		DepartureBatteryPct: DepartureRange.Default,
		StartChargePct:      StartChargeRange.Default,
		StopChargePct:       StopChargeRange.Default,
		ArrivalBatteryPct:   ArrivalRange.Default,
		Model:               DefaultModel(),
	}
}

func (p *EVParams) SetDeparture(pct int) {
	p.DepartureBatteryPct = DepartureRange.clamp(pct)
}

// SetStartCharge sets the charge level at which to start charging. A value at or above the stop
// level resets the stop level to its default.
func (p *EVParams) SetStartCharge(pct int) {
	p.StartChargePct = StartChargeRange.clamp(pct)
	if p.StartChargePct >= p.StopChargePct {
		p.StopChargePct = StopChargeRange.Default
	}
}

// SetStopCharge sets the charge level at which to stop charging. A value at or below the start
// level resets the start level to its default.
func (p *EVParams) SetStopCharge(pct int) {
	p.StopChargePct = StopChargeRange.clamp(pct)
	if p.StopChargePct <= p.StartChargePct {
		p.StartChargePct = StartChargeRange.Default
	}
}

func (p *EVParams) SetArrival(pct int) {
	p.ArrivalBatteryPct = ArrivalRange.clamp(pct)
}

func (p *EVParams) SetModel(id string) error {
	for _, m := range models {
		if m.ID == id {
			p.Model = id
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownEVModel, id)
}

// Apply sets every non-zero field of in, in slider order, starting from p.
func (p *EVParams) Apply(in EVParams) error {
	if in.DepartureBatteryPct != 0 {
		p.SetDeparture(in.DepartureBatteryPct)
	}
	if in.StartChargePct != 0 {
		p.SetStartCharge(in.StartChargePct)
	}
	if in.StopChargePct != 0 {
		p.SetStopCharge(in.StopChargePct)
	}
	if in.ArrivalBatteryPct != 0 {
		p.SetArrival(in.ArrivalBatteryPct)
	}
	if in.Model != "" {
		return p.SetModel(in.Model)
	}
	return nil
}

// Query renders the parameters as backend request parameters tagged with reqID.
func (p EVParams) Query(reqID string) map[string]string {
	return map[string]string{
		ParamDeparture:   strconv.Itoa(p.DepartureBatteryPct),
		ParamStartCharge: strconv.Itoa(p.StartChargePct),
		ParamStopCharge:  strconv.Itoa(p.StopChargePct),
		ParamArrival:     strconv.Itoa(p.ArrivalBatteryPct),
		ParamModel:       p.Model,
		ParamRequestID:   reqID,
	}
}
