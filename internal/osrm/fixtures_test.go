package osrm

import (
	"encoding/json"

	"evroute/internal/model"
	"evroute/internal/util"
)

func step(typ, mod string, bearing float64, points ...[2]float64) RawStep {
	return RawStep{
		Geometry: util.EncodePolyline(points, 5),
		Maneuver: RawManeuver{Type: typ, Modifier: mod, BearingAfter: bearing},
		Name:     "Road " + typ,
		Mode:     "driving",
	}
}

func via(lat, lng float64, name, hint string, chargeDuration float64, chargeText string) RawWaypoint {
	return RawWaypoint{
		Location:       []float64{lng, lat},
		Name:           name,
		Hint:           hint,
		ChargeDuration: chargeDuration,
		ChargeText:     chargeText,
	}
}

func inputWaypoints() []model.Waypoint {
	origin := model.NewWaypoint(52.5170, 13.3888, "Berlin")
	origin.Options = map[string]any{"allowUTurn": true}
	dest := model.NewWaypoint(48.1351, 11.5820, "Munich")
	dest.Options = map[string]any{"allowUTurn": false}
	return []model.Waypoint{origin, dest}
}

// directResponse is a single-leg trip without charging stops: 7 coordinates.
func directResponse() *RawRouteResponse {
	return &RawRouteResponse{
		Code: "Ok",
		Routes: []RawRoute{{
			Distance: 584000,
			Duration: 20000,
			Legs: []RawLeg{{
				Summary:  "a9, a10",
				Distance: 584000,
				Steps: []RawStep{
					step("depart", "", 90, [2]float64{52.5171, 13.3887}, [2]float64{52.5, 13.4}, [2]float64{52.4, 13.3}),
					step("turn", "left", 180, [2]float64{52.4, 13.3}, [2]float64{50.0, 12.0}),
					step("arrive", "", 0, [2]float64{48.1352, 11.5821}, [2]float64{48.1352, 11.5821}),
				},
			}},
		}},
		Waypoints: []RawWaypoint{
			via(52.5171, 13.3887, "Unter den Linden", "hint-a", 0, "start 80%"),
			via(48.1352, 11.5821, "Marienplatz", "hint-b", 0, "arrive 20%"),
		},
	}
}

// chargingResponse is a two-leg trip where the backend inserted one charging stop:
// 10 coordinates, 3 resolved waypoints.
func chargingResponse() *RawRouteResponse {
	return &RawRouteResponse{
		Code: "Ok",
		Routes: []RawRoute{{
			Distance: 600000,
			Duration: 24000,
			Legs: []RawLeg{
				{
					Summary:  "a9",
					Distance: 310000,
					Steps: []RawStep{
						step("depart", "", 180, [2]float64{52.5171, 13.3887}, [2]float64{52.4, 13.3}),
						step("off ramp", "slight right", 200, [2]float64{52.4, 13.3}, [2]float64{50.3, 12.2}),
						step("arrive", "", 0, [2]float64{50.3, 12.2}, [2]float64{50.3, 12.2}),
					},
				},
				{
					Summary:  "a9",
					Distance: 290000,
					Steps: []RawStep{
						step("depart", "", 170, [2]float64{50.3, 12.2}, [2]float64{49.0, 11.8}),
						step("arrive", "", 0, [2]float64{48.1352, 11.5821}, [2]float64{48.1352, 11.5821}),
					},
				},
			},
		}},
		Waypoints: []RawWaypoint{
			via(52.5171, 13.3887, "Unter den Linden", "hint-a", 0, "depart 90%"),
			via(50.3, 12.2, "Supercharger Hof", "hint-s", 1800, "charge 15% -> 80%"),
			via(48.1352, 11.5821, "Marienplatz", "hint-b", 0, "arrive 22%"),
		},
		Metadata: json.RawMessage(`{"req_id":"1700000000000-abcdef","charging_stops":1}`),
	}
}
