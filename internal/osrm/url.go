package osrm

import (
	"net/url"
	"strconv"
	"strings"

	"evroute/internal/model"
)

// BuildRouteURL renders the backend request for the given waypoints. Waypoints must be placed;
// no validation happens here.
func (c *Client) BuildRouteURL(waypoints []model.Waypoint, opts RouteOptions, hints HintCache) string {
	locs := make([]string, len(waypoints))
	tokens := make([]string, len(waypoints))
	for i, wp := range waypoints {
		locs[i] = formatCoord(wp.LatLng.Lng) + "," + formatCoord(wp.LatLng.Lat)
		tokens[i] = hints.Lookup(*wp.LatLng)
	}

	var query []string
	switch {
	case !opts.GeometryOnly:
		query = append(query, "overview=false")
	case !opts.SimplifyGeometry:
		query = append(query, "overview=full")
	}
	if opts.ComputeAlternatives {
		query = append(query, "alternatives=true")
	}
	query = append(query, "steps=true")
	if c.cfg.UseHints {
		query = append(query, "hints="+strings.Join(tokens, ";"))
	}
	if opts.AllowUTurns {
		query = append(query, "continue_straight=false")
	}
	if len(opts.RequestParameters) > 0 {
		extra := url.Values{}
		for k, v := range opts.RequestParameters {
			extra.Set(k, v)
		}
		query = append(query, extra.Encode())
	}

	return strings.TrimRight(c.cfg.ServiceURL, "/") + "/" + c.cfg.Profile + "/" +
		strings.Join(locs, ";") + "?" + strings.Join(query, "&")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
