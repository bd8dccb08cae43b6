package osrm

import (
	"net/http"
	"time"

	"evroute/internal/util"
)

const (
	DefaultServiceURL = "https://router.project-osrm.org/route/v1"
	DefaultProfile    = "driving"
	DefaultTimeout    = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	ServiceURL        string
	Profile           string
	Timeout           time.Duration
	PolylinePrecision int
	UseHints          bool

	// MetadataOnAllRoutes attaches the trip metadata to every alternative instead of only
	// the last one.
	MetadataOnAllRoutes bool

	HTTPClient *http.Client
}

// DefaultConfig returns the configuration of the public demo server.
func DefaultConfig() Config {
	return Config{
		ServiceURL:        DefaultServiceURL,
		Profile:           DefaultProfile,
		Timeout:           DefaultTimeout,
		PolylinePrecision: util.DefaultPolylinePrecision,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ServiceURL == "" {
		c.ServiceURL = d.ServiceURL
	}
	if c.Profile == "" {
		c.Profile = d.Profile
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.PolylinePrecision <= 0 {
		c.PolylinePrecision = d.PolylinePrecision
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return c
}

// RouteOptions are the per-request routing options. Steps are always requested since
// instructions are built from them.
type RouteOptions struct {
	ComputeAlternatives bool `json:"alternatives"`
	GeometryOnly        bool `json:"geometry_only"`
	SimplifyGeometry    bool `json:"simplify_geometry"`
	AllowUTurns         bool `json:"allow_uturns"`

	// RequestParameters are appended verbatim to the query string, after every other parameter.
	RequestParameters map[string]string `json:"request_parameters,omitempty"`
}

// isSimplified reports whether the route geometry is reconstructed from steps rather than
// requested as a full overview.
func (o RouteOptions) isSimplified() bool {
	return !o.GeometryOnly || o.SimplifyGeometry
}
