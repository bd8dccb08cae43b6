package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"evroute/internal/model"

	"go.uber.org/zap"
)

// Result is the single outcome of a Route call.
type Result struct {
	Routes []*model.Route
	Hints  HintCache
	Err    error
}

// Client talks to an OSRM v5 (API v1) route service.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	interpreter *Interpreter
	log         *zap.Logger
}

// NewClient creates a client. Zero fields of cfg fall back to DefaultConfig.
func NewClient(cfg Config, log *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: cfg.HTTPClient,
		interpreter: &Interpreter{
			PolylinePrecision:   cfg.PolylinePrecision,
			MetadataOnAllRoutes: cfg.MetadataOnAllRoutes,
		},
		log: log.Named("osrm"),
	}
}

// ServiceURL returns the configured route service base URL.
func (c *Client) ServiceURL() string {
	return c.cfg.ServiceURL
}

// Route requests routes through the given waypoints. The returned channel receives exactly
// one Result and is then closed. hints is the snapshot returned by the previous successful
// call (or the zero HintCache).
func (c *Client) Route(ctx context.Context, waypoints []model.Waypoint, opts RouteOptions, hints HintCache) <-chan Result {
	results := make(chan Result, 1)

	// The waypoints may be modified by the caller while the request is in flight.
	wps := model.CopyWaypoints(waypoints)

	go func() {
		defer close(results)
		results <- c.route(ctx, wps, opts, hints)
	}()

	return results
}

// RouteSync is Route for callers that want to block.
func (c *Client) RouteSync(ctx context.Context, waypoints []model.Waypoint, opts RouteOptions, hints HintCache) ([]*model.Route, HintCache, error) {
	res := <-c.Route(ctx, waypoints, opts, hints)
	return res.Routes, res.Hints, res.Err
}

func (c *Client) route(ctx context.Context, wps []model.Waypoint, opts RouteOptions, hints HintCache) Result {
	if len(wps) < 2 {
		return Result{Err: ErrWaypointsNotReady}
	}
	for _, wp := range wps {
		if !wp.IsPlaced() {
			return Result{Err: ErrWaypointsNotReady}
		}
	}

	url := c.BuildRouteURL(wps, opts, hints)
	c.log.Debug("requesting route", zap.String("url", url), zap.Int("waypoints", len(wps)))

	ctx, cancel := context.WithTimeoutCause(ctx, c.cfg.Timeout, errTimedOut)
	defer cancel()

	body, err := c.fetch(ctx, url)
	if err != nil {
		return Result{Err: err}
	}

	routes, next, err := c.interpreter.InterpretJSON(body, wps, opts)
	if err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			rerr.URL = url
		}
		return Result{Err: err}
	}

	c.log.Debug("route done",
		zap.Int("routes", len(routes)),
		zap.Int("hints", next.Len()),
	)
	return Result{Routes: routes, Hints: next}
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "HTTP request failed: " + err.Error(), URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

		var errBody struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Message != "" {
			message = errBody.Message
		}

		return nil, &Error{
			Kind:       KindTransport,
			Code:       errBody.Code,
			Message:    "HTTP request failed: " + message,
			HTTPStatus: resp.StatusCode,
			URL:        url,
		}
	}

	return body, nil
}

// transportError distinguishes the client's own timeout from other transport failures,
// including cancellation by the caller.
func (c *Client) transportError(ctx context.Context, url string, err error) *Error {
	if errors.Is(context.Cause(ctx), errTimedOut) {
		c.log.Warn("route request timed out", zap.String("url", url), zap.Duration("timeout", c.cfg.Timeout))
		return &Error{Kind: KindTimeout, Message: "OSRM request timed out.", URL: url, Err: err}
	}
	return &Error{Kind: KindTransport, Message: "HTTP request failed: " + err.Error(), URL: url, Err: err}
}
