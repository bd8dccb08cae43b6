package trip

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"evroute/internal/model"
	"evroute/internal/osrm"
	"evroute/internal/plan"
	pg "evroute/internal/postgres"
	redis_client "evroute/internal/redis"
	"evroute/internal/service/storage"
	"evroute/internal/util"

	"go.uber.org/zap"
)

var (
	ErrTripNotFound   = errors.New("trip not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// Router computes routes. *osrm.Client implements it.
type Router interface {
	RouteSync(ctx context.Context, waypoints []model.Waypoint, opts osrm.RouteOptions, hints osrm.HintCache) ([]*model.Route, osrm.HintCache, error)
}

// TripCache is the short-lived trip store. Misses are reported as redis.ErrTripNotCached.
type TripCache interface {
	SaveTrips(ctx context.Context, trips []*model.Trip) error
	GetTrip(ctx context.Context, id string) (*model.Trip, error)
	LoadAll(ctx context.Context) (map[string]*model.Trip, error)
}

// TripRepository is the durable trip store. Misses are reported as postgres.ErrTripNotStored.
type TripRepository interface {
	SaveTrips(ctx context.Context, trips []*model.Trip) (int, error)
	GetTrip(ctx context.Context, id string) (*model.Trip, error)
}

// FeedbackSink receives trip scores.
type FeedbackSink interface {
	Submit(ctx context.Context, tripID string, good bool) error
}

// PlanRequest is one trip planning request of a session.
type PlanRequest struct {
	SessionID string            `json:"session_id"`
	Waypoints []model.Waypoint  `json:"waypoints"`
	EV        plan.EVParams     `json:"ev"`
	Options   osrm.RouteOptions `json:"options"`
}

// TripService plans trips and keeps them in memory, flushing them to Redis and PostgreSQL
// from the persistence workers.
type TripService struct {
	router   Router
	sessions storage.Storage[string, osrm.HintCache]
	trips    storage.Storage[string, *model.Trip]
	cache    TripCache
	repo     TripRepository
	sinks    []FeedbackSink
	log      *zap.Logger

	snapWarnDistance float64
	ttl              time.Duration
	now              func() time.Time
}

type Option func(*TripService)

func WithCache(c TripCache) Option {
	return func(s *TripService) { s.cache = c }
}

func WithRepository(r TripRepository) Option {
	return func(s *TripService) { s.repo = r }
}

func WithFeedbackSinks(sinks ...FeedbackSink) Option {
	return func(s *TripService) { s.sinks = append(s.sinks, sinks...) }
}

// WithSnapWarnDistance sets the distance in meters above which a snapped origin or
// destination is logged. 0 disables the check.
func WithSnapWarnDistance(meters float64) Option {
	return func(s *TripService) { s.snapWarnDistance = meters }
}

// WithTTL sets how long trips and session hints stay in memory after their last update.
func WithTTL(ttl time.Duration) Option {
	return func(s *TripService) { s.ttl = ttl }
}

func NewTripService(router Router, log *zap.Logger, opts ...Option) *TripService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &TripService{
		router: router,
		log:    log.Named("trip"),
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
	clock := func() time.Time { return s.now() }
	s.sessions = storage.NewMemoryStorageWithClock[string, osrm.HintCache](clock)
	s.trips = storage.NewMemoryStorageWithClock[string, *model.Trip](clock)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitService loads the cached trips into memory so they survive a restart.
func (s *TripService) InitService(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	start := time.Now()
	trips, err := s.cache.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load cached trips: %w", err)
	}
	for id, trip := range trips {
		s.trips.SetClean(id, trip)
	}

	s.log.Info("trip service initialized",
		zap.Int("trips", len(trips)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// PlanTrip routes the request with the session's hint snapshot and records the trip.
func (s *TripService) PlanTrip(ctx context.Context, req PlanRequest) (*model.Trip, error) {
	if len(req.Waypoints) < 2 {
		return nil, fmt.Errorf("%w: at least two waypoints are required", ErrInvalidRequest)
	}
	p := plan.New(req.Waypoints...)
	if !p.IsReady() {
		return nil, fmt.Errorf("%w: every waypoint must be placed", ErrInvalidRequest)
	}
	if err := p.UpdateEV(func(ev *plan.EVParams) error { return ev.Apply(req.EV) }); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = util.ShortUUID()
	}
	now := s.now()
	reqID := util.NewRequestID(now)

	evQuery := p.EV().Query(reqID)
	opts := req.Options
	params := make(map[string]string, len(opts.RequestParameters)+len(evQuery))
	maps.Copy(params, opts.RequestParameters)
	maps.Copy(params, evQuery)
	opts.RequestParameters = params

	hints, _ := s.sessions.Get(sessionID)
	waypoints := p.Waypoints()

	routes, next, err := s.router.RouteSync(ctx, waypoints, opts, hints)
	if err != nil {
		s.log.Warn("routing failed",
			zap.String("session_id", sessionID),
			zap.String("req_id", reqID),
			zap.Error(err),
		)
		return nil, err
	}
	s.sessions.SetClean(sessionID, next)

	var metadata []byte
	for _, r := range routes {
		if len(r.Metadata) > 0 {
			metadata = r.Metadata
		}
	}
	p.SetTripMetadata(metadata)

	tripID := reqID
	if id := p.TripID(); id != "" && id != reqID {
		s.log.Debug("backend returned a different req_id", zap.String("sent", reqID), zap.String("got", id))
	}

	trip := &model.Trip{
		ID:        tripID,
		SessionID: sessionID,
		Waypoints: waypoints,
		EVParams:  evQuery,
		Routes:    routes,
		Metadata:  p.TripMetadata(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(routes) > 0 {
		s.warnSnapped(trip.ID, waypoints, routes[0].Waypoints)
	}
	s.store(trip)

	s.log.Info("trip planned",
		zap.String("trip_id", trip.ID),
		zap.String("session_id", sessionID),
		zap.Int("routes", len(routes)),
		zap.Int("charging_stops", trip.ChargingStops()),
	)
	return trip, nil
}

// store keeps the trip in memory. Trips are only marked dirty when a cache will pick them up.
func (s *TripService) store(trip *model.Trip) {
	if s.cache != nil {
		s.trips.Set(trip.ID, trip)
	} else {
		s.trips.SetClean(trip.ID, trip)
	}
}

func (s *TripService) warnSnapped(tripID string, input, resolved []model.Waypoint) {
	if s.snapWarnDistance <= 0 || len(input) == 0 || len(resolved) == 0 {
		return
	}
	pairs := [][2]model.Waypoint{
		{input[0], resolved[0]},
		{input[len(input)-1], resolved[len(resolved)-1]},
	}
	for i, pair := range pairs {
		in, out := pair[0].LatLng, pair[1].LatLng
		if in == nil || out == nil {
			continue
		}
		d := util.GreatCircleDistance(in.Lat, in.Lng, out.Lat, out.Lng)
		if d > s.snapWarnDistance {
			role := "origin"
			if i == 1 {
				role = "destination"
			}
			s.log.Warn("waypoint snapped far from input",
				zap.String("trip_id", tripID),
				zap.String("role", role),
				zap.Stringer("input", in),
				zap.Stringer("snapped", out),
				zap.Float64("distance_m", d),
			)
		}
	}
}

// GetTrip looks the trip up in memory, then the cache, then the repository.
func (s *TripService) GetTrip(ctx context.Context, id string) (*model.Trip, error) {
	if trip, ok := s.trips.Get(id); ok {
		return trip, nil
	}

	if s.cache != nil {
		trip, err := s.cache.GetTrip(ctx, id)
		switch {
		case err == nil:
			s.trips.SetClean(id, trip)
			return trip, nil
		case !errors.Is(err, redis_client.ErrTripNotCached):
			s.log.Warn("trip cache lookup failed", zap.String("trip_id", id), zap.Error(err))
		}
	}

	if s.repo != nil {
		trip, err := s.repo.GetTrip(ctx, id)
		switch {
		case err == nil:
			s.trips.SetClean(id, trip)
			return trip, nil
		case !errors.Is(err, pg.ErrTripNotStored):
			return nil, fmt.Errorf("load trip %s: %w", id, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrTripNotFound, id)
}

// SubmitFeedback records the trip score and forwards it to every feedback sink. Sink failures
// are logged; the score stays recorded.
func (s *TripService) SubmitFeedback(ctx context.Context, id string, good bool) (*model.Trip, error) {
	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	score := 0
	if good {
		score = 1
	}
	updated := *trip
	updated.Score = &score
	updated.UpdatedAt = s.now()
	s.store(&updated)

	for _, sink := range s.sinks {
		if err := sink.Submit(ctx, id, good); err != nil {
			s.log.Error("feedback sink failed",
				zap.String("trip_id", id),
				zap.String("sink", fmt.Sprintf("%T", sink)),
				zap.Error(err),
			)
		}
	}
	return &updated, nil
}

// SessionHints returns the hint snapshot of a session.
func (s *TripService) SessionHints(sessionID string) osrm.HintCache {
	hints, _ := s.sessions.Get(sessionID)
	return hints
}

// SaveDirtyTripsToRedis writes trips changed since the last call to the cache.
func (s *TripService) SaveDirtyTripsToRedis(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	dirty, versions := s.trips.DirtySnapshot()
	if len(dirty) == 0 {
		return nil
	}

	trips := make([]*model.Trip, 0, len(dirty))
	for _, trip := range dirty {
		trips = append(trips, trip)
	}

	if err := s.cache.SaveTrips(ctx, trips); err != nil {
		return err
	}
	// Trips rewritten while the save was in flight keep their flag for the next round.
	cleared := s.trips.ClearDirtyIfUnchanged(versions)

	s.log.Debug("saved trips to redis",
		zap.Int("count", len(trips)),
		zap.Int("still_dirty", len(trips)-cleared),
	)
	return nil
}

// SaveAllTripsToPG writes every trip in memory to the repository.
func (s *TripService) SaveAllTripsToPG(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	trips := s.trips.GetAllValues()
	if len(trips) == 0 {
		return nil
	}

	start := time.Now()
	saved, err := s.repo.SaveTrips(ctx, trips)
	if err != nil {
		return fmt.Errorf("saved %d of %d trips: %w", saved, len(trips), err)
	}

	s.log.Debug("saved trips to postgres", zap.Int("count", saved), zap.Duration("took", time.Since(start)))
	return nil
}

// EvictExpired drops persisted trips and session hints older than the TTL from memory.
func (s *TripService) EvictExpired() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.sessions.EvictOlderThan(cutoff)
	evicted := len(s.trips.EvictOlderThan(cutoff))
	if evicted > 0 {
		s.log.Debug("evicted trips", zap.Int("count", evicted))
	}
	return evicted
}

// Flush persists everything still in memory. It is called on shutdown.
func (s *TripService) Flush(ctx context.Context) error {
	return errors.Join(s.SaveDirtyTripsToRedis(ctx), s.SaveAllTripsToPG(ctx))
}

// TripCount returns the number of trips held in memory.
func (s *TripService) TripCount() int {
	return s.trips.Count()
}
