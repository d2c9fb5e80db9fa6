package navigation

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Config struct {
	RerouteThresholdKm float64
}

func DefaultConfig() Config {
	return Config{RerouteThresholdKm: pkg.DEFAULT_REROUTE_THRESHOLD_KM}
}

// calculation. one submitted sub-route search
type calculation struct {
	future  *concurrent.Future[*route.Route]
	origin  *da.Node
	fromGPS bool
}

// Manager. owns one navigation session: destinations, last fix, current route and the in-flight searches.
type Manager struct {
	id     string
	graph  mapdata.MapData
	router routing.Router
	metric costfunction.RoutingMetric
	sel    mapdata.Selector
	pool   *concurrent.WorkerPool
	cfg    Config
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// publishMu orders route events, held while route listeners run
	publishMu sync.Mutex

	mu           sync.Mutex
	destinations []Place
	lastFix      *geo.Coordinate
	currentRoute *route.Route
	currentStep  *route.RoutingStep
	generation   uint64
	inflight     []calculation

	progress        *progressAggregator
	progressLimiter *rate.Limiter

	routeListeners    *listenerSet[RouteListener]
	progressListeners *listenerSet[ProgressListener]
	stepListeners     *listenerSet[RoutingStepListener]
}

func NewManager(graph mapdata.MapData, router routing.Router, metric costfunction.RoutingMetric,
	sel mapdata.Selector, pool *concurrent.WorkerPool, cfg Config, logger *zap.Logger) *Manager {
	if cfg.RerouteThresholdKm <= 0 {
		cfg.RerouteThresholdKm = pkg.DEFAULT_REROUTE_THRESHOLD_KM
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()
	return &Manager{
		id:                id,
		graph:             graph,
		router:            router,
		metric:            metric,
		sel:               sel,
		pool:              pool,
		cfg:               cfg,
		logger:            logger.With(zap.String("session", id)),
		ctx:               ctx,
		cancel:            cancel,
		progress:          newProgressAggregator(),
		progressLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		routeListeners:    newListenerSet[RouteListener](),
		progressListeners: newListenerSet[ProgressListener](),
		stepListeners:     newListenerSet[RoutingStepListener](),
	}
}

func (nm *Manager) GetSessionID() string {
	return nm.id
}

func (nm *Manager) AddRouteListener(l RouteListener) func() {
	return nm.routeListeners.add(l)
}

func (nm *Manager) AddProgressListener(l ProgressListener) func() {
	return nm.progressListeners.add(l)
}

func (nm *Manager) AddRoutingStepListener(l RoutingStepListener) func() {
	return nm.stepListeners.add(l)
}

func (nm *Manager) GetCurrentRoute() *route.Route {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.currentRoute
}

func (nm *Manager) GetCurrentStep() *route.RoutingStep {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.currentStep
}

func (nm *Manager) GetDestinations() []Place {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	out := make([]Place, len(nm.destinations))
	copy(out, nm.destinations)
	return out
}

func (nm *Manager) GetLastFix() (geo.Coordinate, bool) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	if nm.lastFix == nil {
		return geo.Coordinate{}, false
	}
	return *nm.lastFix, true
}

// GetProgress. aggregated (done, total) of the current destinations
func (nm *Manager) GetProgress() (float64, float64) {
	return nm.progress.get()
}

// IsCalculating. true while sub-route searches of the current destinations are running
func (nm *Manager) IsCalculating() bool {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return len(nm.inflight) > 0
}

// SetDestinations. replaces the destination list and starts the route calculation in the background.
// with startAtGPS the route starts at the last fix and the first destination is skipped
// (unless it is the only one). fails with ErrUnresolvablePlace before any search is submitted.
func (nm *Manager) SetDestinations(places []Place, startAtGPS bool) error {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.setDestinationsLocked(places, startAtGPS)
}

type leg struct {
	start      *da.Node
	targetNode *da.Node
	targetWay  *da.Way
}

func (nm *Manager) setDestinationsLocked(places []Place, startAtGPS bool) error {
	nm.cancelInflightLocked()
	nm.generation++
	generation := nm.generation
	nm.progress.reset(generation)

	nm.destinations = make([]Place, len(places))
	copy(nm.destinations, places)

	chain := places
	if startAtGPS {
		if nm.lastFix == nil {
			return util.WrapErrorf(nil, util.ErrUnresolvablePlace, "no gps fix to start from")
		}
		rest := places
		if len(places) >= 2 {
			rest = places[1:]
		}
		chain = append([]Place{NewCoordinatePlace(nm.lastFix.Lat, nm.lastFix.Lon)}, rest...)
	}
	if len(chain) < 2 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "need a start and at least one destination, got %d places",
			len(chain))
	}

	legs, err := nm.resolveLegs(chain)
	if err != nil {
		return err
	}

	calcs := make([]calculation, 0, len(legs))
	for i, l := range legs {
		req := routing.Request{
			Map:        nm.graph,
			Start:      l.start,
			TargetNode: l.targetNode,
			TargetWay:  l.targetWay,
			Selector:   nm.sel,
			Metric:     nm.metric,
			Progress:   nm.progressFunc(generation, i),
		}
		future := concurrent.Submit(nm.ctx, nm.pool, func(ctx context.Context) (*route.Route, error) {
			return nm.router.Route(ctx, req)
		})
		calcs = append(calcs, calculation{future: future, origin: l.start, fromGPS: startAtGPS && i == 0})
	}
	nm.inflight = calcs

	nm.logger.Info("route calculation submitted", zap.Uint64("generation", generation),
		zap.Int("legs", len(legs)), zap.Bool("startAtGPS", startAtGPS))

	nm.wg.Add(1)
	go nm.coordinate(generation, calcs)
	return nil
}

// resolveLegs. every place is resolved once so consecutive legs share their junction node.
// only the final destination may stay a way target.
func (nm *Manager) resolveLegs(chain []Place) ([]leg, error) {
	nodes := make([]*da.Node, len(chain))
	var finalWay *da.Way
	for i, p := range chain {
		n, w, err := p.Resolve(nm.graph, nm.sel)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrUnresolvablePlace, "resolve %s", p.String())
		}
		nodes[i] = n
		if i == len(chain)-1 {
			finalWay = w
		}
	}

	legs := make([]leg, 0, len(chain)-1)
	for i := 0; i+1 < len(chain); i++ {
		l := leg{start: nodes[i], targetNode: nodes[i+1]}
		if i+1 == len(chain)-1 && finalWay != nil {
			l.targetNode = nil
			l.targetWay = finalWay
		}
		legs = append(legs, l)
	}
	return legs, nil
}

func (nm *Manager) cancelInflightLocked() {
	for _, c := range nm.inflight {
		c.future.Cancel()
	}
	nm.inflight = nil
}

var errNoRoute = util.WrapErrorf(nil, util.ErrNoRoute, "sub-route not found")

// coordinate. waits for all sub-routes of one generation, combines them in submission order
func (nm *Manager) coordinate(generation uint64, calcs []calculation) {
	defer nm.wg.Done()

	routes := make([]*route.Route, len(calcs))
	g, gctx := errgroup.WithContext(nm.ctx)
	for i, c := range calcs {
		i, c := i, c
		g.Go(func() error {
			r, err := c.future.Wait(gctx)
			if err != nil {
				return err
			}
			if r == nil {
				return errNoRoute
			}
			routes[i] = r
			return nil
		})
	}
	err := g.Wait()

	if err != nil {
		for _, c := range calcs {
			c.future.Cancel()
		}
		switch {
		case nm.ctx.Err() != nil:
			nm.logger.Warn("route combination interrupted, keeping previous route",
				zap.Uint64("generation", generation), zap.Error(err))
			return
		case errors.Is(err, context.Canceled):
			nm.logger.Debug("route calculation cancelled", zap.Uint64("generation", generation))
			return
		case !errors.Is(err, util.ErrNoRoute):
			nm.logger.Error("route calculation failed", zap.Uint64("generation", generation), zap.Error(err))
		}

		nm.mu.Lock()
		if generation != nm.generation {
			nm.mu.Unlock()
			return
		}
		nm.inflight = nil
		nm.currentRoute = nil
		nm.currentStep = nil
		nm.mu.Unlock()

		nm.logger.Info("no route found", zap.Uint64("generation", generation))
		nm.publishRoute(generation, func(l RouteListener) { l.NoRouteFound() })
		return
	}

	combined := route.Combine(routes...)

	nm.mu.Lock()
	if generation != nm.generation {
		nm.mu.Unlock()
		return
	}
	nm.inflight = nil
	nm.currentRoute = combined
	nm.currentStep = nil
	nm.mu.Unlock()

	nm.logger.Info("route changed", zap.Uint64("generation", generation),
		zap.Int("steps", combined.NumberOfSteps()), zap.Float64("distanceMeters", combined.DistanceInMeters()))
	nm.publishRoute(generation, func(l RouteListener) { l.RouteChanged(combined) })
}

// publishRoute. dispatches a route event of generation unless a newer generation exists by the time
// the event gets its turn
func (nm *Manager) publishRoute(generation uint64, fn func(l RouteListener)) bool {
	nm.publishMu.Lock()
	defer nm.publishMu.Unlock()

	nm.mu.Lock()
	current := generation == nm.generation
	nm.mu.Unlock()
	if !current {
		nm.logger.Debug("dropping superseded route event", zap.Uint64("generation", generation))
		return false
	}
	nm.routeListeners.forEach(fn)
	return true
}

func (nm *Manager) progressFunc(generation uint64, task int) routing.ProgressFunc {
	return func(done, total float64, current *da.Node) {
		sumDone, sumTotal, ok := nm.progress.report(generation, task, done, total)
		if !ok {
			return
		}
		if nm.progressLimiter.Allow() {
			nm.logger.Debug("route calculation progress", zap.Uint64("generation", generation),
				zap.Float64("done", sumDone), zap.Float64("total", sumTotal))
		}
		nm.progressListeners.forEach(func(l ProgressListener) { l.ProgressChanged(sumDone, sumTotal, current) })
	}
}

// GPSLocationChanged. stores the fix, reroutes from the fix when it is farther than the reroute threshold
// from the current route and from every in-flight gps recalculation, then reports the nearest step.
func (nm *Manager) GPSLocationChanged(lat, lon float64) {
	fix := geo.NewCoordinate(lat, lon)

	nm.mu.Lock()
	nm.lastFix = &fix
	if nm.currentRoute == nil {
		nm.mu.Unlock()
		return
	}

	best, bestStep := nm.nearestOnRouteLocked(fix)
	for _, c := range nm.inflight {
		if !c.fromGPS || c.origin == nil {
			continue
		}
		if d := geo.SquaredDegreeDistance(fix.Lat, fix.Lon, c.origin.GetLat(), c.origin.GetLon()); d <= best {
			best = d
		}
	}

	if !math.IsInf(best, 1) {
		distKm := geo.DegreeSquaredToKm(best)
		if distKm > nm.cfg.RerouteThresholdKm {
			nm.logger.Info("off route, recalculating", zap.Float64("distanceKm", distKm),
				zap.Float64("thresholdKm", nm.cfg.RerouteThresholdKm))
			if err := nm.setDestinationsLocked(nm.destinations, true); err != nil {
				nm.logger.Warn("reroute failed", zap.Error(err))
			}
		}
	}
	nm.currentStep = bestStep
	nm.mu.Unlock()

	nm.stepListeners.forEach(func(l RoutingStepListener) { l.RoutingStepChanged(bestStep) })
}

// nearestOnRouteLocked. later nodes win ties (<=)
func (nm *Manager) nearestOnRouteLocked(fix geo.Coordinate) (float64, *route.RoutingStep) {
	best := math.Inf(1)
	var bestStep *route.RoutingStep

	r := nm.currentRoute
	if r.IsEmpty() {
		if n := r.GetStartNode(); n != nil {
			best = geo.SquaredDegreeDistance(fix.Lat, fix.Lon, n.GetLat(), n.GetLon())
		}
		return best, nil
	}

	for _, step := range r.GetSteps() {
		for _, id := range step.GetNodeIDs() {
			n := nm.graph.GetNodeByID(id)
			if n == nil {
				continue
			}
			if d := geo.SquaredDegreeDistance(fix.Lat, fix.Lon, n.GetLat(), n.GetLon()); d <= best {
				best = d
				bestStep = step
			}
		}
	}
	return best, bestStep
}

// GPSLocationLost. forgets the fix, route and running searches are kept
func (nm *Manager) GPSLocationLost() {
	nm.mu.Lock()
	nm.lastFix = nil
	nm.mu.Unlock()
}

// Close. cancels all searches and waits for the coordinators
func (nm *Manager) Close() {
	nm.mu.Lock()
	nm.cancelInflightLocked()
	nm.generation++
	nm.mu.Unlock()
	nm.cancel()
	nm.wg.Wait()
}
