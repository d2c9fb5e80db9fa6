package navigation

import (
	"sync"
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const eventTimeout = 2 * time.Second

// buildMap.
//
//	road 11 (lat 0.01):   101 ---------------------------- 111
//	                                                        |  way 12
//	road 10 (lat 0):       1 -- 2 -- 3 -- ... -- 10 -- 11 --/
//
// plus footway 13 from 11 to the isolated node 200
func buildMap() *mapdata.MemoryMap {
	b := mapdata.NewBuilder()
	south := make([]int64, 0, 11)
	north := make([]int64, 0, 11)
	for i := int64(0); i <= 10; i++ {
		b.Node(1+i, 0, float64(i)*0.001)
		b.Node(101+i, 0.01, float64(i)*0.001)
		south = append(south, 1+i)
		north = append(north, 101+i)
	}
	b.Node(200, -0.001, 0.01)
	return b.
		Way(10, south, "highway", "residential", "name", "Jalan Kaliurang").
		Way(11, north, "highway", "residential", "name", "Jalan Magelang").
		Way(12, []int64{11, 111}, "highway", "residential").
		Way(13, []int64{11, 200}, "highway", "footway").
		Build()
}

type routeRecorder struct {
	routes  chan *route.Route
	noRoute chan struct{}
}

func newRouteRecorder() *routeRecorder {
	return &routeRecorder{routes: make(chan *route.Route, 16), noRoute: make(chan struct{}, 16)}
}

func (rr *routeRecorder) RouteChanged(r *route.Route) {
	rr.routes <- r
}

func (rr *routeRecorder) NoRouteFound() {
	rr.noRoute <- struct{}{}
}

func (rr *routeRecorder) waitRoute(t *testing.T) *route.Route {
	t.Helper()
	select {
	case r := <-rr.routes:
		return r
	case <-rr.noRoute:
		t.Fatalf("unexpected no route")
	case <-time.After(eventTimeout):
		t.Fatalf("timeout waiting for route")
	}
	return nil
}

type stepRecorder struct {
	mu    sync.Mutex
	steps []*route.RoutingStep
}

func (sr *stepRecorder) RoutingStepChanged(step *route.RoutingStep) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.steps = append(sr.steps, step)
}

func (sr *stepRecorder) count() int {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	return len(sr.steps)
}

func newTestManager(t *testing.T, m mapdata.MapData) *Manager {
	t.Helper()
	pool := concurrent.NewWorkerPool(2, 8)
	pool.Start()
	nm := NewManager(m, routing.NewTurnRestrictedDijkstra(zap.NewNop(), true), costfunction.NewShortestMetric(0),
		vehicle.NewMotorcar(), pool, DefaultConfig(), zap.NewNop())
	t.Cleanup(func() {
		nm.Close()
		pool.Close()
	})
	return nm
}

func (nm *Manager) currentGeneration() uint64 {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.generation
}

func endpoints(r *route.Route) (int64, int64) {
	s, _ := r.GetStartNodeID()
	e, _ := r.GetEndNodeID()
	return s, e
}

func TestSetDestinationsMultiLeg(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(6), NewNodePlace(111)}, false))
	r := rec.waitRoute(t)

	start, end := endpoints(r)
	assert.Equal(t, int64(1), start)
	assert.Equal(t, int64(111), end)
	assert.Equal(t, r, nm.GetCurrentRoute())
	assert.False(t, nm.IsCalculating())

	// leg 1 -> 6 and leg 6 -> 111 are combined in destination order
	steps := r.GetSteps()
	require.Len(t, steps, 3)
	assert.Equal(t, int64(6), steps[0].GetEndID())
	assert.Equal(t, int64(6), steps[1].GetStartID())
}

func TestSetDestinationsWayTarget(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(101), NewWayPlace(10)}, false))
	r := rec.waitRoute(t)
	_, end := endpoints(r)
	assert.Equal(t, int64(11), end)
}

func TestSetDestinationsErrors(t *testing.T) {
	nm := newTestManager(t, buildMap())

	testCases := []struct {
		name       string
		places     []Place
		startAtGPS bool
		wantErr    error
	}{
		{"start at gps without fix", []Place{NewNodePlace(1)}, true, util.ErrUnresolvablePlace},
		{"missing node", []Place{NewNodePlace(1), NewNodePlace(9999)}, false, util.ErrUnresolvablePlace},
		{"footway destination way", []Place{NewNodePlace(1), NewWayPlace(13)}, false, util.ErrUnresolvablePlace},
		{"single place", []Place{NewNodePlace(1)}, false, util.ErrBadParamInput},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := nm.SetDestinations(tt.places, tt.startAtGPS)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, nm.IsCalculating())
		})
	}
}

func TestNoRouteFound(t *testing.T) {
	// two disconnected roads
	m := mapdata.NewBuilder().
		Node(1, 0, 0).
		Node(2, 0, 0.001).
		Node(3, 1, 1).
		Node(4, 1, 1.001).
		Way(10, []int64{1, 2}, "highway", "residential").
		Way(11, []int64{3, 4}, "highway", "residential").
		Build()
	nm := newTestManager(t, m)
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(4)}, false))
	select {
	case <-rec.noRoute:
	case <-rec.routes:
		t.Fatalf("disconnected graph must not produce a route")
	case <-time.After(eventTimeout):
		t.Fatalf("timeout waiting for no route")
	}
	assert.Nil(t, nm.GetCurrentRoute())
}

func TestRerouteThreshold(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)
	steps := &stepRecorder{}
	nm.AddRoutingStepListener(steps)

	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(11)}, false))
	rec.waitRoute(t)
	generation := nm.currentGeneration()

	// on the route, all within 0.15 km of a route node
	for _, lon := range []float64{0.0, 0.0025, 0.0061, 0.0099} {
		nm.GPSLocationChanged(0.0005, lon)
	}
	assert.Equal(t, generation, nm.currentGeneration())
	assert.Equal(t, 4, steps.count())
	assert.NotNil(t, nm.GetCurrentStep())

	// 1.1 km north on road 11: exactly one recalculation for the following fixes
	nm.GPSLocationChanged(0.01, 0.0)
	assert.Equal(t, generation+1, nm.currentGeneration())
	nm.GPSLocationChanged(0.01, 0.0002)
	nm.GPSLocationChanged(0.01, 0.0004)
	assert.Equal(t, generation+1, nm.currentGeneration())

	r := rec.waitRoute(t)
	start, end := endpoints(r)
	assert.Equal(t, int64(101), start)
	assert.Equal(t, int64(11), end)

	nm.GPSLocationChanged(0.01, 0.0011)
	assert.Equal(t, generation+1, nm.currentGeneration())
	assert.Equal(t, 8, steps.count())

	// the destination list is kept unmodified for later reroutes
	dest := nm.GetDestinations()
	require.Len(t, dest, 2)
	assert.Equal(t, "node(1)", dest[0].String())
}

func TestGPSLocationLost(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	nm.GPSLocationChanged(0, 0.003)
	_, ok := nm.GetLastFix()
	assert.True(t, ok)

	// start at gps with a single destination routes fix -> destination
	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(11)}, true))
	r := rec.waitRoute(t)
	start, _ := endpoints(r)
	assert.Equal(t, int64(4), start)

	nm.GPSLocationLost()
	_, ok = nm.GetLastFix()
	assert.False(t, ok)
	assert.NotNil(t, nm.GetCurrentRoute())
}

type progressRecorder struct {
	mu    sync.Mutex
	done  []float64
	total []float64
}

func (pr *progressRecorder) ProgressChanged(done, total float64, current *da.Node) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.done = append(pr.done, done)
	pr.total = append(pr.total, total)
}

func TestProgressListener(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)
	pr := &progressRecorder{}
	remove := nm.AddProgressListener(pr)

	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(11), NewNodePlace(111)}, false))
	rec.waitRoute(t)

	pr.mu.Lock()
	require.NotEmpty(t, pr.done)
	for i := range pr.done {
		assert.LessOrEqual(t, pr.done[i], pr.total[i])
	}
	pr.mu.Unlock()

	done, total := nm.GetProgress()
	assert.Greater(t, done, 0.0)
	assert.GreaterOrEqual(t, total, done)

	remove()
	pr.mu.Lock()
	n := len(pr.done)
	pr.mu.Unlock()
	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(11)}, false))
	rec.waitRoute(t)
	pr.mu.Lock()
	assert.Equal(t, n, len(pr.done))
	pr.mu.Unlock()
}

func TestProgressAggregator(t *testing.T) {
	pa := newProgressAggregator()
	pa.reset(1)

	_, _, ok := pa.report(1, 0, 10, 20)
	require.True(t, ok)
	_, _, _ = pa.report(1, 1, 5, 5)
	done, total, _ := pa.report(1, 0, 30, 40)
	assert.Equal(t, 35.0, done)
	assert.Equal(t, 45.0, total)

	_, _, ok = pa.report(0, 0, 100, 100)
	assert.False(t, ok)

	pa.reset(2)
	done, total = pa.get()
	assert.Equal(t, 0.0, done)
	assert.Equal(t, 0.0, total)
}

func TestSupersededCalculationIsNotPublished(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(111)}, false))
	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(6)}, false))

	// the first calculation may have finished before it was replaced, the last event is always the newest
	var last *route.Route
	deadline := time.After(eventTimeout)
	for {
		select {
		case r := <-rec.routes:
			last = r
			if _, end := endpoints(r); end == 6 {
				assert.Equal(t, last, nm.GetCurrentRoute())
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for the newest route")
		}
	}
}

func TestPlaces(t *testing.T) {
	m := buildMap()
	sel := vehicle.NewMotorcar()

	n, w, err := NewCoordinatePlace(0.0001, 0.0049).Resolve(m, sel)
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.Equal(t, int64(6), n.GetID())

	// node only on a footway snaps to the nearest drivable node
	n, _, err = NewNodePlace(200).Resolve(m, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n.GetID())

	n, w, err = NewWayPlace(12).Resolve(m, sel)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n.GetID())
	assert.Equal(t, int64(12), w.GetID())

	c, ok := NewWayPlace(12).Coordinate(m)
	assert.True(t, ok)
	assert.InDelta(t, 0.01, c.Lon, 1e-12)
}

func TestSupersededRouteEventIsDropped(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	nm.mu.Lock()
	nm.generation = 2
	nm.mu.Unlock()

	assert.False(t, nm.publishRoute(1, func(l RouteListener) { l.NoRouteFound() }))
	assert.Len(t, rec.noRoute, 0)
	assert.True(t, nm.publishRoute(2, func(l RouteListener) { l.NoRouteFound() }))
	assert.Len(t, rec.noRoute, 1)
}

func TestRouteEventsFollowGenerations(t *testing.T) {
	nm := newTestManager(t, buildMap())
	rec := newRouteRecorder()
	nm.AddRouteListener(rec)

	// back to back generations, only routes of the latest one may be the last event
	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(6)}, false))
	require.NoError(t, nm.SetDestinations([]Place{NewNodePlace(1), NewNodePlace(111)}, false))

	var last *route.Route
	require.Eventually(t, func() bool {
		for {
			select {
			case r := <-rec.routes:
				last = r
			default:
				if last == nil {
					return false
				}
				_, end := endpoints(last)
				return end == 111
			}
		}
	}, eventTimeout, 10*time.Millisecond)
	assert.Equal(t, nm.GetCurrentRoute(), last)
}
