package route

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMap.
//
//	1 -- 2 -- 3 -- 4      way 10 (1,2,3,4)
//	          |
//	          5 -- 6      way 11 (3,5,6)
//
// plus closed way 12 (7,8,9,7)
func buildMap() *mapdata.MemoryMap {
	return mapdata.NewBuilder().
		Node(1, 0, 0).
		Node(2, 0, 0.001).
		Node(3, 0, 0.002).
		Node(4, 0, 0.003).
		Node(5, -0.001, 0.002).
		Node(6, -0.002, 0.002).
		Node(7, 1, 1).
		Node(8, 1, 1.001).
		Node(9, 1.001, 1.0005).
		Way(10, []int64{1, 2, 3, 4}, "highway", "residential", "name", "Jalan Malioboro").
		Way(11, []int64{3, 5, 6}, "highway", "residential").
		Way(12, []int64{7, 8, 9, 7}, "highway", "primary", "junction", "roundabout").
		Build()
}

func mustStep(t *testing.T, m mapdata.MapData, start, end, way int64) *RoutingStep {
	t.Helper()
	s, err := NewRoutingStep(m, start, end, way)
	require.NoError(t, err)
	return s
}

func TestNewRoutingStep(t *testing.T) {
	m := buildMap()
	testCases := []struct {
		name      string
		start     int64
		end       int64
		way       int64
		wantIDs   []int64
		wantError error
	}{
		{"forward sub range", 2, 4, 10, []int64{2, 3, 4}, nil},
		{"reverse sub range", 4, 1, 10, []int64{4, 3, 2, 1}, nil},
		{"closed way forward arc", 9, 8, 12, []int64{9, 7, 8}, nil},
		{"closed way from closing node", 7, 9, 12, []int64{7, 8, 9}, nil},
		{"same node", 2, 2, 10, nil, util.ErrBadParamInput},
		{"node not on way", 5, 2, 10, nil, util.ErrBadParamInput},
		{"missing way", 1, 2, 99, nil, util.ErrNotFound},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewRoutingStep(m, tt.start, tt.end, tt.way)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, s.GetNodeIDs())
			assert.Equal(t, tt.start, s.GetStartID())
			assert.Equal(t, tt.end, s.GetEndID())
		})
	}
}

func TestDirectedRoutingStepOnClosedWay(t *testing.T) {
	m := buildMap()
	w := m.GetWayByID(12)
	s, err := NewDirectedRoutingStep(m, w, 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 9, 8}, s.GetNodeIDs())

	_, err = NewDirectedRoutingStep(m, m.GetWayByID(10), 0, 2, false)
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}

func TestStepDistanceOnlyCoversTraversedNodes(t *testing.T) {
	m := buildMap()
	s := mustStep(t, m, 2, 3, 10)
	want := geo.DistanceInMeters(m.GetNodeByID(2).GetCoordinate(), m.GetNodeByID(3).GetCoordinate())
	assert.InDelta(t, want, s.DistanceInMeters(), 1e-9)

	full := mustStep(t, m, 1, 4, 10)
	assert.Greater(t, full.DistanceInMeters(), s.DistanceInMeters())
	assert.InDelta(t, 3*want, full.DistanceInMeters(), 0.01)
}

func TestRouteDistanceAdditivity(t *testing.T) {
	m := buildMap()
	steps := []*RoutingStep{mustStep(t, m, 1, 3, 10), mustStep(t, m, 3, 6, 11)}
	r := NewRoute(steps)

	sum := 0.0
	for _, s := range steps {
		stepSum := 0.0
		ids := s.GetNodeIDs()
		for i := 1; i < len(ids); i++ {
			stepSum += geo.DistanceInMeters(m.GetNodeByID(ids[i-1]).GetCoordinate(), m.GetNodeByID(ids[i]).GetCoordinate())
		}
		assert.InDelta(t, stepSum, s.DistanceInMeters(), 1e-9)
		sum += s.DistanceInMeters()
	}
	assert.InDelta(t, sum, r.DistanceInMeters(), 1e-9)
	assert.InDelta(t, sum, r.DistanceInMeters(), 1e-9)
}

func TestCombine(t *testing.T) {
	m := buildMap()
	sa := NewRoute([]*RoutingStep{mustStep(t, m, 1, 3, 10)})
	ab := NewRoute([]*RoutingStep{mustStep(t, m, 3, 5, 11), mustStep(t, m, 5, 6, 11)})

	combined := Combine(sa, NewEmptyRoute(m, 3), ab)
	require.Equal(t, 3, combined.NumberOfSteps())
	assert.Equal(t, append(sa.GetSteps(), ab.GetSteps()...), combined.GetSteps())

	start, ok := combined.GetStartNodeID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), start)
	end, _ := combined.GetEndNodeID()
	assert.Equal(t, int64(6), end)
	assert.InDelta(t, sa.DistanceInMeters()+ab.DistanceInMeters(), combined.DistanceInMeters(), 1e-9)
}

func TestEmptyRoute(t *testing.T) {
	m := buildMap()
	r := NewEmptyRoute(m, 2)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0.0, r.DistanceInMeters())
	assert.Equal(t, int64(2), r.GetEndNode().GetID())
	assert.Len(t, r.Coordinates(), 1)

	c := Combine(r, NewEmptyRoute(m, 2))
	start, ok := c.GetStartNodeID()
	assert.True(t, ok)
	assert.Equal(t, int64(2), start)
}

func TestPolylineRoundTrip(t *testing.T) {
	m := buildMap()
	r := NewRoute([]*RoutingStep{mustStep(t, m, 1, 3, 10), mustStep(t, m, 3, 6, 11)})
	coords, err := geo.CoordsFromPolyline(r.Polyline())
	require.NoError(t, err)
	require.Len(t, coords, 5)
	assert.InDelta(t, -0.002, coords[4].Lat, 1e-5)
	assert.InDelta(t, 0.002, coords[4].Lon, 1e-5)
}

type constSpeed float64

func (c constSpeed) GetEstimatedSpeed(step *RoutingStep) float64 {
	return float64(c)
}

func TestEstimatedTime(t *testing.T) {
	m := buildMap()
	r := NewRoute([]*RoutingStep{mustStep(t, m, 1, 4, 10)})
	assert.InDelta(t, r.DistanceInMeters()/10.0, r.EstimatedTimeSeconds(constSpeed(36)), 1e-9)
}

func TestRemainingMeters(t *testing.T) {
	m := buildMap()
	forward := mustStep(t, m, 1, 4, 10)
	backward := mustStep(t, m, 4, 1, 10)
	segment := geo.DistanceInMeters(geo.NewCoordinate(0, 0), geo.NewCoordinate(0, 0.001))

	testCases := []struct {
		name string
		step *RoutingStep
		p    geo.Coordinate
		want float64
	}{
		{"at the start", forward, geo.NewCoordinate(0, 0), 3 * segment},
		{"middle of first segment, off the road", forward, geo.NewCoordinate(0.0001, 0.0005), 2.5 * segment},
		{"on an inner node", forward, geo.NewCoordinate(0, 0.002), segment},
		{"past the end", forward, geo.NewCoordinate(0, 0.004), 0},
		{"driving backward", backward, geo.NewCoordinate(0, 0.0025), 2.5 * segment},
		{"before the start", forward, geo.NewCoordinate(0, -0.001), 3 * segment},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.step.RemainingMeters(tt.p), 0.5)
		})
	}
}
