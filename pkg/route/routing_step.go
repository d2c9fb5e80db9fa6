package route

import (
	"fmt"
	"math"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

// RoutingStep. traversal of one way from startID to endID. references the map by id only.
// startIdx/endIdx are positions in the way node list, on closed ways index len-1 is folded to 0.
type RoutingStep struct {
	graph    mapdata.MapData
	startID  int64
	endID    int64
	wayID    int64
	startIdx int
	endIdx   int
	forward  bool
}

// NewRoutingStep. start and end must both be on the way and differ.
// on a closed way the step follows the node order of the way (forward arc).
func NewRoutingStep(graph mapdata.MapData, startID, endID, wayID int64) (*RoutingStep, error) {
	way := graph.GetWayByID(wayID)
	if way == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "routing step: way %d not found", wayID)
	}
	if startID == endID {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing step: start and end node %d are equal", startID)
	}
	startIdx := way.IndexOf(startID)
	endIdx := way.IndexOf(endID)
	if startIdx < 0 || endIdx < 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing step: node %d or %d is not on way %d",
			startID, endID, wayID)
	}

	forward := startIdx < endIdx
	if way.IsClosed() {
		forward = true
	}
	return newStep(graph, way, startIdx, endIdx, forward), nil
}

// NewDirectedRoutingStep. step between two way positions in an explicit direction, used by the path search.
func NewDirectedRoutingStep(graph mapdata.MapData, way *da.Way, startIdx, endIdx int, forward bool) (*RoutingStep, error) {
	n := way.NumberOfNodes()
	if startIdx < 0 || startIdx >= n || endIdx < 0 || endIdx >= n {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing step: index out of range for way %d", way.GetID())
	}
	nodes := way.GetNodeIDs()
	if nodes[startIdx] == nodes[endIdx] {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing step: start and end node %d are equal", nodes[startIdx])
	}
	if !way.IsClosed() && forward != (startIdx < endIdx) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing step: direction does not match indices on way %d",
			way.GetID())
	}
	return newStep(graph, way, startIdx, endIdx, forward), nil
}

func newStep(graph mapdata.MapData, way *da.Way, startIdx, endIdx int, forward bool) *RoutingStep {
	if way.IsClosed() {
		last := way.NumberOfNodes() - 1
		if startIdx == last {
			startIdx = 0
		}
		if endIdx == last {
			endIdx = 0
		}
	}
	nodes := way.GetNodeIDs()
	return &RoutingStep{
		graph:    graph,
		startID:  nodes[startIdx],
		endID:    nodes[endIdx],
		wayID:    way.GetID(),
		startIdx: startIdx,
		endIdx:   endIdx,
		forward:  forward,
	}
}

func (s *RoutingStep) GetMap() mapdata.MapData {
	return s.graph
}

func (s *RoutingStep) GetStartID() int64 {
	return s.startID
}

func (s *RoutingStep) GetEndID() int64 {
	return s.endID
}

func (s *RoutingStep) GetWayID() int64 {
	return s.wayID
}

func (s *RoutingStep) GetStartIndex() int {
	return s.startIdx
}

func (s *RoutingStep) GetEndIndex() int {
	return s.endIdx
}

// IsForward. true if the step follows the node order of its way
func (s *RoutingStep) IsForward() bool {
	return s.forward
}

func (s *RoutingStep) GetWay() *da.Way {
	return s.graph.GetWayByID(s.wayID)
}

func (s *RoutingStep) GetStart() *da.Node {
	return s.graph.GetNodeByID(s.startID)
}

func (s *RoutingStep) GetEnd() *da.Node {
	return s.graph.GetNodeByID(s.endID)
}

// GetNodeIDs. traversed node ids from start to end inclusive
func (s *RoutingStep) GetNodeIDs() []int64 {
	way := s.GetWay()
	if way == nil {
		return []int64{s.startID, s.endID}
	}
	nodes := way.GetNodeIDs()
	period := len(nodes)
	if way.IsClosed() {
		period = len(nodes) - 1
	}

	delta := 1
	if !s.forward {
		delta = -1
	}
	ids := make([]int64, 0, 2)
	for i := s.startIdx; ; i = (i + delta + period) % period {
		ids = append(ids, nodes[i])
		if i == s.endIdx || len(ids) > period {
			break
		}
	}
	return ids
}

// GetCoordinates. coordinates of the traversed nodes, missing nodes are skipped
func (s *RoutingStep) GetCoordinates() []geo.Coordinate {
	ids := s.GetNodeIDs()
	coords := make([]geo.Coordinate, 0, len(ids))
	for _, id := range ids {
		if n := s.graph.GetNodeByID(id); n != nil {
			coords = append(coords, n.GetCoordinate())
		}
	}
	return coords
}

// DistanceInMeters. sum of great-circle distances between consecutive traversed nodes
func (s *RoutingStep) DistanceInMeters() float64 {
	coords := s.GetCoordinates()
	dist := 0.0
	for i := 1; i < len(coords); i++ {
		dist += geo.DistanceInMeters(coords[i-1], coords[i])
	}
	return dist
}

// RemainingMeters. distance left along the step for a position p: p is projected onto the nearest segment,
// the rest of that segment and all following segments are summed
func (s *RoutingStep) RemainingMeters(p geo.Coordinate) float64 {
	coords := s.GetCoordinates()
	if len(coords) == 0 {
		return 0
	}
	if len(coords) == 1 {
		return geo.DistanceInMeters(p, coords[0])
	}

	best, bestSeg := math.Inf(1), 0
	for i := 1; i < len(coords); i++ {
		if d := geo.PointLinePerpendicularDistance(coords[i-1], coords[i], p); d < best {
			best, bestSeg = d, i
		}
	}

	segLen := geo.DistanceInMeters(coords[bestSeg-1], coords[bestSeg])
	remaining := (1 - geo.SegmentFraction(coords[bestSeg-1], coords[bestSeg], p)) * segLen
	for i := bestSeg + 1; i < len(coords); i++ {
		remaining += geo.DistanceInMeters(coords[i-1], coords[i])
	}
	return remaining
}

// IsReversalOf. true if s drives back along the same way other was driven on
func (s *RoutingStep) IsReversalOf(other *RoutingStep) bool {
	return other != nil && s.wayID == other.wayID && s.forward != other.forward
}

// GetStreetName. name or ref of the step's way
func (s *RoutingStep) GetStreetName() string {
	return mapdata.GetStreetName(s.GetWay())
}

func (s *RoutingStep) String() string {
	return fmt.Sprintf("step[way=%d %d->%d]", s.wayID, s.startID, s.endID)
}
