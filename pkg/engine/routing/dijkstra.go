package routing

import (
	"context"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"go.uber.org/zap"
)

const (
	progressEvery = 64
)

// TurnRestrictedDijkstra. dijkstra over (node, arrived-via-way) states so that turn restrictions
// and u-turns can depend on the incoming way. safe for concurrent use, all search state is per call.
type TurnRestrictedDijkstra struct {
	logger     *zap.Logger
	allowUTurn bool
}

func NewTurnRestrictedDijkstra(logger *zap.Logger, allowUTurn bool) *TurnRestrictedDijkstra {
	return &TurnRestrictedDijkstra{logger: logger, allowUTurn: allowUTurn}
}

type search struct {
	req          Request
	logger       *zap.Logger
	allowUTurn   bool
	restrictions *restrictionIndex

	info            map[searchKey]*VertexInfo[searchKey]
	pq              *da.MinHeap[searchKey]
	numSettledNodes int
}

func (td *TurnRestrictedDijkstra) Route(ctx context.Context, req Request) (*route.Route, error) {
	if req.Map == nil || req.Selector == nil || req.Metric == nil {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing: map, selector and metric are required")
	}
	if req.Start == nil || (req.TargetNode == nil && req.TargetWay == nil) {
		td.logger.Debug("routing: unresolved start or target")
		return nil, nil
	}

	if req.TargetNode != nil && req.Start.GetID() == req.TargetNode.GetID() {
		return route.NewEmptyRoute(req.Map, req.Start.GetID()), nil
	}
	if req.TargetNode == nil && req.TargetWay.Contains(req.Start.GetID()) {
		return route.NewEmptyRoute(req.Map, req.Start.GetID()), nil
	}

	s := &search{
		req:          req,
		logger:       td.logger,
		allowUTurn:   td.allowUTurn,
		restrictions: newRestrictionIndex(req.Map, req.Selector, td.logger),
		info:         make(map[searchKey]*VertexInfo[searchKey]),
		pq:           da.NewFourAryHeap[searchKey](),
	}
	return s.run(ctx)
}

func (s *search) isTarget(nodeID int64) bool {
	if s.req.TargetNode != nil {
		return nodeID == s.req.TargetNode.GetID()
	}
	return s.req.TargetWay.Contains(nodeID)
}

func (s *search) run(ctx context.Context) (*route.Route, error) {
	startKey := newStartKey(s.req.Start.GetID())
	startNode := da.NewPriorityQueueNode(0, startKey)
	s.pq.Insert(startNode)
	s.info[startKey] = NewVertexInfo(0, startNode)

	for !s.pq.IsEmpty() {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("routing: search cancelled", zap.Int("settled", s.numSettledNodes))
			return nil, err
		}

		heapNode, _ := s.pq.ExtractMin()
		uKey := heapNode.GetItem()
		uInfo := s.info[uKey]
		uInfo.Scan()
		s.numSettledNodes++

		if s.numSettledNodes%progressEvery == 0 {
			s.reportProgress(uKey.node)
		}

		if s.isTarget(uKey.node) {
			s.reportProgress(uKey.node)
			return s.reconstruct(uKey), nil
		}

		s.relax(uKey, uInfo)
	}

	s.reportProgress(s.req.Start.GetID())
	return nil, nil
}

func (s *search) reportProgress(nodeID int64) {
	if s.req.Progress == nil {
		return
	}
	done := float64(s.numSettledNodes)
	s.req.Progress(done, done+float64(s.pq.Size()), s.req.Map.GetNodeByID(nodeID))
}

// relax. enumerate candidate steps from u in stable order: ways by id, way positions ascending, forward first
func (s *search) relax(uKey searchKey, uInfo *VertexInfo[searchKey]) {
	m := s.req.Map
	sel := s.req.Selector
	crossing := m.GetNodeByID(uKey.node)
	if crossing == nil {
		return
	}
	fromStep := uInfo.GetStep()

	for _, way := range m.GetWaysForNode(uKey.node) {
		if !sel.IsAllowedWay(m, way) {
			continue
		}
		if uKey.hasWay && !s.transitionPermitted(uKey, way) {
			continue
		}

		for _, step := range s.candidateSteps(way, uKey.node) {
			reversal := uKey.hasWay && step.GetWayID() == uKey.way && step.IsForward() != uKey.forward
			if reversal {
				if !s.allowUTurn || !s.restrictions.transitionAllowed(uKey.way, uKey.node, way.GetID(), false) {
					continue
				}
			}
			via, ok := s.restrictions.advanceViaWay(uKey, way.GetID(), reversal)
			if !ok {
				continue
			}

			next := m.GetNodeByID(step.GetEndID())
			if next == nil || !sel.IsAllowedNode(m, next) {
				continue
			}

			newCost := uInfo.GetTravelCost() + s.req.Metric.GetCost(step) + s.req.Metric.GetTurnCost(crossing, fromStep, step)
			if da.Ge(newCost, pkg.INF_WEIGHT) {
				continue
			}

			vKey := newSearchKey(step, via)
			vInfo, labelled := s.info[vKey]
			if labelled && (vInfo.IsScanned() || newCost >= vInfo.GetTravelCost()) {
				continue
			}

			if labelled {
				vInfo.UpdateTravelCost(newCost)
				vInfo.UpdateParent(uKey, step)
				s.pq.DecreaseKey(vInfo.GetHeapNode(), newCost)
				continue
			}

			vhNode := da.NewPriorityQueueNode(newCost, vKey)
			vInfo = NewVertexInfo(newCost, vhNode)
			vInfo.UpdateParent(uKey, step)
			s.info[vKey] = vInfo
			s.pq.Insert(vhNode)
		}
	}
}

// transitionPermitted. turn restrictions for leaving the via way of uKey onto way, u-turns are checked per step
func (s *search) transitionPermitted(uKey searchKey, way *da.Way) bool {
	if way.GetID() == uKey.way {
		// continuing ahead on the same way, only positive restrictions bind
		return s.restrictions.transitionAllowed(uKey.way, uKey.node, way.GetID(), true)
	}
	return s.restrictions.transitionAllowed(uKey.way, uKey.node, way.GetID(), false)
}

// candidateSteps. one-segment steps leaving nodeID along way, honouring oneway direction
func (s *search) candidateSteps(way *da.Way, nodeID int64) []*route.RoutingStep {
	m := s.req.Map
	n := way.NumberOfNodes()
	if n < 2 {
		return nil
	}
	closed := way.IsClosed()
	period := n
	if closed {
		period = n - 1
	}

	forwardOK, backwardOK := true, true
	if s.req.Selector.IsOneway(m, way) {
		if s.req.Selector.IsReverseOneway(m, way) {
			forwardOK = false
		} else {
			backwardOK = false
		}
	}

	steps := make([]*route.RoutingStep, 0, 2)
	add := func(from, to int, forward bool) {
		step, err := route.NewDirectedRoutingStep(m, way, from, to, forward)
		if err != nil {
			// degenerate way (repeated node), nothing to traverse
			return
		}
		steps = append(steps, step)
	}

	for _, i := range way.IndicesOf(nodeID) {
		if forwardOK {
			if closed {
				add(i, (i+1)%period, true)
			} else if i+1 < n {
				add(i, i+1, true)
			}
		}
		if backwardOK {
			if closed {
				add(i, (i-1+period)%period, false)
			} else if i-1 >= 0 {
				add(i, i-1, false)
			}
		}
	}
	return steps
}

// reconstruct. walk parent links from goal to start, reverse, merge consecutive segments of one way
func (s *search) reconstruct(goal searchKey) *route.Route {
	segments := make([]*route.RoutingStep, 0)
	cur := goal
	for {
		info := s.info[cur]
		parent, ok := info.GetParent()
		if !ok {
			break
		}
		segments = append(segments, info.GetStep())
		cur = parent
	}
	segments = util.ReverseG(segments)
	return route.NewRoute(mergeSegments(s.req.Map, segments))
}

func mergeSegments(m mapdata.MapData, segments []*route.RoutingStep) []*route.RoutingStep {
	steps := make([]*route.RoutingStep, 0, len(segments))
	for _, seg := range segments {
		if len(steps) == 0 {
			steps = append(steps, seg)
			continue
		}
		last := steps[len(steps)-1]
		if last.GetWayID() != seg.GetWayID() || last.IsForward() != seg.IsForward() ||
			last.GetEndIndex() != seg.GetStartIndex() {
			steps = append(steps, seg)
			continue
		}
		way := last.GetWay()
		merged, err := route.NewDirectedRoutingStep(m, way, last.GetStartIndex(), seg.GetEndIndex(), last.IsForward())
		if err != nil {
			// full loop around a closed way, start == end
			steps = append(steps, seg)
			continue
		}
		steps[len(steps)-1] = merged
	}
	return steps
}

// SnapToGraph. nearest node usable by sel
func SnapToGraph(m mapdata.MapData, sel mapdata.Selector, lat, lon float64) (*da.Node, error) {
	n := m.GetNearestNode(geo.NewCoordinate(lat, lon), sel)
	if n == nil {
		return nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "no routable node near (%f, %f)", lat, lon)
	}
	return n, nil
}
