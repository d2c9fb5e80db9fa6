package routing

import (
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
)

// searchKey. search state: node reached via way in a direction. the start state has no way.
// viaRestriction is the via-way restriction being driven through (0 if none), viaIndex the via way it is on.
type searchKey struct {
	node           int64
	way            int64
	forward        bool
	hasWay         bool
	viaRestriction int64
	viaIndex       int
}

func newStartKey(node int64) searchKey {
	return searchKey{node: node}
}

func newSearchKey(step *route.RoutingStep, via viaWayState) searchKey {
	return searchKey{node: step.GetEndID(), way: step.GetWayID(), forward: step.IsForward(), hasWay: true,
		viaRestriction: via.restriction, viaIndex: via.index}
}

type VertexInfo[T comparable] struct {
	travelCost float64
	parent     T
	hasParent  bool
	step       *route.RoutingStep // step that reached this state, nil for the start
	scanned    bool
	heapNode   *da.PriorityQueueNode[T]
}

func NewVertexInfo[T comparable](travelCost float64, hnode *da.PriorityQueueNode[T]) *VertexInfo[T] {
	return &VertexInfo[T]{
		travelCost: travelCost,
		heapNode:   hnode,
	}
}

func (vi *VertexInfo[T]) GetTravelCost() float64 {
	return vi.travelCost
}

func (vi *VertexInfo[T]) UpdateTravelCost(c float64) {
	vi.travelCost = c
}

func (vi *VertexInfo[T]) UpdateParent(par T, step *route.RoutingStep) {
	vi.parent = par
	vi.hasParent = true
	vi.step = step
}

func (vi *VertexInfo[T]) GetParent() (T, bool) {
	return vi.parent, vi.hasParent
}

func (vi *VertexInfo[T]) GetStep() *route.RoutingStep {
	return vi.step
}

func (vi *VertexInfo[T]) Scan() {
	vi.scanned = true
}

func (vi *VertexInfo[T]) IsScanned() bool {
	return vi.scanned
}

func (vi *VertexInfo[T]) GetHeapNode() *da.PriorityQueueNode[T] {
	return vi.heapNode
}
