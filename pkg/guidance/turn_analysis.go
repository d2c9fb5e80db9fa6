package guidance

import (
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
)

// isSameName. two unnamed streets count as the same street
func isSameName(name1, name2 string) bool {
	return name1 == name2
}

func isRoundaboutStep(s *route.RoutingStep) bool {
	w := s.GetWay()
	return w != nil && w.IsRoundabout()
}

/*
canCombine. prev and next form one visual street when they carry the same name and the junction between them
is not a decision point:

	--prev-- J --next--        combine

	--prev-- J --next--        do not combine, J touches a third way
	         |
	       other
*/ // nolint: gofmt
func canCombine(m mapdata.MapData, prev, next *route.RoutingStep) bool {
	if isRoundaboutStep(prev) != isRoundaboutStep(next) {
		return false
	}
	if !isSameName(prev.GetStreetName(), next.GetStreetName()) {
		return false
	}
	junction := prev.GetEndID()
	for _, w := range m.GetWaysForNode(junction) {
		if w.GetID() != prev.GetWayID() && w.GetID() != next.GetWayID() {
			return false
		}
	}
	return true
}

/*
countRoundaboutExits. exit number of a roundabout pass: the external ways usable as exits at every node passed
between the entry node and the exit node, plus the exit itself.

	      3 (exit)
	    /   \
	   4     2 --- external way
	    \   /
	      1 (entry)

entering at 1 and leaving at 3 passes one usable exit at node 2, so this is the 2nd exit.
*/ // nolint: gofmt
func countRoundaboutExits(m mapdata.MapData, sel mapdata.Selector, group []*route.RoutingStep) int {
	if len(group) == 0 {
		return 0
	}
	own := make(map[int64]struct{}, len(group))
	for _, s := range group {
		own[s.GetWayID()] = struct{}{}
	}

	passed := passedNodes(group)
	exits := 0
	for _, nodeID := range passed {
		for _, w := range m.GetWaysForNode(nodeID) {
			if _, ok := own[w.GetID()]; ok {
				continue
			}
			if w.IsRoundabout() {
				continue
			}
			if isUsableExit(m, sel, w, nodeID) {
				exits++
			}
		}
	}
	return exits + 1
}

// passedNodes. nodes strictly between the entry node and the exit node of a roundabout pass
func passedNodes(group []*route.RoutingStep) []int64 {
	nodes := make([]int64, 0)
	for i, s := range group {
		ids := s.GetNodeIDs()
		if i > 0 {
			// junction node between two roundabout steps is shared
			ids = ids[1:]
		}
		nodes = append(nodes, ids...)
	}
	if len(nodes) <= 2 {
		return []int64{}
	}
	return nodes[1 : len(nodes)-1]
}

// isUsableExit. false for ways that can only be driven into the roundabout at nodeID
func isUsableExit(m mapdata.MapData, sel mapdata.Selector, w *da.Way, nodeID int64) bool {
	if sel != nil && !sel.IsAllowedWay(m, w) {
		return false
	}
	if sel == nil || w.IsClosed() {
		return true
	}
	if sel.IsReverseOneway(m, w) {
		return w.FirstNode() != nodeID
	}
	if sel.IsOneway(m, w) {
		return w.LastNode() != nodeID
	}
	return true
}
