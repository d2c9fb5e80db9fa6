package mapdata

import (
	"math"
	"sort"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/spatialindex"
)

const (
	initialSearchRadiusKm = 0.05
	maxSearchRadiusKm     = 200.0
)

// MemoryMap. in-memory MapData. immutable after Build, so concurrent reads need no locking
type MemoryMap struct {
	nodes        map[int64]*da.Node
	ways         map[int64]*da.Way
	relations    map[int64]*da.Relation
	nodeWays     map[int64][]*da.Way
	restrictions map[int64][]*da.Relation // from-way id -> restriction relations
	rtree        *spatialindex.Rtree
}

func (m *MemoryMap) GetNodeByID(id int64) *da.Node {
	return m.nodes[id]
}

func (m *MemoryMap) GetWayByID(id int64) *da.Way {
	return m.ways[id]
}

func (m *MemoryMap) GetRelationByID(id int64) *da.Relation {
	return m.relations[id]
}

func (m *MemoryMap) GetWaysForNode(nodeID int64) []*da.Way {
	return m.nodeWays[nodeID]
}

func (m *MemoryMap) GetRestrictionsForWay(wayID int64) []*da.Relation {
	return m.restrictions[wayID]
}

func (m *MemoryMap) NumberOfNodes() int {
	return len(m.nodes)
}

func (m *MemoryMap) NumberOfWays() int {
	return len(m.ways)
}

func (m *MemoryMap) NumberOfRelations() int {
	return len(m.relations)
}

/*
GetNearestNode. search the r-tree with a growing bounding box. the best candidate is only accepted once its
distance is inside the searched radius, otherwise a node just outside the box could be nearer.
*/
func (m *MemoryMap) GetNearestNode(c geo.Coordinate, sel Selector) *da.Node {
	for radius := initialSearchRadiusKm; radius <= maxSearchRadiusKm; radius *= 2 {
		best, bestDist := m.nearestAmong(c, sel, m.rtree.SearchWithinRadius(c.Lat, c.Lon, radius))
		if best != nil && bestDist <= radius {
			return best
		}
	}

	all := make([]int64, 0, m.rtree.Len())
	m.rtree.Scan(func(nodeID int64) bool {
		all = append(all, nodeID)
		return true
	})
	best, _ := m.nearestAmong(c, sel, all)
	return best
}

func (m *MemoryMap) nearestAmong(c geo.Coordinate, sel Selector, candidates []int64) (*da.Node, float64) {
	var (
		best     *da.Node
		bestDist = math.Inf(1)
	)
	for _, id := range candidates {
		n := m.nodes[id]
		if n == nil || !m.isRoutable(n, sel) {
			continue
		}
		d := geo.CalculateHaversineDistance(c.Lat, c.Lon, n.GetLat(), n.GetLon())
		if d < bestDist || (d == bestDist && best != nil && n.GetID() < best.GetID()) {
			best = n
			bestDist = d
		}
	}
	return best, bestDist
}

func (m *MemoryMap) isRoutable(n *da.Node, sel Selector) bool {
	if sel == nil {
		return len(m.nodeWays[n.GetID()]) > 0
	}
	if !sel.IsAllowedNode(m, n) {
		return false
	}
	for _, w := range m.nodeWays[n.GetID()] {
		if sel.IsAllowedWay(m, w) {
			return true
		}
	}
	return false
}

// Builder. collects osm elements and builds the indices of a MemoryMap
type Builder struct {
	nodes     map[int64]*da.Node
	ways      map[int64]*da.Way
	relations map[int64]*da.Relation
}

func NewBuilder() *Builder {
	return &Builder{
		nodes:     make(map[int64]*da.Node),
		ways:      make(map[int64]*da.Way),
		relations: make(map[int64]*da.Relation),
	}
}

func (b *Builder) AddNode(n *da.Node) *Builder {
	b.nodes[n.GetID()] = n
	return b
}

// Node. shorthand for AddNode, tags as key value pairs
func (b *Builder) Node(id int64, lat, lon float64, tags ...string) *Builder {
	return b.AddNode(da.NewNode(id, lat, lon, da.NewTags(tags...)))
}

func (b *Builder) AddWay(w *da.Way) *Builder {
	b.ways[w.GetID()] = w
	return b
}

// Way. shorthand for AddWay, tags as key value pairs
func (b *Builder) Way(id int64, nodeIDs []int64, tags ...string) *Builder {
	return b.AddWay(da.NewWay(id, nodeIDs, da.NewTags(tags...)))
}

func (b *Builder) AddRelation(r *da.Relation) *Builder {
	b.relations[r.GetID()] = r
	return b
}

// Restriction. shorthand for a node-via turn restriction relation
func (b *Builder) Restriction(id int64, kind string, from, viaNode, to int64) *Builder {
	return b.AddRelation(da.NewRelation(id, da.NewTags("type", "restriction", "restriction", kind), []da.Member{
		da.NewMember(da.MEMBER_WAY, from, "from"),
		da.NewMember(da.MEMBER_NODE, viaNode, "via"),
		da.NewMember(da.MEMBER_WAY, to, "to"),
	}))
}

func (b *Builder) HasNode(id int64) bool {
	_, ok := b.nodes[id]
	return ok
}

func (b *Builder) Build() *MemoryMap {
	m := &MemoryMap{
		nodes:        b.nodes,
		ways:         b.ways,
		relations:    b.relations,
		nodeWays:     make(map[int64][]*da.Way, len(b.nodes)),
		restrictions: make(map[int64][]*da.Relation),
		rtree:        spatialindex.NewRtree(),
	}

	for _, w := range b.ways {
		seen := make(map[int64]struct{}, w.NumberOfNodes())
		for _, nodeID := range w.GetNodeIDs() {
			if _, ok := seen[nodeID]; ok {
				continue
			}
			seen[nodeID] = struct{}{}
			m.nodeWays[nodeID] = append(m.nodeWays[nodeID], w)
		}
	}
	for nodeID, ways := range m.nodeWays {
		sort.Slice(ways, func(i, j int) bool { return ways[i].GetID() < ways[j].GetID() })
		if n, ok := m.nodes[nodeID]; ok {
			m.rtree.Insert(nodeID, n.GetLat(), n.GetLon())
		}
	}

	for _, r := range b.relations {
		if !r.IsRestriction() {
			continue
		}
		for _, from := range r.MembersWithRole("from") {
			if from.Type != da.MEMBER_WAY {
				continue
			}
			m.restrictions[from.Ref] = append(m.restrictions[from.Ref], r)
		}
	}
	for wayID, rels := range m.restrictions {
		sort.Slice(rels, func(i, j int) bool { return rels[i].GetID() < rels[j].GetID() })
		m.restrictions[wayID] = rels
	}

	return m
}
