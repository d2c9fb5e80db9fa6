package datastructure

import "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"

// Node. immutable once loaded, owned by the map data source
type Node struct {
	id   int64
	lat  float64
	lon  float64
	tags Tags
}

func NewNode(id int64, lat, lon float64, tags Tags) *Node {
	return &Node{id: id, lat: lat, lon: lon, tags: tags}
}

func (n *Node) GetID() int64 {
	return n.id
}

func (n *Node) GetLat() float64 {
	return n.lat
}

func (n *Node) GetLon() float64 {
	return n.lon
}

func (n *Node) GetTags() Tags {
	return n.tags
}

func (n *Node) GetCoordinate() geo.Coordinate {
	return geo.NewCoordinate(n.lat, n.lon)
}

// Way. ordered node ids, node objects are looked up through the map data source
type Way struct {
	id      int64
	nodeIDs []int64
	tags    Tags
}

func NewWay(id int64, nodeIDs []int64, tags Tags) *Way {
	return &Way{id: id, nodeIDs: nodeIDs, tags: tags}
}

func (w *Way) GetID() int64 {
	return w.id
}

func (w *Way) GetNodeIDs() []int64 {
	return w.nodeIDs
}

func (w *Way) GetTags() Tags {
	return w.tags
}

func (w *Way) NumberOfNodes() int {
	return len(w.nodeIDs)
}

func (w *Way) FirstNode() int64 {
	return w.nodeIDs[0]
}

func (w *Way) LastNode() int64 {
	return w.nodeIDs[len(w.nodeIDs)-1]
}

// IsClosed. first node == last node, e.g. a roundabout
func (w *Way) IsClosed() bool {
	return len(w.nodeIDs) > 2 && w.FirstNode() == w.LastNode()
}

// IndexOf. first position of nodeID in the way, -1 if absent
func (w *Way) IndexOf(nodeID int64) int {
	for i, id := range w.nodeIDs {
		if id == nodeID {
			return i
		}
	}
	return -1
}

func (w *Way) Contains(nodeID int64) bool {
	return w.IndexOf(nodeID) >= 0
}

// IndicesOf. all positions of nodeID. the duplicated closing node of a closed way is reported once (as 0)
func (w *Way) IndicesOf(nodeID int64) []int {
	idx := make([]int, 0, 1)
	last := len(w.nodeIDs) - 1
	for i, id := range w.nodeIDs {
		if id != nodeID {
			continue
		}
		if i == last && w.IsClosed() {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func (w *Way) IsRoundabout() bool {
	return w.tags.Find("junction") == "roundabout" || w.tags.Find("junction") == "circular"
}

type MemberType uint8

const (
	MEMBER_NODE MemberType = iota
	MEMBER_WAY
	MEMBER_RELATION
)

type Member struct {
	Type MemberType
	Ref  int64
	Role string
}

func NewMember(tipe MemberType, ref int64, role string) Member {
	return Member{Type: tipe, Ref: ref, Role: role}
}

// Relation. osm relation, used for turn restrictions (type=restriction)
type Relation struct {
	id      int64
	tags    Tags
	members []Member
}

func NewRelation(id int64, tags Tags, members []Member) *Relation {
	return &Relation{id: id, tags: tags, members: members}
}

func (r *Relation) GetID() int64 {
	return r.id
}

func (r *Relation) GetTags() Tags {
	return r.tags
}

func (r *Relation) GetMembers() []Member {
	return r.members
}

// MembersWithRole. members having role, in relation order
func (r *Relation) MembersWithRole(role string) []Member {
	ms := make([]Member, 0, 1)
	for _, m := range r.members {
		if m.Role == role {
			ms = append(ms, m)
		}
	}
	return ms
}

func (r *Relation) IsRestriction() bool {
	return r.tags.Find("type") == "restriction"
}
