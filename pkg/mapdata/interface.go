package mapdata

import (
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
)

// MapData. read-only access to the road graph. implementations must be safe for concurrent readers
type MapData interface {
	GetNodeByID(id int64) *da.Node
	GetWayByID(id int64) *da.Way
	GetRelationByID(id int64) *da.Relation
	// GetWaysForNode. all ways referencing nodeID, ordered by way id
	GetWaysForNode(nodeID int64) []*da.Way
	// GetNearestNode. nearest node allowed by sel that lies on at least one allowed way, nil if none
	GetNearestNode(c geo.Coordinate, sel Selector) *da.Node
	// GetRestrictionsForWay. restriction relations that have wayID as the "from" member
	GetRestrictionsForWay(wayID int64) []*da.Relation
}

// Selector. vehicle policy, decides which map elements may be used and in which direction
type Selector interface {
	IsAllowedNode(m MapData, n *da.Node) bool
	IsAllowedWay(m MapData, w *da.Way) bool
	IsAllowedRelation(m MapData, r *da.Relation) bool
	IsOneway(m MapData, w *da.Way) bool
	IsReverseOneway(m MapData, w *da.Way) bool
}

func GetNodeTag(n *da.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	return n.GetTags().Get(key)
}

func GetWayTag(w *da.Way, key string) (string, bool) {
	if w == nil {
		return "", false
	}
	return w.GetTags().Get(key)
}

// GetStreetName. name of the way, falls back to ref (e.g. "A7")
func GetStreetName(w *da.Way) string {
	if name, ok := GetWayTag(w, "name"); ok && name != "" {
		return name
	}
	ref, _ := GetWayTag(w, "ref")
	return ref
}
