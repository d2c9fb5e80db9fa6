package navigation

import (
	"fmt"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

// Place. destination entry, resolved to a graph node when a route is requested.
// way places also return their way, a final way destination is reached at any of its nodes.
type Place interface {
	Resolve(m mapdata.MapData, sel mapdata.Selector) (*da.Node, *da.Way, error)
	Coordinate(m mapdata.MapData) (geo.Coordinate, bool)
	String() string
}

type NodePlace struct {
	nodeID int64
}

func NewNodePlace(nodeID int64) *NodePlace {
	return &NodePlace{nodeID: nodeID}
}

func (p *NodePlace) GetNodeID() int64 {
	return p.nodeID
}

// Resolve. the node itself if the vehicle can use it, else the nearest usable node
func (p *NodePlace) Resolve(m mapdata.MapData, sel mapdata.Selector) (*da.Node, *da.Way, error) {
	n := m.GetNodeByID(p.nodeID)
	if n == nil {
		return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "node %d not found", p.nodeID)
	}
	if sel.IsAllowedNode(m, n) && onAllowedWay(m, sel, n.GetID()) {
		return n, nil, nil
	}
	snapped := m.GetNearestNode(n.GetCoordinate(), sel)
	if snapped == nil {
		return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "no routable node near node %d", p.nodeID)
	}
	return snapped, nil, nil
}

func (p *NodePlace) Coordinate(m mapdata.MapData) (geo.Coordinate, bool) {
	n := m.GetNodeByID(p.nodeID)
	if n == nil {
		return geo.Coordinate{}, false
	}
	return n.GetCoordinate(), true
}

func (p *NodePlace) String() string {
	return fmt.Sprintf("node(%d)", p.nodeID)
}

type WayPlace struct {
	wayID int64
}

func NewWayPlace(wayID int64) *WayPlace {
	return &WayPlace{wayID: wayID}
}

func (p *WayPlace) GetWayID() int64 {
	return p.wayID
}

// Resolve. first usable node of the way plus the way
func (p *WayPlace) Resolve(m mapdata.MapData, sel mapdata.Selector) (*da.Node, *da.Way, error) {
	w := m.GetWayByID(p.wayID)
	if w == nil {
		return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "way %d not found", p.wayID)
	}
	if !sel.IsAllowedWay(m, w) {
		return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "way %d is not usable by the vehicle", p.wayID)
	}
	for _, id := range w.GetNodeIDs() {
		if n := m.GetNodeByID(id); n != nil && sel.IsAllowedNode(m, n) {
			return n, w, nil
		}
	}
	return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "way %d has no usable node", p.wayID)
}

func (p *WayPlace) Coordinate(m mapdata.MapData) (geo.Coordinate, bool) {
	w := m.GetWayByID(p.wayID)
	if w == nil || w.NumberOfNodes() == 0 {
		return geo.Coordinate{}, false
	}
	n := m.GetNodeByID(w.FirstNode())
	if n == nil {
		return geo.Coordinate{}, false
	}
	return n.GetCoordinate(), true
}

func (p *WayPlace) String() string {
	return fmt.Sprintf("way(%d)", p.wayID)
}

// CoordinatePlace. arbitrary position, snapped to the nearest usable node on Resolve
type CoordinatePlace struct {
	coord geo.Coordinate
}

func NewCoordinatePlace(lat, lon float64) *CoordinatePlace {
	return &CoordinatePlace{coord: geo.NewCoordinate(lat, lon)}
}

func (p *CoordinatePlace) Resolve(m mapdata.MapData, sel mapdata.Selector) (*da.Node, *da.Way, error) {
	n := m.GetNearestNode(p.coord, sel)
	if n == nil {
		return nil, nil, util.WrapErrorf(nil, util.ErrUnresolvablePlace, "no routable node near (%f, %f)",
			p.coord.Lat, p.coord.Lon)
	}
	return n, nil, nil
}

func (p *CoordinatePlace) Coordinate(m mapdata.MapData) (geo.Coordinate, bool) {
	return p.coord, true
}

func (p *CoordinatePlace) String() string {
	return fmt.Sprintf("coordinate(%f, %f)", p.coord.Lat, p.coord.Lon)
}

func onAllowedWay(m mapdata.MapData, sel mapdata.Selector, nodeID int64) bool {
	for _, w := range m.GetWaysForNode(nodeID) {
		if sel.IsAllowedWay(m, w) {
			return true
		}
	}
	return false
}
