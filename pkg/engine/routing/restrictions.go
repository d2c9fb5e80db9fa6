package routing

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"go.uber.org/zap"
)

// turnRestriction. parsed type=restriction relation. no_entry may have several from ways, no_exit several to ways.
type turnRestriction struct {
	id         int64
	kind       pkg.RestrictionKind
	froms      []int64
	tos        []int64
	viaNode    int64
	hasViaNode bool
	viaWays    []int64
}

func (tr *turnRestriction) hasTo(wayID int64) bool {
	for _, to := range tr.tos {
		if to == wayID {
			return true
		}
	}
	return false
}

func parseTurnRestriction(r *da.Relation, value string) (*turnRestriction, error) {
	kind := pkg.ParseRestrictionKind(value)
	if kind == pkg.UNKNOWN_RESTRICTION {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: unknown restriction kind %q", r.GetID(), value)
	}
	tr := &turnRestriction{id: r.GetID(), kind: kind}

	for _, m := range r.GetMembers() {
		switch m.Role {
		case "from":
			if m.Type != da.MEMBER_WAY {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: from member is not a way", r.GetID())
			}
			tr.froms = append(tr.froms, m.Ref)
		case "to":
			if m.Type != da.MEMBER_WAY {
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: to member is not a way", r.GetID())
			}
			tr.tos = append(tr.tos, m.Ref)
		case "via":
			switch m.Type {
			case da.MEMBER_NODE:
				if tr.hasViaNode {
					return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: more than one via node", r.GetID())
				}
				tr.viaNode = m.Ref
				tr.hasViaNode = true
			case da.MEMBER_WAY:
				tr.viaWays = append(tr.viaWays, m.Ref)
			default:
				return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: via member is a relation", r.GetID())
			}
		}
	}

	switch {
	case len(tr.froms) == 0 || len(tr.tos) == 0:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: missing from or to member", r.GetID())
	case !tr.hasViaNode && len(tr.viaWays) == 0:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: missing via member", r.GetID())
	case tr.hasViaNode && len(tr.viaWays) > 0:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: via node and via way mixed", r.GetID())
	}
	if kind.IsPositive() && len(tr.tos) > 1 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "relation %d: %s with several to ways", r.GetID(), kind)
	}
	return tr, nil
}

// restrictionIndex. per search cache of parsed restrictions keyed by from way and by relation id
type restrictionIndex struct {
	m      mapdata.MapData
	sel    mapdata.Selector
	log    *zap.Logger
	byFrom map[int64][]*turnRestriction
	byID   map[int64]*turnRestriction
}

func newRestrictionIndex(m mapdata.MapData, sel mapdata.Selector, log *zap.Logger) *restrictionIndex {
	return &restrictionIndex{m: m, sel: sel, log: log, byFrom: make(map[int64][]*turnRestriction),
		byID: make(map[int64]*turnRestriction)}
}

func (ri *restrictionIndex) restrictionValue(r *da.Relation) string {
	if rv, ok := ri.sel.(RestrictionValuer); ok {
		return rv.RestrictionValue(r)
	}
	return r.GetTags().Find("restriction")
}

func (ri *restrictionIndex) from(wayID int64) []*turnRestriction {
	if rs, ok := ri.byFrom[wayID]; ok {
		return rs
	}
	rs := make([]*turnRestriction, 0)
	for _, rel := range ri.m.GetRestrictionsForWay(wayID) {
		if !ri.sel.IsAllowedRelation(ri.m, rel) {
			continue
		}
		tr, err := parseTurnRestriction(rel, ri.restrictionValue(rel))
		if err != nil {
			ri.log.Warn("skipping malformed turn restriction", zap.Int64("relationID", rel.GetID()), zap.Error(err))
			continue
		}
		rs = append(rs, tr)
		ri.byID[tr.id] = tr
	}
	ri.byFrom[wayID] = rs
	return rs
}

func (ri *restrictionIndex) nodeOnWay(nodeID, wayID int64) bool {
	w := ri.m.GetWayByID(wayID)
	return w != nil && w.Contains(nodeID)
}

// hasViaNodeRestriction. explicit via-node restriction from F at V, shadows via-way restrictions at V
func (ri *restrictionIndex) hasViaNodeRestriction(from int64, via int64) bool {
	for _, tr := range ri.from(from) {
		if tr.hasViaNode && tr.viaNode == via {
			return true
		}
	}
	return false
}

// viaWaysKnown. every via way of tr is present in the map
func (ri *restrictionIndex) viaWaysKnown(tr *turnRestriction) bool {
	for _, id := range tr.viaWays {
		if ri.m.GetWayByID(id) == nil {
			return false
		}
	}
	return len(tr.viaWays) > 0
}

// appliesAt. restriction tr from way F is bound to node V for a transition onto to.
// via-way restrictions whose via ways are in the map are tracked in the search state (advanceViaWay),
// the others bind at any node shared by F and the to way.
func (ri *restrictionIndex) appliesAt(tr *turnRestriction, from, via, to int64) bool {
	if tr.hasViaNode {
		return tr.viaNode == via
	}
	if ri.viaWaysKnown(tr) {
		return false
	}
	return ri.nodeOnWay(via, to) && !ri.hasViaNodeRestriction(from, via)
}

type viaWayState struct {
	restriction int64
	index       int
}

/*
advanceViaWay. state of the via-way restriction after leaving uKey along way.
entering the first via way from a from way starts the restriction, driving on along the via ways keeps it,
leaving the last via way completes it: no_* forbids the exit onto a to way, only_* forbids any other exit.
turning back on a via way drops the restriction (forbidden for only_*). ok=false prunes the step.

	A(from) ---- W(via) ---- B(to)
	        X               Y          restriction starts at X, checked at Y
*/ // nolint: gofmt
func (ri *restrictionIndex) advanceViaWay(uKey searchKey, way int64, reversal bool) (viaWayState, bool) {
	if uKey.viaRestriction != 0 {
		tr := ri.byID[uKey.viaRestriction]
		switch {
		case tr == nil:
		case reversal:
			if tr.kind.IsPositive() {
				return viaWayState{}, false
			}
			return viaWayState{}, true
		case way == tr.viaWays[uKey.viaIndex]:
			return viaWayState{restriction: tr.id, index: uKey.viaIndex}, true
		case uKey.viaIndex+1 < len(tr.viaWays) && way == tr.viaWays[uKey.viaIndex+1]:
			return viaWayState{restriction: tr.id, index: uKey.viaIndex + 1}, true
		case uKey.viaIndex+1 < len(tr.viaWays):
			// left the via chain early: a no_* manoeuvre is abandoned, an only_* one is violated
			if tr.kind.IsPositive() {
				return viaWayState{}, false
			}
		case tr.kind.IsPositive() && way != tr.tos[0]:
			return viaWayState{}, false
		case tr.kind.IsNegative() && tr.hasTo(way):
			return viaWayState{}, false
		}
	}

	if !uKey.hasWay || way == uKey.way {
		return viaWayState{}, true
	}
	for _, tr := range ri.from(uKey.way) {
		if tr.hasViaNode || tr.viaWays[0] != way || !ri.viaWaysKnown(tr) {
			continue
		}
		return viaWayState{restriction: tr.id}, true
	}
	return viaWayState{}, true
}

// transitionAllowed. arriving at via on way from, leaving on way to.
// sameWayAhead is true when the transition continues along from in the same direction.
func (ri *restrictionIndex) transitionAllowed(from, via, to int64, sameWayAhead bool) bool {
	rs := ri.from(from)
	if len(rs) == 0 {
		return true
	}

	for _, tr := range rs {
		if !tr.kind.IsPositive() {
			continue
		}
		target := tr.tos[0]
		if !ri.appliesAt(tr, from, via, target) {
			continue
		}
		if to != target {
			return false
		}
	}

	if sameWayAhead {
		return true
	}
	for _, tr := range rs {
		if !tr.kind.IsNegative() || !tr.hasTo(to) {
			continue
		}
		if ri.appliesAt(tr, from, via, to) {
			return false
		}
	}
	return true
}
