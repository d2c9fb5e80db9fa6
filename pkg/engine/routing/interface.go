package routing

import (
	"context"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
)

// ProgressFunc. done = settled states, total = settled + states still in the frontier
type ProgressFunc func(done, total float64, current *da.Node)

// Request. one path search. exactly one of TargetNode / TargetWay is set,
// a way target is reached as soon as any node of the way is settled.
type Request struct {
	Map        mapdata.MapData
	Start      *da.Node
	TargetNode *da.Node
	TargetWay  *da.Way
	Selector   mapdata.Selector
	Metric     costfunction.RoutingMetric
	Progress   ProgressFunc
}

// Router. returns (nil, nil) if the target is unreachable, ctx.Err() if cancelled
type Router interface {
	Route(ctx context.Context, req Request) (*route.Route, error)
}

// RestrictionValuer. optional Selector extension, vehicle specific restriction tag value of a relation
type RestrictionValuer interface {
	RestrictionValue(r *da.Relation) string
}
