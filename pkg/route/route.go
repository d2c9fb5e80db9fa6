package route

import (
	"sync"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
)

// StepSpeed. estimated travel speed (km/h) of a step, implemented by the speed based metrics
type StepSpeed interface {
	GetEstimatedSpeed(step *RoutingStep) float64
}

// Route. ordered steps with steps[i].end == steps[i+1].start. an empty route still knows its start node.
type Route struct {
	graph       mapdata.MapData
	steps       []*RoutingStep
	startNodeID int64
	hasStart    bool

	distOnce sync.Once
	dist     float64
}

func NewRoute(steps []*RoutingStep) *Route {
	r := &Route{steps: steps}
	if len(steps) > 0 {
		r.graph = steps[0].graph
		r.startNodeID = steps[0].startID
		r.hasStart = true
	}
	return r
}

// NewEmptyRoute. zero step route, e.g. start == target
func NewEmptyRoute(graph mapdata.MapData, startNodeID int64) *Route {
	return &Route{graph: graph, startNodeID: startNodeID, hasStart: true}
}

func (r *Route) GetSteps() []*RoutingStep {
	return r.steps
}

func (r *Route) NumberOfSteps() int {
	return len(r.steps)
}

func (r *Route) IsEmpty() bool {
	return len(r.steps) == 0
}

func (r *Route) GetStartNodeID() (int64, bool) {
	return r.startNodeID, r.hasStart
}

func (r *Route) GetEndNodeID() (int64, bool) {
	if len(r.steps) == 0 {
		return r.startNodeID, r.hasStart
	}
	return r.steps[len(r.steps)-1].endID, true
}

func (r *Route) GetStartNode() *da.Node {
	id, ok := r.GetStartNodeID()
	if !ok || r.graph == nil {
		return nil
	}
	return r.graph.GetNodeByID(id)
}

func (r *Route) GetEndNode() *da.Node {
	id, ok := r.GetEndNodeID()
	if !ok || r.graph == nil {
		return nil
	}
	return r.graph.GetNodeByID(id)
}

// DistanceInMeters. sum of step distances, computed once
func (r *Route) DistanceInMeters() float64 {
	r.distOnce.Do(func() {
		for _, s := range r.steps {
			r.dist += s.DistanceInMeters()
		}
	})
	return r.dist
}

// EstimatedTimeSeconds. travel time using the speed estimate of sp
func (r *Route) EstimatedTimeSeconds(sp StepSpeed) float64 {
	total := 0.0
	for _, s := range r.steps {
		speed := sp.GetEstimatedSpeed(s)
		if speed <= 0 {
			continue
		}
		total += s.DistanceInMeters() / (speed / 3.6)
	}
	return total
}

// Coordinates. route geometry, junction nodes shared by consecutive steps appear once
func (r *Route) Coordinates() []geo.Coordinate {
	if len(r.steps) == 0 {
		if n := r.GetStartNode(); n != nil {
			return []geo.Coordinate{n.GetCoordinate()}
		}
		return []geo.Coordinate{}
	}
	coords := make([]geo.Coordinate, 0, len(r.steps)*2)
	for i, s := range r.steps {
		stepCoords := s.GetCoordinates()
		if i > 0 && len(stepCoords) > 0 {
			stepCoords = stepCoords[1:]
		}
		coords = append(coords, stepCoords...)
	}
	return coords
}

func (r *Route) Polyline() string {
	return geo.PoylineFromCoords(r.Coordinates())
}

// Combine. concatenates sub-routes in the given order. caller must pass routes whose endpoints chain,
// this is not re-validated. empty routes are skipped.
func Combine(routes ...*Route) *Route {
	steps := make([]*RoutingStep, 0)
	var first *Route
	for _, r := range routes {
		if r == nil {
			continue
		}
		if first == nil {
			first = r
		}
		steps = append(steps, r.steps...)
	}
	if len(steps) > 0 {
		return NewRoute(steps)
	}
	if first != nil {
		return &Route{graph: first.graph, startNodeID: first.startNodeID, hasStart: first.hasStart}
	}
	return NewRoute(nil)
}
