package costfunction

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

// RoutingMetric. cost of driving a step and of turning between two steps. costs are finite and >= 0
type RoutingMetric interface {
	GetCost(step *route.RoutingStep) float64
	// GetTurnCost. from is nil for the first step of a route
	GetTurnCost(crossing *da.Node, from, to *route.RoutingStep) float64
}

// SpeedMetric. metric that can also estimate the travel speed of a step (km/h)
type SpeedMetric interface {
	RoutingMetric
	GetEstimatedSpeed(step *route.RoutingStep) float64
}

// ShortestMetric. cost is the driven distance in meter
type ShortestMetric struct {
	uTurnPenalty float64
}

func NewShortestMetric(uTurnPenalty float64) *ShortestMetric {
	return &ShortestMetric{uTurnPenalty: util.MaxG(uTurnPenalty, 0)}
}

func (sm *ShortestMetric) GetCost(step *route.RoutingStep) float64 {
	return finiteCost(step.DistanceInMeters())
}

func (sm *ShortestMetric) GetTurnCost(crossing *da.Node, from, to *route.RoutingStep) float64 {
	return uTurnCost(sm.uTurnPenalty, from, to)
}

func uTurnCost(penalty float64, from, to *route.RoutingStep) float64 {
	if from == nil || to == nil {
		return 0
	}
	if to.IsReversalOf(from) {
		return penalty
	}
	return 0
}

// finiteCost. NaN / negative / infinite costs make the edge unusable instead of corrupting the search
func finiteCost(cost float64) float64 {
	if !util.IsFiniteNonNegative(cost) {
		return pkg.INF_WEIGHT
	}
	return util.MinG(cost, pkg.INF_WEIGHT)
}
