package costfunction

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

// Congestion. traffic report overlapping a step. FullSpan zones cover the whole step and ignore LengthMeters.
type Congestion struct {
	LengthMeters float64
	ReducedSpeed float64 // km/h
	FullSpan     bool
}

// TrafficSource. congestion zones overlapping a step, e.g. decoded traffic messages
type TrafficSource interface {
	GetCongestions(step *route.RoutingStep) []Congestion
}

// TrafficMetric. FastestMetric with congested parts of a step driven at the reduced speed
type TrafficMetric struct {
	*FastestMetric
	source TrafficSource
}

func NewTrafficMetric(fastest *FastestMetric, source TrafficSource) *TrafficMetric {
	return &TrafficMetric{FastestMetric: fastest, source: source}
}

// GetCost. congestedLength/(reducedSpeed/120) + remainingLength/(normalSpeed/120)
func (tm *TrafficMetric) GetCost(step *route.RoutingStep) float64 {
	length := step.DistanceInMeters()
	normal := tm.GetEstimatedSpeed(step)
	if tm.source == nil {
		return timeCost(length, normal)
	}

	congestions := tm.source.GetCongestions(step)
	if len(congestions) == 0 {
		return timeCost(length, normal)
	}

	// zone spanning the whole step replaces the normal speed term, slowest one wins
	fullSpan := false
	slowest := 0.0
	for _, c := range congestions {
		if !c.FullSpan {
			continue
		}
		if !fullSpan || c.ReducedSpeed < slowest {
			slowest = c.ReducedSpeed
		}
		fullSpan = true
	}
	if fullSpan {
		return timeCost(length, slowest)
	}

	congested := 0.0
	cost := 0.0
	for _, c := range congestions {
		l := util.ClampG(c.LengthMeters, 0, length-congested)
		if l <= 0 {
			continue
		}
		congested += l
		cost += l / (util.MaxG(c.ReducedSpeed, pkg.MIN_SPEED_KMH) / pkg.REFERENCE_SPEED_KMH)
	}
	cost += timeCost(length-congested, normal)
	return finiteCost(cost)
}

func (tm *TrafficMetric) GetTurnCost(crossing *da.Node, from, to *route.RoutingStep) float64 {
	return tm.FastestMetric.GetTurnCost(crossing, from, to)
}
