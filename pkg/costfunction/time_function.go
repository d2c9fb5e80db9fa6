package costfunction

import (
	"strings"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/trafficrule"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

const (
	mphToKmh  = 1.609344
	knotToKmh = 1.852
	walkSpeed = 6.0
)

// FastestMetric. static speed metric, cost = meter / (speed / REFERENCE_SPEED_KMH)
type FastestMetric struct {
	rules        trafficrule.Rules
	uTurnPenalty float64
}

// NewFastestMetric. rules may be nil, then only class defaults and maxspeed tags are used
func NewFastestMetric(rules trafficrule.Rules, uTurnPenalty float64) *FastestMetric {
	return &FastestMetric{rules: rules, uTurnPenalty: util.MaxG(uTurnPenalty, 0)}
}

// GetEstimatedSpeed. min(class default speed, maxspeed tag, legal maximum of the road class) in km/h
func (fm *FastestMetric) GetEstimatedSpeed(step *route.RoutingStep) float64 {
	way := step.GetWay()
	if way == nil {
		return pkg.DEFAULT_SPEED_KMH
	}
	roadClass := way.GetTags().Find("highway")
	speed := pkg.GetHighwayType(roadClass).DefaultSpeed()

	if maxSpeed, ok := wayMaxSpeed(way.GetTags(), step.IsForward()); ok {
		speed = util.MinG(speed, maxSpeed)
	}

	if fm.rules != nil {
		if start := step.GetStart(); start != nil {
			if legal, ok := fm.rules.GetMaxSpeed(start.GetCoordinate(), roadClass); ok {
				speed = util.MinG(speed, legal)
			}
		}
	}
	return util.MaxG(speed, pkg.MIN_SPEED_KMH)
}

func (fm *FastestMetric) GetCost(step *route.RoutingStep) float64 {
	return timeCost(step.DistanceInMeters(), fm.GetEstimatedSpeed(step))
}

func (fm *FastestMetric) GetTurnCost(crossing *da.Node, from, to *route.RoutingStep) float64 {
	return uTurnCost(fm.uTurnPenalty, from, to)
}

// timeCost. meter driven at REFERENCE_SPEED_KMH that take as long as length at speed
func timeCost(lengthMeters, speed float64) float64 {
	speed = util.MaxG(speed, pkg.MIN_SPEED_KMH)
	return finiteCost(lengthMeters / (speed / pkg.REFERENCE_SPEED_KMH))
}

// wayMaxSpeed. directional maxspeed:forward / maxspeed:backward before the plain maxspeed tag
func wayMaxSpeed(tags da.Tags, forward bool) (float64, bool) {
	key := "maxspeed:backward"
	if forward {
		key = "maxspeed:forward"
	}
	if v, ok := tags.Get(key); ok {
		if speed, ok := ParseMaxSpeed(v); ok {
			return speed, true
		}
	}
	return ParseMaxSpeed(tags.Find("maxspeed"))
}

// ParseMaxSpeed. https://wiki.openstreetmap.org/wiki/Key:maxspeed
// "50", "30 mph", "10 knots", "walk", "DE:urban", "50;30" (lowest wins). "none" / "signals" -> not usable
func ParseMaxSpeed(value string) (float64, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return 0, false
	}
	if strings.Contains(value, ";") {
		best, found := 0.0, false
		for _, part := range strings.Split(value, ";") {
			if s, ok := ParseMaxSpeed(part); ok && (!found || s < best) {
				best, found = s, true
			}
		}
		return best, found
	}

	switch value {
	case "none", "signals", "variable", "unknown":
		return 0, false
	case "walk":
		return walkSpeed, true
	}

	if idx := strings.Index(value, ":"); idx > 0 {
		switch value[idx+1:] {
		case "urban":
			return 50, true
		case "rural":
			return 100, true
		case "living_street":
			return 7, true
		case "walk":
			return walkSpeed, true
		default:
			return 0, false
		}
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = mphToKmh
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "knots"):
		factor = knotToKmh
		value = strings.TrimSuffix(value, "knots")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "kmh"):
		value = strings.TrimSuffix(value, "kmh")
	}
	speed, err := util.StringToFloat64(value)
	if err != nil || speed <= 0 {
		return 0, false
	}
	return speed * factor, true
}
