package guidance

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
)

type TurnSign int

const (
	TURN_SHARP_LEFT    TurnSign = -3
	TURN_LEFT          TurnSign = -2
	TURN_SLIGHT_LEFT   TurnSign = -1
	CONTINUE_ON_STREET TurnSign = 0
	TURN_SLIGHT_RIGHT  TurnSign = 1
	TURN_RIGHT         TurnSign = 2
	TURN_SHARP_RIGHT   TurnSign = 3
	FINISH             TurnSign = 4
	USE_ROUNDABOUT     TurnSign = 6
	U_TURN             TurnSign = 8
	START              TurnSign = 101
)

// turn angle boundaries, measured on the [0, 360) scale where 180 is straight ahead
const (
	uTurnTolerance  = 10.0
	hardTurnBound   = 60.0
	normalTurnBound = 110.0
	slightTurnBound = 140.0
)

func (s TurnSign) String() string {
	switch s {
	case TURN_SHARP_LEFT:
		return "turn_sharp_left"
	case TURN_LEFT:
		return "turn_left"
	case TURN_SLIGHT_LEFT:
		return "turn_slight_left"
	case CONTINUE_ON_STREET:
		return "continue"
	case TURN_SLIGHT_RIGHT:
		return "turn_slight_right"
	case TURN_RIGHT:
		return "turn_right"
	case TURN_SHARP_RIGHT:
		return "turn_sharp_right"
	case FINISH:
		return "arrive"
	case USE_ROUNDABOUT:
		return "roundabout"
	case U_TURN:
		return "u_turn"
	case START:
		return "start"
	default:
		return "unknown"
	}
}

/*
turnAngle. angle between the incoming and outgoing direction at a junction, in [0, 360).

	        out
	         |
	         |
	in ----> J

180 means straight ahead, values below 180 are right turns, values above 180 are left turns,
values near 0/360 are U-turns.
*/ // nolint: gofmt
func turnAngle(inFrom, junction, outTo geo.Coordinate) float64 {
	inBearing := geo.BearingTo(inFrom.GetLat(), inFrom.GetLon(), junction.GetLat(), junction.GetLon())
	outBearing := geo.BearingTo(junction.GetLat(), junction.GetLon(), outTo.GetLat(), outTo.GetLon())
	return geo.NormalizeDegree(inBearing - outBearing + 180)
}

func classifyTurn(angle float64) TurnSign {
	angle = geo.NormalizeDegree(angle)
	switch {
	case angle < uTurnTolerance || angle > 360-uTurnTolerance:
		return U_TURN
	case angle < hardTurnBound:
		return TURN_SHARP_RIGHT
	case angle < normalTurnBound:
		return TURN_RIGHT
	case angle < slightTurnBound:
		return TURN_SLIGHT_RIGHT
	case angle <= 360-slightTurnBound:
		return CONTINUE_ON_STREET
	case angle <= 360-normalTurnBound:
		return TURN_SLIGHT_LEFT
	case angle <= 360-hardTurnBound:
		return TURN_LEFT
	default:
		return TURN_SHARP_LEFT
	}
}
