package guidance

import (
	"sync"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
)

type Instruction struct {
	Sign           TurnSign
	StreetName     string
	Steps          []*route.RoutingStep
	DistanceMeters float64
	ExitNumber     int
	Text           string
}

func (ins *Instruction) GetCoordinates() []geo.Coordinate {
	coords := make([]geo.Coordinate, 0)
	for i, s := range ins.Steps {
		c := s.GetCoordinates()
		if i > 0 && len(c) > 0 {
			c = c[1:]
		}
		coords = append(coords, c...)
	}
	return coords
}

func (ins *Instruction) Polyline() string {
	return geo.PoylineFromCoords(ins.GetCoordinates())
}

// RouteDescriber. walks a route and turns groups of routing steps into driving instructions
type RouteDescriber struct {
	mu              sync.Mutex
	route           *route.Route
	graph           mapdata.MapData
	sel             mapdata.Selector
	messages        *Messages
	speaker         Speaker
	speechThreshold float64

	cursor   int
	finished bool
	current  *Instruction
	spoken   bool
}

func NewRouteDescriber(r *route.Route, graph mapdata.MapData, sel mapdata.Selector, messages *Messages,
	speaker Speaker) *RouteDescriber {
	return &RouteDescriber{
		route:           r,
		graph:           graph,
		sel:             sel,
		messages:        messages,
		speaker:         speaker,
		speechThreshold: pkg.DEFAULT_SPEECH_THRESHOLD_KM,
	}
}

func (rd *RouteDescriber) SetSpeechThreshold(km float64) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.speechThreshold = km
}

func (rd *RouteDescriber) GetRoute() *route.Route {
	return rd.route
}

func (rd *RouteDescriber) steps() []*route.RoutingStep {
	if rd.route == nil {
		return nil
	}
	return rd.route.GetSteps()
}

func (rd *RouteDescriber) HasNextInstruction() bool {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.hasNextLocked()
}

func (rd *RouteDescriber) hasNextLocked() bool {
	return rd.route != nil && !rd.finished
}

// GetNextInstruction. next instruction, the FINISH instruction after the last step, nil once exhausted
func (rd *RouteDescriber) GetNextInstruction() *Instruction {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	return rd.nextLocked()
}

func (rd *RouteDescriber) nextLocked() *Instruction {
	if !rd.hasNextLocked() {
		return nil
	}
	ins, next := rd.describe(rd.cursor)
	rd.cursor = next
	if ins.Sign == FINISH {
		rd.finished = true
	}
	rd.current = ins
	rd.spoken = false
	return ins
}

/*
GetCurrentInstruction. distance qualified phrasing of the current instruction. the speaker is called once per
instruction, the first time distanceToManeuverKm drops below the speech threshold.
*/
func (rd *RouteDescriber) GetCurrentInstruction(distanceToManeuverKm float64) string {
	rd.mu.Lock()
	if rd.current == nil {
		rd.nextLocked()
	}
	ins := rd.current
	if ins == nil {
		rd.mu.Unlock()
		return ""
	}

	text := rd.messages.InDistance(distanceToManeuverKm*1000, ins.Text)
	speak := rd.speaker != nil && !rd.spoken && distanceToManeuverKm < rd.speechThreshold
	if speak {
		rd.spoken = true
	}
	rd.mu.Unlock()

	if speak {
		rd.speaker.Speak(text)
	}
	return text
}

func (rd *RouteDescriber) Reset() {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.cursor = 0
	rd.finished = false
	rd.current = nil
	rd.spoken = false
}

// DescribeAll. every instruction of the route, ending with FINISH. does not move the cursor
func (rd *RouteDescriber) DescribeAll() []*Instruction {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.route == nil {
		return []*Instruction{}
	}
	instructions := make([]*Instruction, 0)
	for i := 0; ; {
		ins, next := rd.describe(i)
		instructions = append(instructions, ins)
		if ins.Sign == FINISH {
			break
		}
		i = next
	}
	return instructions
}

// describe. instruction starting at step index from, and the index of the first step after it
func (rd *RouteDescriber) describe(from int) (*Instruction, int) {
	steps := rd.steps()
	if from >= len(steps) {
		ins := &Instruction{Sign: FINISH, Steps: []*route.RoutingStep{}}
		if len(steps) > 0 {
			ins.StreetName = steps[len(steps)-1].GetStreetName()
		}
		ins.Text = rd.messages.Describe(ins)
		return ins, from
	}

	to := from + 1
	if isRoundaboutStep(steps[from]) {
		for to < len(steps) && isRoundaboutStep(steps[to]) {
			to++
		}
	} else {
		for to < len(steps) && canCombine(rd.graph, steps[to-1], steps[to]) {
			to++
		}
	}
	group := steps[from:to]

	ins := &Instruction{
		Steps:      group,
		StreetName: group[0].GetStreetName(),
	}
	for _, s := range group {
		ins.DistanceMeters += s.DistanceInMeters()
	}

	switch {
	case isRoundaboutStep(group[0]):
		ins.Sign = USE_ROUNDABOUT
		ins.ExitNumber = countRoundaboutExits(rd.graph, rd.sel, group)
		if to < len(steps) {
			ins.StreetName = steps[to].GetStreetName()
		}
	case from == 0:
		ins.Sign = START
	case isRoundaboutStep(steps[from-1]):
		// leaving the roundabout is part of the roundabout instruction
		ins.Sign = CONTINUE_ON_STREET
	default:
		ins.Sign = rd.turnSign(steps[from-1], steps[from])
	}
	ins.Text = rd.messages.Describe(ins)
	return ins, to
}

/*
turnSign. classify the turn from prev onto next:

	inFrom --prev--> J --next--> ... nextEnd

incoming bearing from the node before J to J, outgoing bearing from J to the end of next.
*/ // nolint: gofmt
func (rd *RouteDescriber) turnSign(prev, next *route.RoutingStep) TurnSign {
	prevCoords := prev.GetCoordinates()
	nextCoords := next.GetCoordinates()
	if len(prevCoords) < 2 || len(nextCoords) < 2 {
		return CONTINUE_ON_STREET
	}
	inFrom := prevCoords[len(prevCoords)-2]
	junction := nextCoords[0]
	outTo := nextCoords[len(nextCoords)-1]
	return classifyTurn(turnAngle(inFrom, junction, outTo))
}
