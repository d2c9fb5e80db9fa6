package usecases

import (
	"sync"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/gps"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"go.uber.org/zap"
)

const (
	EVENT_ROUTE_CHANGED  = "route_changed"
	EVENT_NO_ROUTE       = "no_route"
	EVENT_PROGRESS       = "progress"
	EVENT_STEP_CHANGED   = "step_changed"
	EVENT_INSTRUCTION    = "instruction"
	EVENT_SPEECH         = "speech"
	EVENT_FIX_LOST       = "fix_lost"
	EVENT_SESSION_OPENED = "session"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type EventFunc func(ev Event)

type Fix struct {
	Lat         float64
	Lon         float64
	Course      *float64
	Speed       *float64
	Altitude    *float64
	EpochMillis *int64
}

type RouteSummary struct {
	SessionID      string
	Polyline       string
	DistanceMeters float64
	EtaSeconds     float64
	NumberOfSteps  int
	Calculating    bool
	ProgressDone   float64
	ProgressTotal  float64
}

/*
NavigationService. one navigation session: the manager, the gps tracker that feeds it, and the describer of the
current route. manager callbacks and spoken instructions are published to the subscribers as events.
*/
type NavigationService struct {
	log      *zap.Logger
	manager  NavigationManager
	tracker  *gps.Tracker
	graph    mapdata.MapData
	sel      mapdata.Selector
	messages *guidance.Messages
	speed    route.StepSpeed

	speechThresholdKm float64

	mu            sync.Mutex
	describer     *guidance.RouteDescriber
	describedFor  *route.Route
	currentManeuv *guidance.Instruction
	announced     *guidance.Instruction

	subMu   sync.RWMutex
	subSeq  uint64
	subs    map[uint64]EventFunc
	removes []func()
}

func NewNavigationService(log *zap.Logger, manager NavigationManager, graph mapdata.MapData, sel mapdata.Selector,
	messages *guidance.Messages, speed route.StepSpeed, speechThresholdKm float64) *NavigationService {
	ns := &NavigationService{
		log:               log,
		manager:           manager,
		graph:             graph,
		sel:               sel,
		messages:          messages,
		speed:             speed,
		speechThresholdKm: speechThresholdKm,
		subs:              make(map[uint64]EventFunc),
	}
	ns.tracker = gps.NewTracker(manager, log)
	ns.removes = append(ns.removes,
		manager.AddRouteListener(ns),
		manager.AddProgressListener(ns),
		manager.AddRoutingStepListener(ns),
	)
	return ns
}

func (ns *NavigationService) GetSessionID() string {
	return ns.manager.GetSessionID()
}

// Subscribe. fn receives every event until the returned function is called
func (ns *NavigationService) Subscribe(fn EventFunc) func() {
	ns.subMu.Lock()
	id := ns.subSeq
	ns.subSeq++
	ns.subs[id] = fn
	ns.subMu.Unlock()

	return func() {
		ns.subMu.Lock()
		delete(ns.subs, id)
		ns.subMu.Unlock()
	}
}

func (ns *NavigationService) publish(ev Event) {
	ns.subMu.RLock()
	fns := make([]EventFunc, 0, len(ns.subs))
	for _, fn := range ns.subs {
		fns = append(fns, fn)
	}
	ns.subMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Close. detaches the service from the manager
func (ns *NavigationService) Close() {
	for _, remove := range ns.removes {
		remove()
	}
	ns.removes = nil
}

func (ns *NavigationService) SetDestinations(places []navigation.Place, startAtGPS bool) error {
	return ns.manager.SetDestinations(places, startAtGPS)
}

// UpdateFix. optional values are applied before the location so the merged point is complete
func (ns *NavigationService) UpdateFix(fix Fix) {
	if fix.Course != nil {
		ns.tracker.CourseChanged(*fix.Course)
	}
	if fix.Speed != nil {
		ns.tracker.SpeedChanged(*fix.Speed)
	}
	if fix.Altitude != nil {
		ns.tracker.AltitudeChanged(*fix.Altitude)
	}
	if fix.EpochMillis != nil {
		ns.tracker.TimeChanged(*fix.EpochMillis)
	}
	ns.tracker.LocationChanged(fix.Lat, fix.Lon)

	if text, err := ns.CurrentInstruction(); err == nil && text != "" {
		ns.publish(Event{Type: EVENT_INSTRUCTION, Data: text})
	}
}

func (ns *NavigationService) LoseFix() {
	ns.tracker.Lost()
	ns.publish(Event{Type: EVENT_FIX_LOST})
}

func (ns *NavigationService) GetLastPoint() *da.GPSPoint {
	return ns.tracker.GetLastPoint()
}

func (ns *NavigationService) GetRoute() (*RouteSummary, error) {
	r := ns.manager.GetCurrentRoute()
	done, total := ns.manager.GetProgress()
	summary := &RouteSummary{
		SessionID:     ns.manager.GetSessionID(),
		Calculating:   ns.manager.IsCalculating(),
		ProgressDone:  done,
		ProgressTotal: total,
	}
	if r == nil {
		return summary, util.WrapErrorf(nil, util.ErrNotFound, "no current route")
	}
	summary.Polyline = r.Polyline()
	summary.DistanceMeters = r.DistanceInMeters()
	summary.NumberOfSteps = r.NumberOfSteps()
	if ns.speed != nil {
		summary.EtaSeconds = r.EstimatedTimeSeconds(ns.speed)
	}
	return summary, nil
}

func (ns *NavigationService) GetInstructions() ([]*guidance.Instruction, error) {
	r := ns.manager.GetCurrentRoute()
	if r == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "no current route")
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	return ns.describerForLocked(r).DescribeAll(), nil
}

/*
CurrentInstruction. phrasing of the next maneuver after the instruction that contains the current routing step,
qualified with the remaining distance from the last fix.
*/
func (ns *NavigationService) CurrentInstruction() (string, error) {
	r := ns.manager.GetCurrentRoute()
	if r == nil {
		return "", util.WrapErrorf(nil, util.ErrNotFound, "no current route")
	}
	fix, ok := ns.manager.GetLastFix()
	if !ok {
		return "", util.WrapErrorf(nil, util.ErrNotFound, "no gps fix")
	}
	step := ns.manager.GetCurrentStep()

	ns.mu.Lock()
	defer ns.mu.Unlock()
	d := ns.describerForLocked(r)
	if step == nil {
		return d.GetCurrentInstruction(0), nil
	}

	if ns.currentManeuv == nil || !containsStep(ns.currentManeuv, step) {
		switch {
		case ns.announced != nil && containsStep(ns.announced, step):
			// drove into the announced maneuver, the describer cursor is already past it
			ns.currentManeuv = ns.announced
		case ns.seekLocked(d, step):
		default:
			d.Reset()
			if !ns.seekLocked(d, step) {
				ns.announced = nil
				return "", util.WrapErrorf(nil, util.ErrNotFound, "step %s is not on the current route", step)
			}
		}
		// the maneuver to announce is the one after the instruction being driven
		ns.announced = d.GetNextInstruction()
	}

	remaining := remainingMeters(ns.currentManeuv, step, fix)
	return d.GetCurrentInstruction(remaining / 1000), nil
}

func (ns *NavigationService) seekLocked(d *guidance.RouteDescriber, step *route.RoutingStep) bool {
	for d.HasNextInstruction() {
		ins := d.GetNextInstruction()
		if containsStep(ins, step) {
			ns.currentManeuv = ins
			return true
		}
	}
	ns.currentManeuv = nil
	return false
}

func (ns *NavigationService) describerForLocked(r *route.Route) *guidance.RouteDescriber {
	if ns.describer == nil || ns.describedFor != r {
		ns.describer = guidance.NewRouteDescriber(r, ns.graph, ns.sel, ns.messages, ns)
		if ns.speechThresholdKm > 0 {
			ns.describer.SetSpeechThreshold(ns.speechThresholdKm)
		}
		ns.describedFor = r
		ns.currentManeuv = nil
		ns.announced = nil
	}
	return ns.describer
}

func containsStep(ins *guidance.Instruction, step *route.RoutingStep) bool {
	for _, s := range ins.Steps {
		if s == step {
			return true
		}
	}
	return false
}

// remainingMeters. rest of step measured along its segments from the projected fix, plus the steps of ins after it
func remainingMeters(ins *guidance.Instruction, step *route.RoutingStep, fix geo.Coordinate) float64 {
	dist := step.RemainingMeters(fix)
	after := false
	for _, s := range ins.Steps {
		if after {
			dist += s.DistanceInMeters()
		}
		if s == step {
			after = true
		}
	}
	return dist
}

// Speak. spoken instructions become speech events
func (ns *NavigationService) Speak(text string) {
	ns.publish(Event{Type: EVENT_SPEECH, Data: text})
}

func (ns *NavigationService) RouteChanged(r *route.Route) {
	ns.log.Info("route changed", zap.String("session", ns.manager.GetSessionID()),
		zap.Int("steps", r.NumberOfSteps()), zap.Float64("distance_m", r.DistanceInMeters()))
	ns.publish(Event{Type: EVENT_ROUTE_CHANGED, Data: map[string]interface{}{
		"polyline": r.Polyline(),
		"distance": r.DistanceInMeters(),
		"steps":    r.NumberOfSteps(),
	}})
}

func (ns *NavigationService) NoRouteFound() {
	ns.log.Info("no route found", zap.String("session", ns.manager.GetSessionID()))
	ns.publish(Event{Type: EVENT_NO_ROUTE})
}

func (ns *NavigationService) ProgressChanged(done, total float64, current *da.Node) {
	data := map[string]interface{}{"done": done, "total": total}
	if current != nil {
		data["node"] = current.GetID()
	}
	ns.publish(Event{Type: EVENT_PROGRESS, Data: data})
}

func (ns *NavigationService) RoutingStepChanged(step *route.RoutingStep) {
	if step == nil {
		return
	}
	ns.publish(Event{Type: EVENT_STEP_CHANGED, Data: map[string]interface{}{
		"way":    step.GetWayID(),
		"start":  step.GetStartID(),
		"end":    step.GetEndID(),
		"street": step.GetStreetName(),
	}})
}
