package controllers

import (
	"time"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
)

// placeRequest. exactly one of node_id, way_id or lat/lon
type placeRequest struct {
	NodeID *int64   `json:"node_id,omitempty"`
	WayID  *int64   `json:"way_id,omitempty"`
	Lat    *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon    *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
}

func (p placeRequest) toPlace() navigation.Place {
	switch {
	case p.NodeID != nil:
		return navigation.NewNodePlace(*p.NodeID)
	case p.WayID != nil:
		return navigation.NewWayPlace(*p.WayID)
	default:
		return navigation.NewCoordinatePlace(*p.Lat, *p.Lon)
	}
}

type destinationsRequest struct {
	Places     []placeRequest `json:"places" validate:"required,min=1,dive"`
	StartAtGPS bool           `json:"start_at_gps"`
}

func (r destinationsRequest) toPlaces() []navigation.Place {
	places := make([]navigation.Place, 0, len(r.Places))
	for _, p := range r.Places {
		places = append(places, p.toPlace())
	}
	return places
}

type fixRequest struct {
	Lat         float64  `json:"lat" validate:"min=-90,max=90"`
	Lon         float64  `json:"lon" validate:"min=-180,max=180"`
	Course      *float64 `json:"course,omitempty" validate:"omitempty,min=0,max=360"`
	Speed       *float64 `json:"speed,omitempty" validate:"omitempty,min=0"`
	Altitude    *float64 `json:"altitude,omitempty"`
	EpochMillis *int64   `json:"time,omitempty" validate:"omitempty,min=0"`
}

func (r fixRequest) toFix() usecases.Fix {
	return usecases.Fix{
		Lat:         r.Lat,
		Lon:         r.Lon,
		Course:      r.Course,
		Speed:       r.Speed,
		Altitude:    r.Altitude,
		EpochMillis: r.EpochMillis,
	}
}

type routeResponse struct {
	SessionID     string  `json:"session_id"`
	Polyline      string  `json:"path"`
	Distance      float64 `json:"distance"`
	Eta           float64 `json:"eta"`
	Steps         int     `json:"steps"`
	Calculating   bool    `json:"calculating"`
	ProgressDone  float64 `json:"progress_done"`
	ProgressTotal float64 `json:"progress_total"`
}

func NewRouteResponse(s *usecases.RouteSummary) routeResponse {
	return routeResponse{
		SessionID:     s.SessionID,
		Polyline:      s.Polyline,
		Distance:      s.DistanceMeters,
		Eta:           s.EtaSeconds,
		Steps:         s.NumberOfSteps,
		Calculating:   s.Calculating,
		ProgressDone:  s.ProgressDone,
		ProgressTotal: s.ProgressTotal,
	}
}

type instructionResponse struct {
	Instruction string  `json:"instruction"`
	TurnType    string  `json:"turn_type"`
	StreetName  string  `json:"street_name"`
	Distance    float64 `json:"distance"`
	ExitNumber  int     `json:"exit_number,omitempty"`
	Polyline    string  `json:"polyline"`
}

func NewInstructionResponses(instructions []*guidance.Instruction) []instructionResponse {
	resp := make([]instructionResponse, 0, len(instructions))
	for _, ins := range instructions {
		resp = append(resp, instructionResponse{
			Instruction: ins.Text,
			TurnType:    ins.Sign.String(),
			StreetName:  ins.StreetName,
			Distance:    ins.DistanceMeters,
			ExitNumber:  ins.ExitNumber,
			Polyline:    ins.Polyline(),
		})
	}
	return resp
}

type fixResponse struct {
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Course      float64   `json:"course"`
	Speed       float64   `json:"speed"`
	Altitude    float64   `json:"altitude"`
	Time        time.Time `json:"time"`
	Instruction string    `json:"instruction,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
