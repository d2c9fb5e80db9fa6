package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type navigationAPI struct {
	responder
	navigationService NavigationService
	validate          *requestValidator
	log               *zap.Logger
}

func New(navigationService NavigationService, log *zap.Logger) *navigationAPI {
	return &navigationAPI{
		responder:         responder{log: log},
		navigationService: navigationService,
		validate:          newRequestValidator(),
		log:               log,
	}
}

func (api *navigationAPI) Routes(group *helper.RouteGroup) {
	group.POST("/navigation/destinations", api.setDestinations)
	group.POST("/navigation/fix", api.updateFix)
	group.DELETE("/navigation/fix", api.loseFix)
	group.GET("/navigation/route", api.currentRoute)
	group.GET("/navigation/instructions", api.instructions)
}

func (api *navigationAPI) setDestinations(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request destinationsRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	if err := api.navigationService.SetDestinations(request.toPlaces(), request.StartAtGPS); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusAccepted, envelope{"data": envelope{
		"session_id":   api.navigationService.GetSessionID(),
		"destinations": len(request.Places),
	}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *navigationAPI) updateFix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request fixRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	api.navigationService.UpdateFix(request.toFix())

	resp := fixResponse{}
	if point := api.navigationService.GetLastPoint(); point != nil {
		resp.Lat, resp.Lon = point.Lat(), point.Lon()
		resp.Course, resp.Speed, resp.Altitude = point.Course(), point.Speed(), point.Altitude()
		resp.Time = point.Time()
	}
	if text, err := api.navigationService.CurrentInstruction(); err == nil {
		resp.Instruction = text
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": resp}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *navigationAPI) loseFix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	api.navigationService.LoseFix()
	w.WriteHeader(http.StatusNoContent)
}

func (api *navigationAPI) currentRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	summary, err := api.navigationService.GetRoute()
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(summary)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *navigationAPI) instructions(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	instructions, err := api.navigationService.GetInstructions()
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewInstructionResponses(instructions)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
