package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/guidance"
	helper "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNavigationService struct {
	mu           sync.Mutex
	places       []navigation.Place
	startAtGPS   bool
	setErr       error
	fixes        []usecases.Fix
	lost         int
	summary      *usecases.RouteSummary
	instructions []*guidance.Instruction
	current      string
	subs         []usecases.EventFunc
}

func (f *fakeNavigationService) GetSessionID() string { return "session-1" }

func (f *fakeNavigationService) SetDestinations(places []navigation.Place, startAtGPS bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.places, f.startAtGPS = places, startAtGPS
	return f.setErr
}

func (f *fakeNavigationService) UpdateFix(fix usecases.Fix) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixes = append(f.fixes, fix)
}

func (f *fakeNavigationService) LoseFix() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lost++
}

func (f *fakeNavigationService) GetLastPoint() *da.GPSPoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.fixes) == 0 {
		return nil
	}
	last := f.fixes[len(f.fixes)-1]
	return da.NewGPSPointFull(last.Lat, last.Lon, time.Time{}, 0, 0, 0)
}

func (f *fakeNavigationService) GetRoute() (*usecases.RouteSummary, error) {
	if f.summary == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "no current route")
	}
	return f.summary, nil
}

func (f *fakeNavigationService) GetInstructions() ([]*guidance.Instruction, error) {
	if f.instructions == nil {
		return nil, util.WrapErrorf(nil, util.ErrNotFound, "no current route")
	}
	return f.instructions, nil
}

func (f *fakeNavigationService) CurrentInstruction() (string, error) {
	if f.current == "" {
		return "", util.WrapErrorf(nil, util.ErrNotFound, "no current route")
	}
	return f.current, nil
}

func (f *fakeNavigationService) Subscribe(fn usecases.EventFunc) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	return func() {}
}

func newTestRouter(svc NavigationService) *httprouter.Router {
	router := httprouter.New()
	New(svc, zap.NewNop()).Routes(helper.NewRouteGroup(router, "/api"))
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSetDestinationsHandler(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		setErr     error
		wantStatus int
		wantPlaces int
	}{
		{"node and coordinate", `{"places":[{"node_id":1},{"lat":-7.7,"lon":110.3}]}`, nil, http.StatusAccepted, 2},
		{"way with gps start", `{"places":[{"way_id":12}],"start_at_gps":true}`, nil, http.StatusAccepted, 1},
		{"empty places", `{"places":[]}`, nil, http.StatusBadRequest, 0},
		{"two kinds in one place", `{"places":[{"node_id":1,"way_id":2}]}`, nil, http.StatusBadRequest, 0},
		{"lat without lon", `{"places":[{"lat":1}]}`, nil, http.StatusBadRequest, 0},
		{"latitude out of range", `{"places":[{"lat":91,"lon":0}]}`, nil, http.StatusBadRequest, 0},
		{"unknown field", `{"places":[{"node_id":1}],"foo":1}`, nil, http.StatusBadRequest, 0},
		{"unresolvable", `{"places":[{"node_id":1}]}`,
			util.WrapErrorf(nil, util.ErrUnresolvablePlace, "node 1"), http.StatusBadRequest, 1},
		{"pool closed", `{"places":[{"node_id":1}]}`,
			util.WrapErrorf(nil, util.ErrPoolClosed, "closed"), http.StatusServiceUnavailable, 1},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeNavigationService{setErr: tt.setErr}
			rec := do(t, newTestRouter(svc), http.MethodPost, "/api/navigation/destinations", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Len(t, svc.places, tt.wantPlaces)
		})
	}
}

func TestSetDestinationsPlaceKinds(t *testing.T) {
	svc := &fakeNavigationService{}
	rec := do(t, newTestRouter(svc), http.MethodPost, "/api/navigation/destinations",
		`{"places":[{"node_id":1},{"way_id":12},{"lat":0.5,"lon":0.25}],"start_at_gps":true}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.places, 3)
	assert.IsType(t, &navigation.NodePlace{}, svc.places[0])
	assert.IsType(t, &navigation.WayPlace{}, svc.places[1])
	assert.IsType(t, &navigation.CoordinatePlace{}, svc.places[2])
	assert.True(t, svc.startAtGPS)
}

func TestFixHandlers(t *testing.T) {
	svc := &fakeNavigationService{current: "In 200 m, turn right onto Jalan Kaliurang"}
	router := newTestRouter(svc)

	rec := do(t, router, http.MethodPost, "/api/navigation/fix", `{"lat":-7.75,"lon":110.38,"speed":30,"course":90}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, svc.fixes, 1)
	require.NotNil(t, svc.fixes[0].Speed)
	assert.Equal(t, 30.0, *svc.fixes[0].Speed)
	assert.Nil(t, svc.fixes[0].Altitude)

	var body struct {
		Data fixResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, -7.75, body.Data.Lat)
	assert.Equal(t, "In 200 m, turn right onto Jalan Kaliurang", body.Data.Instruction)

	rec = do(t, router, http.MethodPost, "/api/navigation/fix", `{"lat":-7.75,"lon":110.38,"course":400}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, svc.fixes, 1)

	rec = do(t, router, http.MethodDelete, "/api/navigation/fix", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, svc.lost)
}

func TestRouteAndInstructionHandlers(t *testing.T) {
	svc := &fakeNavigationService{}
	router := newTestRouter(svc)

	rec := do(t, router, http.MethodGet, "/api/navigation/route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/navigation/instructions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.summary = &usecases.RouteSummary{SessionID: "session-1", Polyline: "??", DistanceMeters: 1200, NumberOfSteps: 3}
	svc.instructions = []*guidance.Instruction{
		{Sign: guidance.START, StreetName: "Jalan Magelang", DistanceMeters: 1200, Text: "Follow Jalan Magelang for 1.2 km"},
		{Sign: guidance.FINISH, Text: "Arrive at your destination"},
	}

	rec = do(t, router, http.MethodGet, "/api/navigation/route", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var routeBody struct {
		Data routeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routeBody))
	assert.Equal(t, 1200.0, routeBody.Data.Distance)
	assert.Equal(t, 3, routeBody.Data.Steps)

	rec = do(t, router, http.MethodGet, "/api/navigation/instructions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var insBody struct {
		Data []instructionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insBody))
	require.Len(t, insBody.Data, 2)
	assert.Equal(t, "start", insBody.Data[0].TurnType)
	assert.Equal(t, "Follow Jalan Magelang for 1.2 km", insBody.Data[0].Instruction)
	assert.Equal(t, "arrive", insBody.Data[1].TurnType)
}
