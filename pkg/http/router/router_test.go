package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type idleService struct{}

func (idleService) GetSessionID() string                               { return "s" }
func (idleService) SetDestinations(_ []navigation.Place, _ bool) error { return nil }
func (idleService) UpdateFix(_ usecases.Fix)                           {}
func (idleService) LoseFix()                                           {}
func (idleService) GetLastPoint() *da.GPSPoint                         { return nil }
func (idleService) GetRoute() (*usecases.RouteSummary, error) {
	return nil, util.WrapErrorf(nil, util.ErrNotFound, "no current route")
}
func (idleService) GetInstructions() ([]*guidance.Instruction, error) {
	return nil, util.WrapErrorf(nil, util.ErrNotFound, "no current route")
}
func (idleService) CurrentInstruction() (string, error)   { return "", nil }
func (idleService) Subscribe(_ usecases.EventFunc) func() { return func() {} }

func serve(h http.Handler, req *http.Request) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestHandler(t *testing.T) {
	api := NewAPI(zap.NewNop())
	h := api.Handler(idleService{}, nil)
	defer api.hub.Close()

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		ctype      string
		wantStatus int
	}{
		{"heartbeat", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"no route yet", http.MethodGet, "/api/navigation/route", "", "", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/api/nope", "", "", http.StatusNotFound},
		{"non json body", http.MethodPost, "/api/navigation/fix", "lat=1", "text/plain", http.StatusUnsupportedMediaType},
		{"ws without upgrade", http.MethodGet, "/ws", "", "", http.StatusBadRequest},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.ctype != "" {
				req.Header.Set("Content-Type", tt.ctype)
			}
			assert.Equal(t, tt.wantStatus, serve(h, req))
		})
	}
}

func TestLimit(t *testing.T) {
	api := NewAPI(zap.NewNop())
	h := api.Handler(idleService{}, rate.NewLimiter(0, 1))
	defer api.hub.Close()

	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/api/navigation/route", nil)))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, httptest.NewRequest(http.MethodGet, "/api/navigation/route", nil)))
	// heartbeat sits before the limiter
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil)))
}

func TestRealIP(t *testing.T) {
	testCases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 192.168.1.7 "}, "192.168.1.7"},
		{"garbage", map[string]string{"X-Forwarded-For": "nope"}, ""},
		{"none", nil, ""},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, realIP(req))
		})
	}
}
