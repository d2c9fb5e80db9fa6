package usecases

import (
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/geo"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
)

type NavigationManager interface {
	GetSessionID() string
	SetDestinations(places []navigation.Place, startAtGPS bool) error
	GPSLocationChanged(lat, lon float64)
	GPSLocationLost()
	GetCurrentRoute() *route.Route
	GetCurrentStep() *route.RoutingStep
	GetLastFix() (geo.Coordinate, bool)
	GetProgress() (float64, float64)
	IsCalculating() bool
	AddRouteListener(l navigation.RouteListener) func()
	AddProgressListener(l navigation.ProgressListener) func()
	AddRoutingStepListener(l navigation.RoutingStepListener) func()
}
