package controllers

import (
	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
)

type NavigationService interface {
	GetSessionID() string
	SetDestinations(places []navigation.Place, startAtGPS bool) error
	UpdateFix(fix usecases.Fix)
	LoseFix()
	GetLastPoint() *da.GPSPoint
	GetRoute() (*usecases.RouteSummary, error)
	GetInstructions() ([]*guidance.Instruction, error)
	CurrentInstruction() (string, error)
	Subscribe(fn usecases.EventFunc) func()
}
