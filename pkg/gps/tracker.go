package gps

import (
	"sync"
	"time"

	da "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/datastructure"
	"go.uber.org/zap"
)

// LocationListener. receives position updates, implemented by navigation.Manager
type LocationListener interface {
	GPSLocationChanged(lat, lon float64)
	GPSLocationLost()
}

/*
Tracker. merges the independent fix callbacks of a gps receiver (location, course, speed, altitude, time)
into one GPSPoint. values are zero until their first update. only location changes and fix loss are
forwarded to the listener.
*/
type Tracker struct {
	mu       sync.RWMutex
	listener LocationListener
	logger   *zap.Logger

	hasFix   bool
	lat      float64
	lon      float64
	course   float64
	speed    float64
	altitude float64
	time     time.Time
}

func NewTracker(listener LocationListener, logger *zap.Logger) *Tracker {
	return &Tracker{
		listener: listener,
		logger:   logger,
	}
}

func (t *Tracker) LocationChanged(lat, lon float64) {
	t.mu.Lock()
	t.lat = lat
	t.lon = lon
	t.hasFix = true
	t.mu.Unlock()

	if t.listener != nil {
		t.listener.GPSLocationChanged(lat, lon)
	}
}

// CourseChanged. degree, 0 = north
func (t *Tracker) CourseChanged(course float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.course = course
}

// SpeedChanged. km/h
func (t *Tracker) SpeedChanged(speed float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speed = speed
}

// AltitudeChanged. meters
func (t *Tracker) AltitudeChanged(altitude float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.altitude = altitude
}

// TimeChanged. milliseconds since the unix epoch
func (t *Tracker) TimeChanged(epochMillis int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.time = time.UnixMilli(epochMillis).UTC()
}

func (t *Tracker) Lost() {
	t.mu.Lock()
	t.hasFix = false
	t.mu.Unlock()

	t.logger.Debug("gps fix lost")
	if t.listener != nil {
		t.listener.GPSLocationLost()
	}
}

func (t *Tracker) HasFix() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hasFix
}

// GetLastPoint. last merged fix, nil when there is no fix
func (t *Tracker) GetLastPoint() *da.GPSPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.hasFix {
		return nil
	}
	return da.NewGPSPointFull(t.lat, t.lon, t.time, t.speed, t.course, t.altitude)
}
