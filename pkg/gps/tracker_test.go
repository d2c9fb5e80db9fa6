package gps

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeListener struct {
	mu    sync.Mutex
	fixes [][2]float64
	lost  int
}

func (f *fakeListener) GPSLocationChanged(lat, lon float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixes = append(f.fixes, [2]float64{lat, lon})
}

func (f *fakeListener) GPSLocationLost() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lost++
}

func TestTrackerMergesCallbacks(t *testing.T) {
	l := &fakeListener{}
	tr := NewTracker(l, zap.NewNop())

	assert.Nil(t, tr.GetLastPoint())
	assert.False(t, tr.HasFix())

	tr.CourseChanged(90)
	tr.SpeedChanged(42)
	assert.Empty(t, l.fixes)

	tr.LocationChanged(-7.77, 110.37)
	p := tr.GetLastPoint()
	require.NotNil(t, p)
	assert.Equal(t, -7.77, p.Lat())
	assert.Equal(t, 110.37, p.Lon())
	assert.Equal(t, 90.0, p.Course())
	assert.Equal(t, 42.0, p.Speed())
	assert.Equal(t, 0.0, p.Altitude())
	assert.True(t, p.Time().IsZero())

	tr.AltitudeChanged(120)
	tr.TimeChanged(1700000000123)
	p = tr.GetLastPoint()
	assert.Equal(t, 120.0, p.Altitude())
	assert.Equal(t, time.UnixMilli(1700000000123).UTC(), p.Time())

	assert.Equal(t, [][2]float64{{-7.77, 110.37}}, l.fixes)
}

func TestTrackerLost(t *testing.T) {
	l := &fakeListener{}
	tr := NewTracker(l, zap.NewNop())

	tr.LocationChanged(1, 2)
	tr.SpeedChanged(10)
	tr.Lost()
	assert.False(t, tr.HasFix())
	assert.Nil(t, tr.GetLastPoint())
	assert.Equal(t, 1, l.lost)

	// non-location values survive fix loss
	tr.LocationChanged(3, 4)
	p := tr.GetLastPoint()
	require.NotNil(t, p)
	assert.Equal(t, 10.0, p.Speed())
	assert.Len(t, l.fixes, 2)
}

func TestTrackerWithoutListener(t *testing.T) {
	tr := NewTracker(nil, zap.NewNop())
	tr.LocationChanged(1, 2)
	tr.Lost()
	assert.Nil(t, tr.GetLastPoint())
}
