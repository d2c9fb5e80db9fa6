package engine

import (
	"testing"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/config"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/vehicle"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestNewMetric(t *testing.T) {
	testCases := []struct {
		metric  string
		check   func(t *testing.T, m costfunction.SpeedMetric)
		wantErr bool
	}{
		{"shortest", func(t *testing.T, m costfunction.SpeedMetric) { assert.IsType(t, shortestWithSpeed{}, m) }, false},
		{"fastest", func(t *testing.T, m costfunction.SpeedMetric) { assert.IsType(t, &costfunction.FastestMetric{}, m) }, false},
		{"traffic", func(t *testing.T, m costfunction.SpeedMetric) { assert.IsType(t, &costfunction.TrafficMetric{}, m) }, false},
		{"teleport", nil, true},
	}
	for _, tt := range testCases {
		t.Run(tt.metric, func(t *testing.T) {
			cfg := defaultConfig(t)
			cfg.Metric = tt.metric
			m, err := newMetric(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrBadParamInput)
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestNewSelector(t *testing.T) {
	sel, err := newSelector("bicycle")
	require.NoError(t, err)
	assert.IsType(t, &vehicle.Bicycle{}, sel)

	sel, err = newSelector("motorcar")
	require.NoError(t, err)
	assert.IsType(t, &vehicle.Motorcar{}, sel)

	_, err = newSelector("boat")
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}

func TestNewEngineWithMap(t *testing.T) {
	m := mapdata.NewBuilder().
		Node(1, 0, 0).
		Node(2, 0, 0.001).
		Way(10, []int64{1, 2}, "highway", "residential").
		Build()

	cfg := defaultConfig(t)
	cfg.WorkerPoolSize = 2
	e, err := NewEngineWithMap(m, cfg, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, m, e.GetMap())
	assert.NotEmpty(t, e.GetManager().GetSessionID())
	assert.Equal(t, e.GetManager().GetSessionID(), e.GetNavigationService().GetSessionID())

	cfg.Locale = "xx"
	_, err = NewEngineWithMap(m, cfg, zap.NewNop())
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}
