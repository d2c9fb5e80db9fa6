package engine

import (
	"context"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/config"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/costfunction"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/guidance"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/mapdata"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/navigation"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/route"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/trafficrule"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/vehicle"
	"go.uber.org/zap"
)

// Engine. one navigation session wired from the config: map, metric, router, worker pool, manager and service
type Engine struct {
	graph   mapdata.MapData
	pool    *concurrent.WorkerPool
	manager *navigation.Manager
	service *usecases.NavigationService
	logger  *zap.Logger
}

func (e *Engine) GetMap() mapdata.MapData {
	return e.graph
}

func (e *Engine) GetManager() *navigation.Manager {
	return e.manager
}

func (e *Engine) GetNavigationService() *usecases.NavigationService {
	return e.service
}

func NewEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	logger.Info("Reading map", zap.String("mapFile", cfg.MapFile))
	graph, err := mapdata.LoadOSMFile(ctx, cfg.MapFile, logger)
	if err != nil {
		return nil, err
	}
	return NewEngineWithMap(graph, cfg, logger)
}

// NewEngineWithMap. same as NewEngine over an already loaded map
func NewEngineWithMap(graph mapdata.MapData, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	sel, err := newSelector(cfg.Vehicle)
	if err != nil {
		return nil, err
	}
	metric, err := newMetric(cfg)
	if err != nil {
		return nil, err
	}
	messages, err := guidance.NewMessages(cfg.Locale)
	if err != nil {
		return nil, err
	}

	pool := concurrent.NewWorkerPool(cfg.WorkerPoolSize, 0)
	pool.Start()
	logger.Info("Worker pool started", zap.Int("workers", pool.NumWorkers()))

	router := routing.NewTurnRestrictedDijkstra(logger, cfg.AllowUTurn)
	manager := navigation.NewManager(graph, router, metric, sel, pool,
		navigation.Config{RerouteThresholdKm: cfg.RerouteThresholdKm}, logger)
	service := usecases.NewNavigationService(logger, manager, graph, sel, messages, metric, cfg.SpeechThresholdKm)

	logger.Info("Navigation engine ready", zap.String("metric", cfg.Metric), zap.String("vehicle", cfg.Vehicle),
		zap.String("session", manager.GetSessionID()))
	return &Engine{
		graph:   graph,
		pool:    pool,
		manager: manager,
		service: service,
		logger:  logger,
	}, nil
}

// Close. service first, then the manager's searches, then the pool
func (e *Engine) Close() {
	e.service.Close()
	e.manager.Close()
	e.pool.Close()
	e.logger.Info("Navigation engine stopped")
}

func newSelector(name string) (mapdata.Selector, error) {
	switch name {
	case "motorcar", "":
		return vehicle.NewMotorcar(), nil
	case "bicycle":
		return vehicle.NewBicycle(), nil
	}
	return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown vehicle %q", name)
}

func newMetric(cfg *config.Config) (costfunction.SpeedMetric, error) {
	switch cfg.Metric {
	case "shortest":
		return shortestWithSpeed{ShortestMetric: costfunction.NewShortestMetric(cfg.UTurnPenalty),
			speed: costfunction.NewFastestMetric(nil, 0)}, nil
	case "fastest", "traffic", "":
	default:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown metric %q", cfg.Metric)
	}

	rules, err := trafficrule.NewCachedLookup(trafficrule.NewRegionRules(trafficrule.DefaultRegions()...),
		cfg.TrafficRuleCacheSize)
	if err != nil {
		return nil, err
	}
	fastest := costfunction.NewFastestMetric(rules, cfg.UTurnPenalty)
	if cfg.Metric == "traffic" {
		// no traffic feed attached yet, costs equal the fastest metric until one is
		return costfunction.NewTrafficMetric(fastest, nil), nil
	}
	return fastest, nil
}

// shortestWithSpeed. shortest costs, road class speeds for eta
type shortestWithSpeed struct {
	*costfunction.ShortestMetric
	speed *costfunction.FastestMetric
}

func (s shortestWithSpeed) GetEstimatedSpeed(step *route.RoutingStep) float64 {
	return s.speed.GetEstimatedSpeed(step)
}
