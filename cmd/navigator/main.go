package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/config"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/engine"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/logger"
	"go.uber.org/zap"
)

var (
	configDir = flag.String("config_dir", "./data", "directory containing config.yaml")
	mapFile   = flag.String("map_file", "", "osm map (.osm, .osm.bz2 or .osm.pbf), overrides map_file of the config")
)

func main() {
	flag.Parse()
	cfg, err := config.Load(*configDir)
	if err != nil {
		panic(err)
	}
	if *mapFile != "" {
		cfg.MapFile = *mapFile
	}

	logger, err := logger.NewWithLevel(cfg.LogLevel, cfg.Development)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck // ignore

	ctx, stop := http.GracefulShutdown(context.Background())
	defer stop()

	navigationEngine, err := engine.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start navigation engine", zap.Error(err))
	}
	defer navigationEngine.Close()

	api := http.NewServer(logger)
	if err := api.Use(ctx, cfg.APIPort, cfg.APIRateLimit, navigationEngine.GetNavigationService()); err != nil {
		logger.Error("API server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Navigatorx turn-by-turn server stopped")
}
