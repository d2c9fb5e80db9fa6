package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/router"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navigatorx-turnbyturn/pkg/http/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use. serves the navigation API until ctx is done or the listener fails
func (s *Server) Use(
	ctx context.Context,
	port int,
	requestsPerSecond float64,
	navigationService controllers.NavigationService,
) error {
	config := http_server.Config{
		Port: port,
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1)
	}

	server := http_router.NewAPI(s.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, navigationService, limiter)
	})
	return g.Wait()
}

// GracefulShutdown. context cancelled on SIGINT / SIGTERM
func GracefulShutdown(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
