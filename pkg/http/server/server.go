package http_server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Config struct {
	Port              int
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
}

func New(ctx context.Context, handler http.Handler, config Config) *http.Server {
	readHeader := config.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = 10 * time.Second
	}
	idle := config.IdleTimeout
	if idle <= 0 {
		idle = 120 * time.Second
	}
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
		ReadHeaderTimeout: readHeader,
		IdleTimeout:       idle,
	}
}
