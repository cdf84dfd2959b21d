package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/user-service/internal/bootstrap"
	"github.com/baechuer/user-service/internal/logger"
)

// Used when the server does not report its own drain window.
const defaultShutdownTimeout = 15 * time.Second

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
	DrainTimeout() time.Duration
}

type realServer struct{ *bootstrap.Server }

func (s realServer) Addr() string                { return s.Server.Addr }
func (s realServer) DrainTimeout() time.Duration { return s.ShutdownTimeout }

type serverBuilder func() (httpServer, func(), error)

// Run builds the server, serves until a signal arrives or the listener
// fails, then drains in-flight requests. It returns the process exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	listenErr := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("user-service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-listenErr:
		lg.Error().Err(err).Msg("listener failed")
		return 1
	}

	drain(srv, lg)
	return 0
}

// drain stops accepting connections and waits for active requests up to the
// server's drain window, then force-closes whatever is left.
func drain(srv httpServer, lg zerolog.Logger) {
	timeout := srv.DrainTimeout()
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	started := time.Now()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Dur("timeout", timeout).Msg("drain incomplete, closing remaining connections")
		_ = srv.Close()
		return
	}
	lg.Info().Dur("took", time.Since(started)).Msg("shutdown complete")
}

func buildFromBootstrap() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return realServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(buildFromBootstrap, sigCh, zlog.Logger))
}
