package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	orrery "github.com/lek-tom2/onelast-mission-sub001"
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg, err := orrery.LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "configuration failed", "err", err)
		os.Exit(1)
	}

	server := NewServer(cfg, logger)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	select {
	case sig := <-signals:
		level.Info(logger).Log("msg", "shutting down", "signal", sig)
	case err := <-errc:
		if err != http.ErrServerClosed {
			level.Error(logger).Log("msg", "server failed", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "shutdown error", "err", err)
	}
	level.Info(logger).Log("msg", "shutdown complete")
}
