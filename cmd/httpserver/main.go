package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Brownie44l1/upserver/internal/server"
)

func main() {
	config := server.DefaultConfig()
	if err := config.Valid(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := server.NewZeroLogger(os.Stdout, config.LogLevel)
	metrics := server.NewMetrics(prometheus.NewRegistry())

	// Bind before starting the loop so a busy port is fatal
	listener, err := server.Listen(config.Addr)
	if err != nil {
		var bindErr *server.BindError
		if errors.As(err, &bindErr) {
			logger.Error("cannot bind listening address", server.Field{Key: "addr", Value: bindErr.Addr}, server.Field{Key: "error", Value: bindErr.Err})
		}
		os.Exit(1)
	}

	srv := server.New(config, server.WithLogger(logger), server.WithMetrics(metrics))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		srv.Close()
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, server.ErrServerClosed) {
		logger.Error("server error", server.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	stats := metrics.Snapshot()
	logger.Info("server stopped",
		server.Field{Key: "connections", Value: stats.ConnectionsAccepted},
		server.Field{Key: "responses", Value: stats.ResponsesTotal},
		server.Field{Key: "empty_requests", Value: stats.EmptyRequests},
		server.Field{Key: "accept_errors", Value: stats.AcceptErrors},
		server.Field{Key: "write_errors", Value: stats.WriteErrors},
	)
}
