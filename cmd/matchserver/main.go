// Command matchserver hosts one tournament match to completion: it binds
// player actors over WebSocket, drives the rules engine, and reports the
// outcome to the Supervisor over its internal gRPC surface.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/lightsing/splendor/internal/logging"
	"github.com/lightsing/splendor/internal/match"
	"github.com/lightsing/splendor/internal/rpcjson"
	"github.com/lightsing/splendor/internal/supervisor"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("matchserver: %v", err)
	}

	logBackend, err := logging.New(logging.Config{
		LogDir:      envOr("LOG_DIR", ""),
		LogFilename: "matchserver.log",
		DebugLevel:  envOr("DEBUG_LEVEL", "info"),
	})
	if err != nil {
		log.Fatalf("matchserver: logging: %v", err)
	}
	defer logBackend.Close()
	logger := logBackend.Logger("MTCH")

	conn, err := grpc.NewClient(
		"unix://"+cfg.SupervisorSocket,
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcjson.Name)),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatalf("matchserver: dial supervisor socket %s: %v", cfg.SupervisorSocket, err)
	}
	defer conn.Close()
	supClient := supervisor.NewSupervisorClient(conn)

	reg := prometheus.NewRegistry()
	metrics := match.NewMetrics(reg)

	go serveMetrics(reg)

	srv := match.New(cfg, supClient, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("matchserver: %v", err)
	}
	os.Exit(0)
}

func serveMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(":9100", mux); err != nil && err != http.ErrServerClosed {
		log.Printf("matchserver: metrics server: %v", err)
	}
}

func loadConfig() (match.Config, error) {
	cfg := match.Config{
		GameID:           os.Getenv("GAME_ID"),
		SecretsPath:      envOr("SECRETS_PATH", "/app/secrets"),
		ServerAddr:       envOr("SERVER_ADDR", "0.0.0.0:8080"),
		SupervisorSocket: envOr("SUPERVISOR_SOCKET", "/var/run/splendor/supervisor.sock"),
	}

	n, err := strconv.Atoi(os.Getenv("N_PLAYERS"))
	if err != nil || n < 2 || n > 4 {
		return cfg, errInvalidEnv("N_PLAYERS")
	}
	cfg.NPlayers = n

	timeoutSeconds, err := strconv.Atoi(os.Getenv("STEP_TIMEOUT"))
	if err != nil || timeoutSeconds <= 0 {
		return cfg, errInvalidEnv("STEP_TIMEOUT")
	}
	cfg.StepTimeout = time.Duration(timeoutSeconds) * time.Second

	if raw := os.Getenv("RANDOM_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return cfg, errInvalidEnv("RANDOM_SEED")
		}
		cfg.Seed = &seed
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type envError struct{ key string }

func (e *envError) Error() string { return "invalid or missing environment variable " + e.key }

func errInvalidEnv(key string) error { return &envError{key} }
