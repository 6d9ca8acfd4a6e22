// Command supervisor runs the Instance Manager: it exposes the external
// Controller surface over TCP and the internal Supervisor surface over a
// Unix domain socket, and owns every match sandbox's lifecycle.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/lightsing/splendor/internal/logging"
	"github.com/lightsing/splendor/internal/supervisor"
)

func main() {
	controllerAddr := envOr("CONTROLLER_ADDR", "0.0.0.0:9090")
	supervisorSocket := envOr("SUPERVISOR_SOCKET", "/var/run/splendor/supervisor.sock")
	serverImage := envOr("SERVER_IMAGE", "splendor-matchserver:latest")

	logBackend, err := logging.New(logging.Config{
		LogDir:      envOr("LOG_DIR", ""),
		LogFilename: "supervisor.log",
		DebugLevel:  envOr("DEBUG_LEVEL", "info"),
	})
	if err != nil {
		log.Fatalf("supervisor: logging: %v", err)
	}
	defer logBackend.Close()
	logger := logBackend.Logger("SPVR")

	manager := supervisor.NewManager()
	runtime := supervisor.NewLogRuntime(logger.Infof)
	env := supervisor.ServerEnv{
		StepTimeoutSeconds:     30,
		SecretsPath:            "/app/secrets",
		ServerAddr:             "0.0.0.0:8080",
		SupervisorSocket:       "/var/run/splendor/supervisor.sock",
		SupervisorSocketVolume: "splendor-supervisor-socket",
	}
	srv := supervisor.NewServer(manager, runtime, supervisor.Images{Server: serverImage}, env, logger.Infof)

	reg := prometheus.NewRegistry()
	sampler, err := supervisor.NewHostSampler(reg)
	if err != nil {
		log.Fatalf("supervisor: host sampler: %v", err)
	}
	go sampleLoop(sampler)
	go serveMetrics(reg)

	controllerListener, err := net.Listen("tcp", controllerAddr)
	if err != nil {
		log.Fatalf("supervisor: listen controller %s: %v", controllerAddr, err)
	}
	_ = os.MkdirAll(socketDir(supervisorSocket), 0o755)
	_ = os.Remove(supervisorSocket)
	internalListener, err := net.Listen("unix", supervisorSocket)
	if err != nil {
		log.Fatalf("supervisor: listen supervisor socket %s: %v", supervisorSocket, err)
	}

	controllerServer := grpc.NewServer()
	supervisor.RegisterControllerServer(controllerServer, srv)

	internalServer := grpc.NewServer()
	supervisor.RegisterSupervisorServer(internalServer, srv)

	go func() {
		log.Printf("supervisor: controller surface listening on %s", controllerAddr)
		if err := controllerServer.Serve(controllerListener); err != nil {
			log.Printf("supervisor: controller server: %v", err)
		}
	}()
	go func() {
		log.Printf("supervisor: internal surface listening on %s", supervisorSocket)
		if err := internalServer.Serve(internalListener); err != nil {
			log.Printf("supervisor: internal server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("supervisor: shutting down")
	controllerServer.GracefulStop()
	internalServer.GracefulStop()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer drainCancel()
	for _, err := range manager.DrainAll(drainCtx) {
		log.Printf("supervisor: %v", err)
	}
}

func sampleLoop(s *supervisor.HostSampler) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		s.Sample()
	}
}

func serveMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(":9101", mux); err != nil && err != http.ErrServerClosed {
		log.Printf("supervisor: metrics server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func socketDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}
