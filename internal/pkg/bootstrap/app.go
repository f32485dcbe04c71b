// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"oms/internal/pkg/logger"
	"oms/internal/pkg/nacos"
	"oms/internal/pkg/tracing"
)

// AppCtx carries the shared components handed to the service during wiring.
type AppCtx struct {
	Mux   *http.ServeMux
	Nacos *nacos.Client
}

// AppInfo describes one service to StartService.
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx)
	// Workers are long-running loops (consumers) that must stop when the
	// passed context is cancelled.
	Workers []func(ctx context.Context) error
	// OnShutdown runs last, after the HTTP server has drained.
	OnShutdown func(ctx context.Context)
}

// StartService runs the common lifecycle every service shares: tracing,
// registry registration, HTTP server, background workers and graceful,
// LIFO-ordered shutdown. It blocks until SIGINT/SIGTERM.
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()
	log := logger.Logger()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	registry, err := nacos.NewClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize nacos client")
	}

	ip, err := outboundIP()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to determine outbound IP")
	}
	if err := registry.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to register with nacos")
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Nacos: registry})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, workerCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info().Msgf("%s listening on :%d", info.ServiceName, info.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	for _, worker := range info.Workers {
		worker := worker
		g.Go(func() error { return worker(workerCtx) })
	}

	<-workerCtx.Done()
	log.Info().Msgf("shutting down %s...", info.ServiceName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := registry.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
		log.Error().Err(err).Msg("error deregistering from nacos")
	}
	registry.Close()

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down tracer provider")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down http server")
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("service exited with error")
	}

	if info.OnShutdown != nil {
		info.OnShutdown(shutdownCtx)
	}
	log.Info().Msgf("%s gracefully shut down", info.ServiceName)
}

// outboundIP finds the preferred local address without sending any packets.
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
