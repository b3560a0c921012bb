package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	appgames "github.com/preston-bernstein/matchday-service/internal/app/games"
	"github.com/preston-bernstein/matchday-service/internal/config"
	domaingames "github.com/preston-bernstein/matchday-service/internal/domain/games"
	httpserver "github.com/preston-bernstein/matchday-service/internal/http"
	"github.com/preston-bernstein/matchday-service/internal/http/handlers"
	"github.com/preston-bernstein/matchday-service/internal/http/middleware"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/notify"
	"github.com/preston-bernstein/matchday-service/internal/snapshots"
)

var (
	metricsSetup  = metrics.Setup
	buildNotifier = notify.Build
)

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         gameStore
	gamesService  *appgames.Service
	bus           *notify.Bus
	notifier      *notify.Multi
	httpServer    httpServer
	metricsServer httpServer
	projector     Projector
	metricsStop   func(context.Context) error
}

// New constructs a server from configuration: store, event sinks, snapshot projector and HTTP surface.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	st, err := buildStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	bus := notify.NewBus(cfg.Notify.BusBuffer, logger)
	notifier, err := buildNotifier(notify.Config{
		Sinks:              cfg.Notify.Sinks,
		RedisURL:           cfg.Notify.RedisURL,
		RedisChannelPrefix: cfg.Notify.RedisChannelPrefix,
		KafkaBrokers:       cfg.Notify.KafkaBrokers,
		KafkaTopic:         cfg.Notify.KafkaTopic,
	}, bus, recorder, logger)
	if err != nil {
		_ = st.Close()
		if metricsShutdown != nil {
			_ = metricsShutdown(ctx)
		}
		return nil, fmt.Errorf("build notifier: %w", err)
	}

	svc := buildService(cfg, st, notifier, recorder, logger)

	var (
		projector *snapshots.Projector
		snapStore snapshots.Store
	)
	if cfg.Snapshots.Enabled() {
		projector = snapshots.NewProjector(svc, bus, snapshots.NewWriter(cfg.Snapshots.Dir), logger)
		snapStore = snapshots.NewFSStore(cfg.Snapshots.Dir)
	}

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		gamesService:  svc,
		bus:           bus,
		notifier:      notifier,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
	if projector != nil {
		srv.projector = projector
	}
	srv.httpServer = buildHTTPServer(cfg, svc, projector, snapStore, srv.readiness, recorder, logger)

	logging.Info(logger, "server configured",
		slog.String("store", cfg.Storage.Driver),
		slog.Any("sinks", notifier.Sinks()),
		slog.Bool("snapshots", cfg.Snapshots.Enabled()),
		slog.String("timezone", cfg.Games.Location().String()),
		slog.Int("grace_days", cfg.Games.GraceDays),
	)
	return srv, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, st gameStore, httpSrv httpServer, projector Projector) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		httpServer: httpSrv,
		projector:  projector,
	}
}

func buildService(cfg config.Config, st appgames.Store, publisher *notify.Multi, recorder *metrics.Recorder, logger *slog.Logger) *appgames.Service {
	return appgames.NewService(st,
		appgames.WithPublisher(publisher),
		appgames.WithPolicy(domaingames.Policy{AllowCompletedEdits: cfg.Games.AllowCompletedEdits}),
		appgames.WithExpiration(cfg.Games.GraceDays, cfg.Games.Location()),
		appgames.WithPageSize(cfg.Games.PageSize),
		appgames.WithRecorder(recorder),
		appgames.WithLogger(logger),
	)
}

func buildHTTPServer(
	cfg config.Config,
	svc *appgames.Service,
	projector *snapshots.Projector,
	snapStore snapshots.Store,
	ready handlers.ReadinessFunc,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) httpServer {
	handler := handlers.NewHandler(svc, logger, ready)

	var admin *handlers.AdminHandler
	if cfg.Snapshots.AdminToken != "" {
		var refresher handlers.SnapshotRefresher
		if projector != nil {
			refresher = projector
		}
		admin = handlers.NewAdminHandler(refresher, cfg.Snapshots.AdminToken, logger)
	}
	var snaps *handlers.SnapshotHandler
	if snapStore != nil {
		snaps = handlers.NewSnapshotHandler(snapStore, svc, logger)
	}

	router := httpserver.NewRouter(handler, admin, snaps)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// readiness fails while the store is unreachable or the projector keeps failing.
func (s *Server) readiness(ctx context.Context) error {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("store unavailable: %w", err)
		}
	}
	if s.projector != nil {
		if status := s.projector.Status(); !status.IsReady() {
			if status.LastError != "" {
				return errors.New("snapshot projector failing: " + status.LastError)
			}
			return errors.New("snapshot projector failing")
		}
	}
	return nil
}

// Run starts the projector and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.projector != nil {
		s.projector.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown drains HTTP first so no command publishes after the sinks close.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.projector != nil {
		if err := s.projector.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop snapshot projector", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			logging.Warn(s.logger, "event sinks close failed", "error", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Warn(s.logger, "store close failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Service exposes the games service (useful for tests and embedding).
func (s *Server) Service() *appgames.Service {
	return s.gamesService
}
