package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/group38/ojweb/config"
	"github.com/group38/ojweb/internal/adapters/ojapi"
	"github.com/group38/ojweb/internal/observability/statsd"
	"github.com/group38/ojweb/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	API           *ojapi.Client
	Identities    *service.IdentityService
	Gate          *service.Gate
	Auth          *service.AuthService
	Submissions   *ojapi.QuestionSubmitService
	Obfuscator    *ojapi.ObfuscatorService
	Users         *ojapi.UserService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // callers take the statsd.Sink port.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// Close releases the metrics socket.
func (o ObservabilityContainer) Close() error {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	// HTTPClient overrides the judge API transport (tests).
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// buildObservability configures the metrics adapter.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// NewServices wires the judge API client, the identity cache, the gate and
// the sign-in service.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service deps are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := deps.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	observability := buildObservability(logger, appCfg.Observability)

	client, err := ojapi.NewClient(ojapi.Config{
		BaseURL:    appCfg.API.BaseURL,
		Timeout:    appCfg.API.Timeout,
		HTTPClient: deps.HTTPClient,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("judge api client: %w", err)
	}
	users := client.Users()

	store := BuildIdentityStore(IdentityStoreConfig{
		Session:     appCfg.Session,
		KeyPrefix:   appCfg.Redis.KeyPrefix,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	identities, err := service.NewIdentityService(service.IdentityServiceOptions{
		Store:   store,
		Source:  users,
		Logger:  logger,
		Metrics: observability.Sink(),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("identity service: %w", err)
	}

	gate := service.NewGate(service.GateOptions{
		LoginPath:     appCfg.Gate.LoginPath,
		ForbiddenPath: appCfg.Gate.ForbiddenPath,
		Logger:        logger,
		Metrics:       observability.Sink(),
	})

	auth, err := BuildAuthService(AuthConfig{
		Accounts:   client.Accounts(),
		Identities: identities,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		API:           client,
		Identities:    identities,
		Gate:          gate,
		Auth:          auth,
		Submissions:   client.QuestionSubmits(),
		Obfuscator:    client.Obfuscator(),
		Users:         users,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for the server to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// RunServicesWithShutdown starts the HTTP server and handles graceful shutdown.
// This function blocks until a shutdown signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:           serviceCtx,
		cancel:        cancel,
		quit:          quit,
		errCh:         errCh,
		httpServer:    server,
		observability: cfg.Services.Observability,
		logger:        logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx           context.Context
	cancel        context.CancelFunc
	quit          <-chan os.Signal
	errCh         <-chan error
	httpServer    *http.Server
	observability ObservabilityContainer
	logger        *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop stops the HTTP server and flushes observability adapters.
func gracefulStop(cfg shutdownConfig) error {
	var stopErr error
	if cfg.httpServer != nil {
		// The service context is already canceled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
		defer cancel()

		stopErr = ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		})
	}

	if err := cfg.observability.Close(); err != nil {
		stopErr = errors.Join(stopErr, fmt.Errorf("close metrics sink: %w", err))
	}
	return stopErr
}
