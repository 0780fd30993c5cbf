package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solawi-gate/listgate/internal/adapter/inbound/admin"
	"github.com/solawi-gate/listgate/internal/adapter/inbound/http"
	"github.com/solawi-gate/listgate/internal/adapter/outbound/sqlstore"
	"github.com/solawi-gate/listgate/internal/config"
	"github.com/solawi-gate/listgate/internal/domain/principal"
	"github.com/solawi-gate/listgate/internal/service"
)

var devMode bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the hook/sync listener and admin API",
	Long: `Start the listgate gateway.

Binds GATEWAY_BIND_ADDRESS and serves:
  POST /mta-hook    the SMTP policy hook (§2-§5)
  POST /user-sync   the membership-database sync endpoint (§7)
  GET  /health      liveness/readiness
  GET  /metrics     Prometheus exposition
  /admin/*          the admin read/write API and SSE feed (§9)

Examples:
  listgate start
  listgate --config /path/to/listgate.yaml start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (debug logging, seeds a local admin credential)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if devMode {
		cfg.DevMode = true
	}
	cfg.SetDevDefaults()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	if configFile := config.ConfigFileUsed(); configFile != "" {
		logger.Info("loaded config", "file", configFile)
	}

	return run(ctx, cfg, logger)
}

// run wires the store, services, and both HTTP surfaces (hook/sync and
// admin) together and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st, err := sqlstore.Open(cfg.StoreURI, logger, sqlstore.WithGatewayIdentity(cfg.StoreModuleName))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	hookTimeout, err := time.ParseDuration(cfg.HookTimeout)
	if err != nil {
		hookTimeout = 30 * time.Second
		logger.Warn("invalid hook_timeout, using default", "value", cfg.HookTimeout, "default", hookTimeout)
	}

	hookService := service.NewHookService(st, logger, hookTimeout)
	syncService := service.NewSyncService(st, logger)
	feedService := service.NewFeedService(st, logger)
	statsService := service.NewStatsService()
	resolver := principal.NewResolver(cfg.AdminCredentialHashes)

	healthChecker := http.NewHealthChecker(st, Version)

	apiHandler := admin.NewAdminAPIHandler(
		admin.WithStore(st),
		admin.WithStatsService(statsService),
		admin.WithFeedService(feedService),
		admin.WithResolver(resolver),
		admin.WithAPILogger(logger),
	)

	transport := http.NewHTTPTransport(hookService, syncService,
		http.WithAddr(cfg.GatewayBindAddress),
		http.WithLogger(logger),
		http.WithRedactIPs(cfg.LogRedactIPs),
		http.WithHealthChecker(healthChecker),
		http.WithExtraHandler(apiHandler.Routes()),
	)

	logger.Info("listgate starting",
		"version", Version,
		"dev_mode", cfg.DevMode,
		"bind_address", cfg.GatewayBindAddress,
		"store_uri", redactStoreURI(cfg.StoreURI),
		"admin_credentials_configured", len(cfg.AdminCredentialHashes),
	)

	if err := transport.Start(ctx); err != nil {
		return err
	}

	logger.Info("listgate stopped")
	return nil
}

// redactStoreURI strips query parameters (which may carry pragma/key
// material) before the DSN is written to the startup log line.
func redactStoreURI(dsn string) string {
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		return dsn[:i] + "?<redacted>"
	}
	return dsn
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
