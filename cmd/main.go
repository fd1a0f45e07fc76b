package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"burgerstock/internal/api"
	"burgerstock/internal/catalog"
	"burgerstock/internal/config"
	"burgerstock/internal/database"
	"burgerstock/internal/feed"
	"burgerstock/internal/fulfillment"
	"burgerstock/internal/ledger"
	"burgerstock/internal/logging"
	"burgerstock/internal/metrics"
	"burgerstock/internal/models"
	"burgerstock/internal/monitoring"
	"burgerstock/internal/order"

	"github.com/gin-gonic/gin"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "burgerstock: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)
	if log.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Open(cfg.Database.Dialect, cfg.Database.URL, cfg.Database.Debug)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	stock := ledger.New(db, log)
	if _, err := stock.Seed(ctx, cat, cfg.Seed.InitialQuantity); err != nil {
		return fmt.Errorf("failed to seed ledger: %w", err)
	}

	composer := order.NewComposer(cat, order.WithLegacyFriesDeduct(cfg.Fries.LegacyTruncatedDeduct))
	monitor := monitoring.NewMonitor()
	engine := fulfillment.NewEngine(stock, log, monitor)

	deps := api.Deps{
		Ledger:   stock,
		Composer: composer,
		Engine:   engine,
		Monitor:  monitor,
		Log:      log,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		collector := metrics.NewCollector()
		items, err := stock.ListItems(ctx, ledger.Filter{})
		if err != nil {
			return err
		}
		collector.SetStock(items...)
		engine.Observe(collector)
		deps.Metrics = collector
		metricsServer = startMetricsServer(log, cfg.Metrics, collector)
	}

	if cfg.Feed.Enabled {
		hub := feed.NewHub(log, func(ctx context.Context) ([]models.StockItem, error) {
			return stock.ListItems(ctx, ledger.Filter{})
		})
		go hub.Run(ctx)
		engine.Observe(hub)
		deps.Hub = hub
	}

	// Initialize API server
	srv := api.NewServer(deps)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("API server shutdown error", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Error("metrics server shutdown error", "error", err)
			}
		}

		cancel()
	}()

	log.Info("starting API server", "port", cfg.Server.Port)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("API server error: %w", err)
	}
	return nil
}

// applyFlags lets explicitly set command-line flags win over the config file.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "metrics-port":
			cfg.Metrics.Port = *metricsPort
		}
	})
}

func startMetricsServer(log *slog.Logger, cfg config.MetricsConfig, collector *metrics.Collector) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(cfg.Path, gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: metricsRouter,
	}

	go func() {
		log.Info("starting metrics server", "port", cfg.Port, "path", cfg.Path)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	return metricsServer
}
