package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/aishop/storefront/internal/application/catalog"
	galleryapp "github.com/aishop/storefront/internal/application/gallery"
	"github.com/aishop/storefront/internal/application/media"
	"github.com/aishop/storefront/internal/infrastructure/auth"
	"github.com/aishop/storefront/internal/infrastructure/cache"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/internal/infrastructure/logger"
	"github.com/aishop/storefront/internal/infrastructure/migration"
	"github.com/aishop/storefront/internal/infrastructure/persistence"
	"github.com/aishop/storefront/internal/infrastructure/storage"
	"github.com/aishop/storefront/internal/infrastructure/telemetry"
	"github.com/aishop/storefront/internal/interfaces/http/handler"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/aishop/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		return fmt.Errorf("init tracer provider: %w", err)
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		return fmt.Errorf("init meter provider: %w", err)
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		return fmt.Errorf("init logger provider: %w", err)
	}
	if loggerProvider.IsEnabled() {
		log = logger.Tee(log, loggerProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	}
	defer flushTelemetry(log, tracerProvider, meterProvider, loggerProvider)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Profiling), log)
	if err != nil {
		return fmt.Errorf("init profiler: %w", err)
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && cfg.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	if cfg.Database.Driver == config.DriverSQLite {
		dbTracing.DBSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		return fmt.Errorf("register db tracing: %w", err)
	}

	listing := cache.NewListingCache(cfg.Redis, log)
	defer func() {
		_ = listing.Close()
	}()

	uploadMetrics, err := telemetry.NewUploadMetrics(meterProvider.Meter("storefront/upload"))
	if err != nil {
		return fmt.Errorf("init upload metrics: %w", err)
	}

	var remote media.ObjectStore
	storageKind := "local"
	if cfg.Storage.Configured() {
		s3Store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Store.EnsureBucket(ensureCtx); err != nil {
			log.Warn("Could not verify storage bucket, uploads may fall back to local disk",
				zap.String("bucket", s3Store.Bucket()), zap.Error(err))
		}
		cancel()
		remote = s3Store
		storageKind = "s3"
	} else {
		log.Info("Object storage not configured, uploads go to local disk",
			zap.String("dir", cfg.Upload.LocalDir))
	}
	local := storage.NewLocalStorage(cfg.Upload.LocalDir, cfg.Upload.PublicPrefix)

	productService := catalogapp.NewProductService(persistence.NewGormProductRepository(db.DB), listing, log)
	billService := galleryapp.NewBillService(persistence.NewGormBillRepository(db.DB), listing, log)
	storefrontService := catalogapp.NewStorefrontService(productService, billService, cfg.Site, listing, log)
	uploadService := media.NewUploadService(remote, local,
		media.WithMaxFileSize(cfg.Upload.MaxFileSize),
		media.WithKeyPrefix(cfg.Storage.KeyPrefix),
		media.WithMetrics(uploadMetrics),
		media.WithLogger(log),
	)

	tokens := auth.NewJWTService(cfg.JWT)
	if tokens.Ephemeral() {
		log.Warn("jwt.secret is empty; using a random signing key, admin sessions end on restart")
	}
	if !cfg.Admin.HasSecret() {
		log.Warn("No admin credential configured; admin login is disabled")
	}

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateBurst)
	defer loginLimiter.Stop()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tracing := middleware.DefaultTracingConfig()
	tracing.ServiceName = cfg.Telemetry.ServiceName
	tracing.Enabled = cfg.Telemetry.Enabled

	engine, err := router.New(router.Deps{
		Config: cfg,
		Logger: log,
		Handlers: router.Handlers{
			Product:    handler.NewProductHandler(productService),
			Bill:       handler.NewBillHandler(billService),
			Upload:     handler.NewUploadHandler(uploadService),
			Auth:       handler.NewAuthHandler(auth.NewPasswordVerifier(cfg.Admin), tokens),
			Storefront: handler.NewStorefrontHandler(storefrontService),
			Health: handler.NewHealthHandler(db, handler.HealthInfo{
				Version: version,
				Cache:   cacheKind(listing),
				Storage: storageKind,
			}),
		},
		Tokens:       tokens,
		LoginLimiter: loginLimiter,
		Metrics:      middleware.NewHTTPMetrics("storefront"),
		Tracing:      tracing,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server...", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited gracefully")
	return nil
}

// openDatabase connects and prepares the schema. SQLite is auto-migrated
// from the GORM models; PostgreSQL runs the SQL migrations when
// database.auto_migrate is set.
func openDatabase(cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	switch {
	case cfg.Database.Driver == config.DriverSQLite:
		if err := db.AutoMigrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	case cfg.Database.AutoMigrate:
		sqlDB, err := db.DB.DB()
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		m, err := migration.New(sqlDB, cfg.Database.MigrationsPath, log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		// closing the migrator would close the shared *sql.DB
		if err := m.Up(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func cacheKind(c cache.ListingCache) string {
	switch c.(type) {
	case *cache.RedisListingCache:
		return "redis"
	case *cache.InMemoryListingCache:
		return "memory"
	default:
		return "disabled"
	}
}

func flushTelemetry(log *zap.Logger, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, lp *telemetry.LoggerProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	// last, so the errors above are still exported
	if err := lp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
