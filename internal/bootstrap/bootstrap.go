package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/billing"
	appControllers "github.com/TheDarkness2001/SMS-sub001/internal/app/controllers"
	appMigrations "github.com/TheDarkness2001/SMS-sub001/internal/app/migrations"
	appRepos "github.com/TheDarkness2001/SMS-sub001/internal/app/repositories"
	"github.com/TheDarkness2001/SMS-sub001/internal/app/repositories/inmem"
	appRoutes "github.com/TheDarkness2001/SMS-sub001/internal/app/routes"
	appServices "github.com/TheDarkness2001/SMS-sub001/internal/app/services"
	"github.com/TheDarkness2001/SMS-sub001/internal/config"
	"github.com/TheDarkness2001/SMS-sub001/internal/db"
	appMiddleware "github.com/TheDarkness2001/SMS-sub001/internal/middleware"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/cache"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/logger"
	"github.com/TheDarkness2001/SMS-sub001/internal/pkg/metrics"
	"github.com/TheDarkness2001/SMS-sub001/internal/seed"
)

// ConfigPathEnv overrides the location of the config file
const ConfigPathEnv = "CONFIG_PATH"

// Storage is the persistence chosen by database.driver
type Storage struct {
	Driver string
	Repos  *appRepos.Repositories
	Pool   *pgxpool.Pool
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Ping checks the database, if any
func (s *Storage) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return nil
	}
	return s.Pool.Ping(ctx)
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Storage        *Storage
	Cache          cache.Store
	CacheName      string
	Resolver       *billing.TariffResolver
	PaymentService appServices.PaymentService
	BillingService appServices.BillingService
	RevenueService appServices.RevenueService
	StudentService appServices.StudentService
	BranchService  appServices.BranchService
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger

	closeCache func()
}

// SetCacheCloser registers the function releasing the cache connection
func (d *Dependencies) SetCacheCloser(closeCache func()) {
	d.closeCache = closeCache
}

// Close releases the cache and database connections
func (d *Dependencies) Close() {
	if d.closeCache != nil {
		d.closeCache()
	}
	if d.Storage != nil {
		d.Storage.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: "payments",
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured storage, runs migrations and loads default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	storage := &Storage{Driver: cfg.Database.Driver}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory storage; data is lost on restart")
		storage.Repos = inmem.NewRepositories()

	default:
		lgr.Info().Msg("Establishing database connection...")
		pool, err := db.Open(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		storage.Pool = pool
		lgr.Info().Msg("Database connection successfully established.")

		migrationsDir := cfg.Database.MigrationsDir
		if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
			storage.Close()
			lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
			return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
		}

		lgr.Info().Msg("Running database migrations...")
		if _, err := appMigrations.NewMigrator(storage.Pool, lgr).Up(ctx, migrationsDir); err != nil {
			storage.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		storage.Repos = appRepos.NewRepositories(storage.Pool)
	}

	if err := seed.CreateDefaultData(ctx, storage.Repos, cfg.Database.SeedFile, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return storage, nil
}

// SetupCache connects Redis when enabled. An unreachable Redis disables caching instead
// of failing startup. The memory driver gets a process-local cache.
func SetupCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (cache.Store, string, func()) {
	if cfg.Redis.Enabled {
		store, err := cache.NewRedisStore(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			return store, "redis", func() { _ = store.Close() }
		}
		lgr.Warn().Err(err).Msg("Redis unavailable, revenue caching disabled")
		return cache.Noop{}, "none", nil
	}

	if cfg.Database.Driver == config.DriverMemory {
		return cache.NewMemory(), "memory", nil
	}
	return cache.Noop{}, "none", nil
}

// NewTariffResolver builds the resolver from the billing section
func NewTariffResolver(cfg *config.Config) *billing.TariffResolver {
	return billing.NewTariffResolver(
		billing.WithStaticTariffs(cfg.StaticTariffs()),
		billing.WithDefaultAmount(cfg.DefaultAmount()),
	)
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, storage *Storage, store cache.Store, cacheName string, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Storage:   storage,
		Cache:     store,
		CacheName: cacheName,
		Logger:    lgr,
		Resolver:  NewTariffResolver(cfg),
	}
	repos := storage.Repos

	revenue := appServices.NewRevenueService(repos.PaymentRepository, store, cfg.RevenueCacheTTL(), lgr)
	deps.RevenueService = revenue
	deps.PaymentService = appServices.NewPaymentService(
		repos.PaymentRepository,
		repos.StudentRepository,
		deps.Resolver,
		lgr,
		appServices.WithDueDay(cfg.Billing.DueDay),
		appServices.WithRevenueInvalidator(revenue),
	)
	deps.BillingService = appServices.NewBillingService(repos.StudentRepository, repos.PaymentRepository, deps.Resolver)
	deps.StudentService = appServices.NewStudentService(repos.StudentRepository)
	deps.BranchService = appServices.NewBranchService(repos.BranchRepository)

	deps.Controllers = appRoutes.Controllers{
		Payment: appControllers.NewPaymentController(deps.PaymentService),
		Revenue: appControllers.NewRevenueController(deps.RevenueService),
		Student: appControllers.NewStudentController(deps.StudentService, deps.BillingService),
		Catalog: appControllers.NewCatalogController(deps.BranchService, deps.BillingService),
		Health:  appControllers.NewHealthController(storage.Driver, cacheName, storage.Ping),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.CORS(cfg.AllowedOrigins()))

	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
		lgr.Info().Str("path", cfg.Metrics.Path).Msg("Prometheus metrics enabled")
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.Storage.Repos.BranchRepository)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
