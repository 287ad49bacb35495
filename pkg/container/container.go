package container

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"

	accountHandler "library-backend/internal/domains/account/handler"
	accountRepo "library-backend/internal/domains/account/repository"
	accountService "library-backend/internal/domains/account/service"
	catalogHandler "library-backend/internal/domains/catalog/handler"
	catalogRepo "library-backend/internal/domains/catalog/repository"
	catalogService "library-backend/internal/domains/catalog/service"
	circulationHandler "library-backend/internal/domains/circulation/handler"
	circulationRepo "library-backend/internal/domains/circulation/repository"
	circulationService "library-backend/internal/domains/circulation/service"

	"github.com/hibiken/asynq"
)

// Container holds the API's dependency graph. Initialization order is
// config, infrastructure, repositories, services, handlers; each layer
// only sees the layers before it.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Storage    *storage.MinIOStorage
	Images     *storage.ImageProcessor
	Queue      *asynq.Client

	CirculationRepo circulationRepo.RepositoryInterface
	AccountRepo     accountRepo.RepositoryInterface
	CatalogRepo     catalogRepo.RepositoryInterface

	CirculationService circulationService.ServiceInterface
	AccountService     accountService.ServiceInterface
	CatalogService     catalogService.ServiceInterface

	HoldHandler   *circulationHandler.HoldHandler
	BorrowHandler *circulationHandler.BorrowHandler
	AuthHandler   *accountHandler.AuthHandler
	ReaderHandler *accountHandler.ReaderHandler
	StaffHandler  *accountHandler.StaffHandler
	BookHandler   *catalogHandler.BookHandler
}

// NewContainer builds the full dependency graph.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache misses degrade to DB reads, so keep going.
			logger.Warn("Redis connection failed", map[string]interface{}{"error": err.Error()})
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Images = storage.NewImageProcessor()

	c.Queue = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CirculationRepo = circulationRepo.NewRepository(pool)
	c.AccountRepo = accountRepo.NewRepository(pool)
	c.CatalogRepo = catalogRepo.NewRepository(pool)
}

func (c *Container) initServices() {
	c.CirculationService = circulationService.NewService(
		c.CirculationRepo,
		c.Config.Circulation.HoldTTL,
		c.Config.Circulation.MaxLoanDays,
	)

	c.AccountService = accountService.NewService(c.AccountRepo, c.JWTManager)

	c.CatalogService = catalogService.NewService(
		c.CatalogRepo,
		c.CirculationService,
		c.Cache,
		c.Storage,
		c.Images,
		c.Queue,
	)
}

func (c *Container) initHandlers() {
	c.HoldHandler = circulationHandler.NewHoldHandler(c.CirculationService)
	c.BorrowHandler = circulationHandler.NewBorrowHandler(c.CirculationService)
	c.AuthHandler = accountHandler.NewAuthHandler(c.AccountService)
	c.ReaderHandler = accountHandler.NewReaderHandler(c.AccountService)
	c.StaffHandler = accountHandler.NewStaffHandler(c.AccountService)
	c.BookHandler = catalogHandler.NewBookHandler(c.CatalogService)
}

// Cleanup releases held connections. Called during graceful shutdown.
func (c *Container) Cleanup() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Warn("Failed to close queue client", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				logger.Warn("Failed to close Redis", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	logger.Info("Container cleanup completed", nil)
}
