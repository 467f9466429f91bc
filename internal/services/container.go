package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/session"
	"github.com/nexconsult/cnpj-upload/internal/storage"
)

const healthTimeout = 5 * time.Second

// Container holds all service dependencies
type Container struct {
	config        *config.Config
	logger        *logrus.Logger
	redisClient   *redis.Client
	SessionStore  *session.RedisStore
	Uploader      storage.Uploader
	Metrics       *Metrics
	UploadService UploadServiceInterface
	cancelCleanup context.CancelFunc
}

// NewContainer creates a new service container
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	// Initialize Redis client
	if err := container.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize services
	if err := container.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return container, nil
}

// initRedis initializes Redis client
func (c *Container) initRedis(ctx context.Context) error {
	if !c.config.Redis.Enabled {
		c.logger.Info("Redis disabled, sessions kept in memory")
		return nil
	}

	c.redisClient = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	// Test Redis connection
	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis connection failed, sessions kept in memory")
		_ = c.redisClient.Close()
		c.redisClient = nil
	} else {
		c.logger.Info("Redis connection established")
	}

	return nil
}

// initServices initializes all services
func (c *Container) initServices(ctx context.Context) error {
	uploader, err := storage.New(ctx, c.config.Storage, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Uploader = uploader

	c.SessionStore = session.NewRedisStore(c.redisClient, c.config.Session.TTL, c.logger)
	cleanupCtx, cancel := context.WithCancel(context.Background())
	c.cancelCleanup = cancel
	c.SessionStore.StartCleanupRoutine(cleanupCtx, c.config.Session.CleanupInterval)

	c.Metrics = NewMetrics()
	c.UploadService = NewUploadService(c.config.Upload, c.SessionStore, c.Uploader, c.Metrics, c.logger)

	return nil
}

// Close closes all service connections
func (c *Container) Close() error {
	var errors []error

	if c.cancelCleanup != nil {
		c.cancelCleanup()
	}

	// Close Redis connection
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Return combined errors if any
	if len(errors) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errors)
	}

	return nil
}

// Health checks the health of all services
func (c *Container) Health(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	// Check Redis health
	if c.redisClient != nil {
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			// sessions fall back to memory
			health["redis"] = map[string]interface{}{
				"status": "degraded",
				"error":  err.Error(),
			}
		} else {
			health["redis"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		health["redis"] = map[string]interface{}{
			"status": "disabled",
		}
	}

	// Check storage health
	if c.Uploader != nil {
		storageHealth := map[string]interface{}{
			"provider": c.Uploader.Provider(),
			"bucket":   c.Uploader.Bucket(),
			"folder":   c.Uploader.Folder(),
		}
		if err := c.Uploader.Ping(ctx); err != nil {
			storageHealth["status"] = "unhealthy"
			storageHealth["error"] = err.Error()
		} else {
			storageHealth["status"] = "healthy"
		}
		health["storage"] = storageHealth
	}

	if c.SessionStore != nil {
		health["sessions"] = c.SessionStore.Health()
	}

	return health
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}
