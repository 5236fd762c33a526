package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"furnishop-backend/internal/config"
	infraCache "furnishop-backend/internal/infrastructure/cache"
	"furnishop-backend/internal/infrastructure/database"
	"furnishop-backend/internal/infrastructure/queue"
	"furnishop-backend/internal/infrastructure/storage"
	"furnishop-backend/pkg/cache"
	"furnishop-backend/pkg/jwt"

	agentHandler "furnishop-backend/internal/domains/agent/handler"
	agentRepo "furnishop-backend/internal/domains/agent/repository"
	agentService "furnishop-backend/internal/domains/agent/service"
	"furnishop-backend/internal/domains/refund/gateway"
	gatewayMock "furnishop-backend/internal/domains/refund/gateway/mock"
	gatewayRest "furnishop-backend/internal/domains/refund/gateway/rest"
	refundHandler "furnishop-backend/internal/domains/refund/handler"
	refundRepo "furnishop-backend/internal/domains/refund/repository"
	refundService "furnishop-backend/internal/domains/refund/service"
	supportHandler "furnishop-backend/internal/domains/support/handler"
	supportRepo "furnishop-backend/internal/domains/support/repository"
	supportService "furnishop-backend/internal/domains/support/service"
)

// Container is the root of the dependency graph. Initialization order
// is config, infrastructure, repositories, services, handlers; every
// component is a singleton.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Storage     *storage.MinIOStorage
	Gateway     gateway.PaymentGateway

	// Repositories
	RefundCaseRepo  refundRepo.RefundCaseRepository
	SupportCaseRepo supportRepo.SupportCaseRepository
	AgentRepo       agentRepo.AgentRepository

	// Services
	SupportCaseService supportService.SupportCaseService
	AgentService       agentService.AgentService
	ExecutionService   *refundService.ExecutionService
	RefundWorkflow     refundService.RefundWorkflow

	// Handlers
	RefundHandler   *refundHandler.RefundHandler
	EvidenceHandler *refundHandler.EvidenceHandler
	SupportHandler  *supportHandler.SupportHandler
	AgentHandler    *agentHandler.AgentHandler
}

// NewContainer builds the whole dependency graph
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// Step 1: Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// Step 2: Database
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
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Step 3: Redis
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(context.Background()); err != nil {
		// Cache misses are survivable; a dead redis only costs latency
		log.Printf("Redis connection failed (non-critical): %v", err)
	}
	c.Cache = infraCache.NewRedisCache(c.Redis)

	// Step 4: JWT, task queue, object storage
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)
	c.AsynqClient = queue.NewAsynqClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)

	st, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = st

	// Step 5: Payment gateway
	if cfg.Gateway.Mock {
		c.Gateway = gatewayMock.NewMockPaymentGateway()
	} else {
		client, err := gatewayRest.NewClient(&gatewayRest.Config{
			BaseURL: cfg.Gateway.BaseURL,
			APIKey:  cfg.Gateway.APIKey,
			Timeout: cfg.Gateway.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init payment gateway: %w", err)
		}
		c.Gateway = client
	}

	// Step 6: Repositories
	c.RefundCaseRepo = refundRepo.NewRefundCaseRepository(db.Pool)
	c.SupportCaseRepo = supportRepo.NewSupportCaseRepository(db.Pool)
	c.AgentRepo = agentRepo.NewAgentRepository(db.Pool)

	// Step 7: Services
	c.SupportCaseService = supportService.NewSupportCaseService(c.SupportCaseRepo, c.Cache)
	c.AgentService = agentService.NewAgentService(c.AgentRepo, c.JWTManager)
	c.ExecutionService = refundService.NewExecutionService(c.RefundCaseRepo, c.Gateway)
	c.RefundWorkflow = refundService.NewRefundWorkflow(
		c.RefundCaseRepo,
		c.SupportCaseService,
		c.ExecutionService,
		queue.NewEnqueuer(c.AsynqClient),
		cfg.Refund.WindowDays,
	)

	// Step 8: Handlers
	c.RefundHandler = refundHandler.NewRefundHandler(c.RefundWorkflow)
	c.EvidenceHandler = refundHandler.NewEvidenceHandler(c.Storage)
	c.SupportHandler = supportHandler.NewSupportHandler(c.SupportCaseService)
	c.AgentHandler = agentHandler.NewAgentHandler(c.AgentService)

	log.Println("DI container initialized")
	return c, nil
}

// Cleanup releases shared resources during shutdown
func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("Failed to close Redis: %v", err)
		}
	}

	log.Println("Container cleanup completed")
}
