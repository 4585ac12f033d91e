package di

import (
	"github.com/campusdeals/campus-deals-api/internal/handler"
	"github.com/campusdeals/campus-deals-api/internal/repository"
	"github.com/campusdeals/campus-deals-api/internal/service"
	"github.com/campusdeals/campus-deals-api/pkg/database"
	"github.com/campusdeals/campus-deals-api/pkg/redis"
)

// Container holds all dependencies for the API
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	UserRepo  repository.UserRepository
	AdminRepo repository.AdminRepository
	OrderRepo repository.OrderRepository

	// Services
	AuthService  service.AuthService
	OrderService service.OrderService

	// Handlers
	HealthHandler *handler.HealthHandler
	AuthHandler   *handler.AuthHandler
	AdminHandler  *handler.AdminHandler
	OrderHandler  *handler.OrderHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB            *database.PostgresDB
	Redis         *redis.Client
	ServiceConfig *service.AuthServiceConfig
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	pool := cfg.DB.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.AdminRepo = repository.NewPostgresAdminRepository(pool)
	c.OrderRepo = repository.NewPostgresOrderRepository(pool)

	c.AuthService = service.NewAuthService(c.UserRepo, c.AdminRepo, cfg.ServiceConfig)
	c.OrderService = service.NewOrderService(c.OrderRepo, &service.OrderServiceConfig{
		StoreTimeout: cfg.ServiceConfig.StoreTimeout,
	})

	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.AdminHandler = handler.NewAdminHandler(c.AuthService)
	c.OrderHandler = handler.NewOrderHandler(c.OrderService)

	return c
}
