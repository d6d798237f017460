package cmd

import (
	"context"
	"fmt"
	"net/http"

	"campusfood/api"
	apiadmin "campusfood/api/admin"
	apiauth "campusfood/api/auth"
	"campusfood/api/health"
	apimenu "campusfood/api/menu"
	apiorder "campusfood/api/order"
	adminapp "campusfood/application/admin"
	authapp "campusfood/application/auth"
	menuapp "campusfood/application/menu"
	orderapp "campusfood/application/order"
	"campusfood/application/reporting"
	"campusfood/config"
	"campusfood/domain/menu"
	"campusfood/domain/order"
	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/messaging"
	"campusfood/infrastructure/outbox"
	"campusfood/infrastructure/persistence/memory"
	"campusfood/infrastructure/persistence/monitor"
	"campusfood/infrastructure/persistence/relational"
	"campusfood/infrastructure/persistence/retry"
	"campusfood/infrastructure/security"
	"campusfood/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Components is the wired object graph shared by every command.
type Components struct {
	Config *config.Config

	// DB is nil when running on the memory store.
	DB   *gorm.DB
	Hold *monitor.HoldMonitor

	UnitOfWork shared.UnitOfWorkFactory
	Menus      menu.Repository
	Users      user.Repository
	Orders     order.Repository
	Outbox     outbox.Store
	Reports    *reporting.Service
	Tokens     *security.TokenService

	Auth  *authapp.ApplicationService
	Menu  *menuapp.ApplicationService
	Order *orderapp.ApplicationService
	Admin *adminapp.ApplicationService
}

// Builder assembles Components from configuration.
type Builder struct {
	cfg     *config.Config
	store   *memory.Store
	migrate bool
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg, migrate: cfg.IsDevelopment() || cfg.Database.AutoMigrate}
}

// WithMemoryStore runs on the given store regardless of database.type.
func (b *Builder) WithMemoryStore(store *memory.Store) *Builder {
	b.store = store
	return b
}

// SkipMigrations leaves the schema alone even in development.
func (b *Builder) SkipMigrations() *Builder {
	b.migrate = false
	return b
}

func (b *Builder) Build(ctx context.Context) (*Components, error) {
	cfg := b.cfg
	policy, err := order.ParsePricePolicy(cfg.Order.PricePolicy)
	if err != nil {
		return nil, err
	}
	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	c := &Components{
		Config: cfg,
		Hold:   monitor.NewHoldMonitor(cfg.Database.HoldWarningThreshold),
		Tokens: tokens,
	}

	var reportStore reporting.Store
	if b.store != nil || cfg.Database.Type == "memory" {
		store := b.store
		if store == nil {
			store = memory.NewStore()
		}
		logger.Info("Using in-memory persistence")
		c.UnitOfWork = memory.NewUnitOfWorkFactory(store, c.Hold)
		c.Menus = memory.NewMenuRepository(store)
		c.Users = memory.NewUserRepository(store)
		c.Orders = memory.NewOrderRepository(store)
		c.Outbox = memory.NewOutboxRepository(store)
		reportStore = memory.NewReportingStore(store)
	} else {
		db, err := relational.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if b.migrate {
			if err := relational.Migrate(ctx, db); err != nil {
				_ = relational.Close(db)
				return nil, err
			}
		}
		c.DB = db
		c.UnitOfWork = relational.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg), c.Hold)
		c.Menus = relational.NewMenuRepository(db)
		c.Users = relational.NewUserRepository(db)
		c.Orders = relational.NewOrderRepository(db)
		c.Outbox = relational.NewOutboxRepository(db)
		reportStore = relational.NewReportingStore(db)
	}

	c.Reports = reporting.NewService(reportStore, c.Menus)
	issue := func(userID int64, email string) (string, error) {
		return tokens.Issue(security.Identity{UserID: userID, Email: email})
	}
	c.Auth = authapp.NewApplicationService(c.UnitOfWork, c.Users, security.NewBcryptHasher(cfg.Auth.BcryptCost), issue)
	c.Menu = menuapp.NewApplicationService(c.Menus, c.Reports)
	c.Order = orderapp.NewApplicationService(orderapp.Dependencies{
		UnitOfWork:  c.UnitOfWork,
		Orders:      c.Orders,
		Menus:       c.Menus,
		Users:       c.Users,
		Reports:     c.Reports,
		PricePolicy: policy,
		ListLimit:   cfg.Order.DefaultListLimit,
	})
	c.Admin = adminapp.NewApplicationService(adminapp.Dependencies{
		UnitOfWork:      c.UnitOfWork,
		Orders:          c.Orders,
		Menus:           c.Menus,
		Users:           c.Users,
		Reports:         c.Reports,
		StrictLifecycle: cfg.Order.StrictLifecycle,
		ListLimit:       cfg.Order.AdminListLimit,
	})

	logger.Info("Components ready",
		zap.String("database", cfg.Database.Type),
		zap.String("price_policy", string(policy)),
		zap.Bool("strict_lifecycle", cfg.Order.StrictLifecycle),
	)
	return c, nil
}

// Router mounts every controller on a fresh engine.
func (c *Components) Router() *api.Router {
	router := api.NewRouter(c.Config, api.Controllers{
		Health: health.NewController(c.Config, c.pinger(), c.Hold),
		Auth:   apiauth.NewController(c.Auth),
		Menu:   apimenu.NewController(c.Menu),
		Order:  apiorder.NewController(c.Order),
		Admin:  apiadmin.NewController(c.Admin),
	}, c.Tokens, c.Auth)
	router.SetupRoutes()
	return router
}

// HTTPServer wraps the router with the configured timeouts.
func (c *Components) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + c.Config.Server.Port,
		Handler:      c.Router().Engine(),
		ReadTimeout:  c.Config.Server.ReadTimeout,
		WriteTimeout: c.Config.Server.WriteTimeout,
	}
}

// OutboxWorker builds the relay and the publisher it sends through.
// The returned func releases the publisher.
func (c *Components) OutboxWorker() (*outbox.Worker, func(), error) {
	oc := c.Config.Outbox
	var (
		publisher outbox.Publisher = outbox.LoggingPublisher{}
		release                    = func() {}
	)
	if oc.Publisher == "amqp" {
		p, err := messaging.DialAMQP(c.Config.AMQP.URL, c.Config.AMQP.Exchange)
		if err != nil {
			return nil, nil, err
		}
		publisher = p
		release = func() {
			if err := p.Close(); err != nil {
				logger.Warn("Failed to close AMQP publisher", zap.Error(err))
			}
		}
	}

	w, err := outbox.NewWorker(c.Outbox, publisher, oc.PollInterval, oc.BatchSize, oc.MaxRetries)
	if err != nil {
		release()
		return nil, nil, err
	}
	return w, release, nil
}

func (c *Components) Close() error {
	if c.DB == nil {
		return nil
	}
	return relational.Close(c.DB)
}

// pinger must stay a nil interface for the memory store.
func (c *Components) pinger() health.Pinger {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		logger.Warn("Health check has no database handle", zap.Error(err))
		return nil
	}
	return sqlDB
}
