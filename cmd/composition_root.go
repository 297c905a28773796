package cmd

import (
	"context"
	"database/sql"
	"fmt"

	httpadapter "stockledger/internal/adapters/in/http"
	"stockledger/internal/adapters/out/postgres"
	"stockledger/internal/adapters/out/redis"
	"stockledger/internal/core/application/usecases/commands"
	"stockledger/internal/core/application/usecases/queries"
	"stockledger/internal/core/domain/services"
	"stockledger/internal/jobs"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	snapshots   *postgres.GormUnitOfWorkFactory
	registry    *prometheus.Registry
	stock       *metrics.StockMetrics
	jobMetrics  *metrics.JobMetrics
	idempotency *redis.IdempotencyStore
	openAPI     *openapi3.T
	logger      *zap.Logger
}

// NewCompositionRoot wires the application around an open database connection.
// A nil idempotency store disables replay detection.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	idempotency *redis.IdempotencyStore,
	log *zap.Logger,
) (*CompositionRoot, error) {
	isolation, err := postgres.ParseIsolation(cfg.DB.Isolation)
	if err != nil {
		return nil, err
	}
	openAPI, err := httpadapter.LoadOpenAPI(context.Background())
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &CompositionRoot{
		cfg:    cfg,
		gormDB: gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB,
			postgres.WithIsolation(isolation),
			postgres.WithHistoryPageSize(cfg.Ledger.HistoryPageSize),
		),
		snapshots: postgres.NewGormUnitOfWorkFactory(gormDB,
			postgres.WithIsolation(sql.LevelRepeatableRead),
			postgres.WithReadOnly(),
			postgres.WithHistoryPageSize(cfg.Ledger.HistoryPageSize),
		),
		registry:    registry,
		stock:       metrics.NewStockMetrics(registry),
		jobMetrics:  metrics.NewJobMetrics(registry),
		idempotency: idempotency,
		openAPI:     openAPI,
		logger:      logger.Named(log, "stockledger"),
	}, nil
}

func (c *CompositionRoot) Registry() *prometheus.Registry {
	return c.registry
}

func (c *CompositionRoot) CreateRegisterEquipmentCommandHandler() commands.RegisterEquipmentCommandHandler {
	var f commands.EquipmentUoWFactory = FuncEquipmentUoWFactory(func() commands.EquipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterEquipmentCommandHandler(f)
}

func (c *CompositionRoot) CreateAdjustStockCommandHandler() commands.AdjustStockCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdjustStockCommandHandler(f, nil, c.stock)
}

func (c *CompositionRoot) CreateCreateUnitCommandHandler() commands.CreateUnitCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateUnitCommandHandler(f, services.NewCodeGenerator(nil), nil, c.stock, commands.CreateUnitSettings{
		DefaultPrefix: c.cfg.Codes.DefaultPrefix,
		MaxAttempts:   c.cfg.Codes.MaxAttempts,
		RetryInterval: c.cfg.Codes.RetryInterval,
	})
}

func (c *CompositionRoot) CreateGetEquipmentStockQueryHandler() queries.GetEquipmentStockQueryHandler {
	return queries.NewGetEquipmentStockQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEquipmentHistoryQueryHandler() queries.GetEquipmentHistoryQueryHandler {
	return queries.NewGetEquipmentHistoryQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetNextUnitCodeQueryHandler() queries.GetNextUnitCodeQueryHandler {
	return queries.NewGetNextUnitCodeQueryHandler(c.uowFactory, services.NewCodeGenerator(nil), c.cfg.Codes.DefaultPrefix)
}

func (c *CompositionRoot) CreateReconcileEquipmentQueryHandler() queries.ReconcileEquipmentQueryHandler {
	return queries.NewReconcileEquipmentQueryHandler(c.snapshots, services.NewLedgerReconciler())
}

// NewRouter builds the HTTP entry point with every use case mounted.
func (c *CompositionRoot) NewRouter() *echo.Echo {
	server := httpadapter.NewServer(httpadapter.Handlers{
		RegisterEquipment: c.CreateRegisterEquipmentCommandHandler(),
		AdjustStock:       c.CreateAdjustStockCommandHandler(),
		CreateUnit:        c.CreateCreateUnitCommandHandler(),
		GetStock:          c.CreateGetEquipmentStockQueryHandler(),
		GetHistory:        c.CreateGetEquipmentHistoryQueryHandler(),
		GetNextUnitCode:   c.CreateGetNextUnitCodeQueryHandler(),
		Reconcile:         c.CreateReconcileEquipmentQueryHandler(),
	}, c.idempotencyStore(), logger.Named(c.logger, "http"))

	return httpadapter.NewRouter(server, httpadapter.RouterConfig{
		Logger:   logger.Named(c.logger, "http"),
		Gatherer: c.registry,
		Checks:   c.healthChecks(),
		OpenAPI:  c.openAPI,
	})
}

// NewJobManager returns the background jobs enabled by the configuration.
func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	var scheduled []jobs.Job
	if c.cfg.Reconcile.Enabled {
		scheduled = append(scheduled, jobs.NewStockReconciliationJob(
			c.snapshots,
			c.CreateReconcileEquipmentQueryHandler(),
			c.cfg.Reconcile.Schedule,
			c.jobMetrics,
			c.stock,
			c.logger,
		))
	}
	return jobs.NewJobManager(logger.Named(c.logger, "jobs"), scheduled...)
}

func (c *CompositionRoot) idempotencyStore() httpadapter.IdempotencyStore {
	if c.idempotency == nil {
		return nil
	}
	return c.idempotency
}

func (c *CompositionRoot) healthChecks() map[string]httpadapter.HealthCheck {
	checks := map[string]httpadapter.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return fmt.Errorf("extracting sql.DB: %w", err)
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.idempotency.Enabled() {
		checks["redis"] = c.idempotency.Ping
	}
	return checks
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}

type FuncEquipmentUoWFactory func() commands.EquipmentUoW

func (f FuncEquipmentUoWFactory) Create() commands.EquipmentUoW {
	return f()
}
