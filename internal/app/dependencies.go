package app

import (
	"github.com/centavo/centavo/internal/config"
	"github.com/centavo/centavo/internal/event_bus"
	"github.com/centavo/centavo/internal/utils"
	"github.com/centavo/centavo/pkg/adjustment"
	"github.com/centavo/centavo/pkg/comparison"
	"github.com/centavo/centavo/pkg/snapshot"
	"github.com/centavo/centavo/pkg/template"
	"github.com/centavo/centavo/pkg/transaction"
	"github.com/centavo/centavo/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	TemplateRepo    template.Repository
	TemplateService *template.ServiceImpl
	TemplateHandler *template.Handler

	AdjustmentRepo    adjustment.Repository
	AdjustmentService *adjustment.ServiceImpl
	AdjustmentHandler *adjustment.Handler

	SnapshotRepo    snapshot.Repository
	SnapshotService *snapshot.ServiceImpl
	SnapshotHandler *snapshot.Handler

	ComparisonService *comparison.ServiceImpl
	CsvRenderer       *comparison.CsvRendererImpl
	ComparisonHandler *comparison.Handler

	TransactionRepo    transaction.Repository
	TransactionService *transaction.ServiceImpl
	TransactionHandler *transaction.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TemplateRepo = template.NewRepository(db)
	deps.TemplateService = template.NewService(deps.TemplateRepo, deps.EventBus)
	deps.TemplateHandler = template.NewHandler(deps.TemplateService)

	deps.AdjustmentRepo = adjustment.NewRepository(db)
	deps.AdjustmentService = adjustment.NewService(deps.AdjustmentRepo, deps.TemplateService, deps.Clock, deps.EventBus)
	deps.AdjustmentHandler = adjustment.NewHandler(deps.AdjustmentService)

	deps.SnapshotRepo = snapshot.NewRepository(db)
	deps.SnapshotService = snapshot.NewService(deps.SnapshotRepo, deps.TemplateService, deps.AdjustmentService, deps.EventBus)
	deps.SnapshotHandler = snapshot.NewHandler(deps.SnapshotService)

	deps.ComparisonService = comparison.NewService(deps.TemplateService, deps.SnapshotService)
	deps.CsvRenderer = comparison.NewCsvRenderer()
	deps.ComparisonHandler = comparison.NewHandler(deps.ComparisonService, deps.CsvRenderer)

	deps.TransactionRepo = transaction.NewRepository(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo, deps.SnapshotService)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	return deps
}
