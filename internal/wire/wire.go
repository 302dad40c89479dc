// Package wire provides dependency injection for the shiptrack application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/shiptrack/internal/adapters/cli"
	"github.com/example/shiptrack/internal/adapters/export"
	"github.com/example/shiptrack/internal/adapters/sqlite"
	"github.com/example/shiptrack/internal/app"
	"github.com/example/shiptrack/internal/config"
	"github.com/example/shiptrack/internal/db"
	"github.com/example/shiptrack/internal/logging"
	"github.com/example/shiptrack/internal/ports/primary"
	"github.com/example/shiptrack/internal/version"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	shipmentService primary.ShipmentService
	billingService  primary.BillingService
	itemService     primary.ItemService
	auditService    primary.AuditService
	authService     primary.AuthService
	employeeService primary.EmployeeService
	exportService   primary.ExportService

	once sync.Once
)

// Config returns the effective configuration for the working directory.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the shared logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// ShipmentService returns the singleton ShipmentService instance.
func ShipmentService() primary.ShipmentService {
	once.Do(initServices)
	return shipmentService
}

// BillingService returns the singleton BillingService instance.
func BillingService() primary.BillingService {
	once.Do(initServices)
	return billingService
}

// ItemService returns the singleton ItemService instance.
func ItemService() primary.ItemService {
	once.Do(initServices)
	return itemService
}

// AuditService returns the singleton AuditService instance.
func AuditService() primary.AuditService {
	once.Do(initServices)
	return auditService
}

// AuthService returns the singleton AuthService instance.
func AuthService() primary.AuthService {
	once.Do(initServices)
	return authService
}

// EmployeeService returns the singleton EmployeeService instance.
func EmployeeService() primary.EmployeeService {
	once.Do(initServices)
	return employeeService
}

// ExportService returns the singleton ExportService instance.
func ExportService() primary.ExportService {
	once.Do(initServices)
	return exportService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.Load(cwd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err = logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if cfg.DBPath != "" {
		db.SetPath(cfg.DBPath)
	}
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	applied, err := db.SchemaVersion(database)
	if err != nil {
		log.Fatalf("failed to read schema version: %v", err)
	}
	if err := version.Current().CheckSchema(applied); err != nil {
		log.Fatalf("%v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	stateRepo := sqlite.NewStateRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)
	employeeRepo := sqlite.NewEmployeeRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(auditRepo)

	store := app.NewTrackingStore(stateRepo, logger.Named("store"))
	if err := store.Load(context.Background()); err != nil {
		log.Fatalf("failed to load tracking state: %v", err)
	}

	audit := app.NewAuditService(auditRepo, logWriter, logger.Named("audit"))
	store.Subscribe(audit)

	// Create services (primary ports implementation)
	shipmentService = app.NewShipmentService(store, stateRepo, cfg.LinkBase, logger.Named("shipment"))
	billingService = app.NewBillingService(store, logger.Named("billing"))
	itemService = app.NewItemService(store, logger.Named("item"))
	auditService = audit
	authService = app.NewAuthService(stateRepo, logger.Named("auth"))
	employeeService = app.NewEmployeeService(employeeRepo, logger.Named("employee"))
	exportService = app.NewExportService(store, auditRepo, export.NewExcelWriter(), export.NewPDFWriter(), logger.Named("export"))
}

// Close flushes the logger and closes the database. Safe to call when
// nothing was initialized.
func Close() {
	if logger != nil {
		_ = logger.Sync()
	}
	_ = db.Close()
}

// ScanSession returns a new scan session starting in mode. Each call
// creates a new session.
func ScanSession(mode app.ScanMode, onOutcome func(app.ScanOutcome)) *app.ScanSession {
	once.Do(initServices)
	return app.NewScanSession(
		shipmentService,
		billingService,
		itemService,
		auditService,
		app.ScanSessionConfig{
			Mode:               mode,
			Timeout:            cfg.ScanTimeout(),
			AuditRetentionDays: cfg.AuditRetentionDays,
			AuditPruneSchedule: cfg.AuditPruneSchedule,
		},
		onOutcome,
		logger.Named("scan"),
	)
}

// ShipmentAdapter returns a new ShipmentAdapter writing to stdout and
// prompting on stdin.
// Each call creates a new adapter (adapters are stateless translators).
func ShipmentAdapter() *cliadapter.ShipmentAdapter {
	return ShipmentAdapterWithIO(os.Stdin, os.Stdout)
}

// ShipmentAdapterWithIO returns a new ShipmentAdapter on the given streams.
// This variant allows testing or alternate output destinations.
func ShipmentAdapterWithIO(in io.Reader, out io.Writer) *cliadapter.ShipmentAdapter {
	once.Do(initServices)
	return cliadapter.NewShipmentAdapter(shipmentService, cliadapter.NewPrompter(in, out), out)
}

// BillingAdapter returns a new BillingAdapter writing to stdout and
// prompting on stdin.
func BillingAdapter() *cliadapter.BillingAdapter {
	return BillingAdapterWithIO(os.Stdin, os.Stdout)
}

// BillingAdapterWithIO returns a new BillingAdapter on the given streams.
func BillingAdapterWithIO(in io.Reader, out io.Writer) *cliadapter.BillingAdapter {
	once.Do(initServices)
	return cliadapter.NewBillingAdapter(shipmentService, billingService, itemService, cliadapter.NewPrompter(in, out), out)
}

// AuditAdapter returns a new AuditAdapter writing to stdout.
func AuditAdapter() *cliadapter.AuditAdapter {
	once.Do(initServices)
	return cliadapter.NewAuditAdapter(auditService, os.Stdout)
}

// EmployeeAdapter returns a new EmployeeAdapter writing to stdout.
func EmployeeAdapter() *cliadapter.EmployeeAdapter {
	once.Do(initServices)
	return cliadapter.NewEmployeeAdapter(employeeService, os.Stdout)
}

// SessionAdapter returns a new SessionAdapter writing to stdout.
func SessionAdapter() *cliadapter.SessionAdapter {
	once.Do(initServices)
	return cliadapter.NewSessionAdapter(authService, os.Stdout)
}
