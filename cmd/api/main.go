package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	auditUseCase "github.com/anchorpay/settlement-processor/internal/domain/usecase/audit"
	"github.com/anchorpay/settlement-processor/internal/domain/usecase/processor"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/handler"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/api/routes"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/database"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/logger"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/repository"
	timeProvider "github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/time"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/adapter/verification"
	"github.com/anchorpay/settlement-processor/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer appLogger.Flush()

	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	tp := timeProvider.NewRealTimeProvider()

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(context.Background()); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			appLogger.Error("Failed to close database", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	if err := dbManager.NewMigrationManager().MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	uow := dbManager.CreateUnitOfWork()

	verifier, err := verification.NewHorizonClient(verification.Config{
		BaseURL: cfg.Verification.BaseURL,
		APIKey:  cfg.Verification.APIKey,
		Timeout: cfg.Verification.Timeout,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to create verification client", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	recorder := auditUseCase.NewRecorder(uow, tp, appLogger)

	processorCfg := processor.Config{
		MaxRetries:  cfg.Processor.MaxRetries,
		BaseDelay:   time.Duration(cfg.Processor.BaseDelayMs) * time.Millisecond,
		LockTimeout: time.Duration(cfg.Processor.LockTimeoutMs) * time.Millisecond,
	}
	service := processor.NewService(processorCfg, uow, verifier, recorder, tp, appLogger)

	auditQuery := auditUseCase.NewQuery(repository.NewAuditLogRepository(dbManager.DB(), appLogger), appLogger)

	transactionHandler := handler.NewTransactionHandler(service, appLogger)
	dlqHandler := handler.NewDlqHandler(service, appLogger)
	auditHandler := handler.NewAuditHandler(auditQuery, appLogger)
	healthHandler := handler.NewHealthHandler(dbManager, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, transactionHandler, dlqHandler, auditHandler, healthHandler)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var worker *processor.PendingWorker
	if cfg.Worker.Enabled {
		worker = processor.NewPendingWorker(service, cfg.Worker.Interval, cfg.Worker.BatchSize, appLogger)
		worker.Start(workerCtx)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Drain load balancers before the listener closes
	healthHandler.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if worker != nil {
		appLogger.Info("Stopping pending sweep worker...", nil)
		stopWorker()
		worker.Stop()
	}

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		if cfg.Environment == config.Production && os.Getenv("SP_DB_HOST") == "" {
			missingConfigs = append(missingConfigs, "database.host (or SP_DB_HOST environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.host")
		}
	}
	if cfg.Database.Port == "" {
		missingConfigs = append(missingConfigs, "database.port")
	}
	if cfg.Database.Username == "" {
		if cfg.Environment == config.Production && os.Getenv("SP_DB_USERNAME") == "" {
			missingConfigs = append(missingConfigs, "database.username (or SP_DB_USERNAME environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.username")
		}
	}
	if cfg.Database.Password == "" {
		if cfg.Environment == config.Production && os.Getenv("SP_DB_PASSWORD") == "" {
			missingConfigs = append(missingConfigs, "database.password (or SP_DB_PASSWORD environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.password")
		}
	}
	if cfg.Database.Database == "" {
		if cfg.Environment == config.Production && os.Getenv("SP_DB_NAME") == "" {
			missingConfigs = append(missingConfigs, "database.database (or SP_DB_NAME environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.database")
		}
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Processor.LockTimeoutMs == 0 {
		missingConfigs = append(missingConfigs, "processor.lockTimeoutMs")
	}
	if cfg.Processor.BaseDelayMs == 0 {
		missingConfigs = append(missingConfigs, "processor.baseDelayMs")
	}
	if cfg.Processor.MaxRetries < 0 {
		missingConfigs = append(missingConfigs, "processor.maxRetries")
	}

	if cfg.Verification.BaseURL == "" {
		missingConfigs = append(missingConfigs, "verification.baseUrl")
	}

	if cfg.Worker.Enabled {
		if cfg.Worker.Interval == 0 {
			missingConfigs = append(missingConfigs, "worker.interval")
		}
		if cfg.Worker.BatchSize == 0 {
			missingConfigs = append(missingConfigs, "worker.batchSize")
		}
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
