// Package wire provides dependency injection for the finsight application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"

	cliadapter "github.com/example/finsight/internal/adapters/cli"
	"github.com/example/finsight/internal/adapters/sqlite"
	"github.com/example/finsight/internal/app"
	"github.com/example/finsight/internal/config"
	"github.com/example/finsight/internal/core/pipeline"
	"github.com/example/finsight/internal/db"
	"github.com/example/finsight/internal/logging"
	"github.com/example/finsight/internal/ports/primary"
)

var (
	cfg             *config.Config
	logger          hclog.Logger
	pipelineService primary.PipelineService
	reportService   primary.ReportService
	once            sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the root logger.
func Logger() hclog.Logger {
	once.Do(initServices)
	return logger
}

// PipelineService returns the singleton PipelineService instance.
func PipelineService() primary.PipelineService {
	once.Do(initServices)
	return pipelineService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err = config.LoadConfig(cwd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger = logging.New(cfg, "finsight")

	database, err := db.GetDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	txRepo := sqlite.NewTransactionRepository(database)
	snapshotRepo := sqlite.NewHealthSnapshotRepository(database)
	alertRepo := sqlite.NewRiskAlertRepository(database)
	forecastRepo := sqlite.NewForecastRepository(database)
	runRepo := sqlite.NewPipelineRunRepository(database)

	var clock app.Clock

	stages := app.StageRegistry{
		pipeline.StageExtraction: app.NewExtractionStage(txRepo, logger.Named("extraction"), clock),
		pipeline.StageMonitoring: app.NewMonitoringStage(txRepo, snapshotRepo, alertRepo,
			logger.Named("monitoring"), clock, cfg.Monitoring.DaysBack),
		pipeline.StageForecasting: app.NewForecastingStage(txRepo, forecastRepo,
			logger.Named("forecasting"), clock, cfg.Forecasting.DaysBack, cfg.Forecasting.ForecastDays),
	}

	// Create services (primary ports implementation)
	pipelineService = app.NewPipelineService(stages, runRepo, logger.Named("orchestrator"), clock)
	reportService = app.NewReportService(txRepo, snapshotRepo, alertRepo, forecastRepo, runRepo, clock)
}

// PipelineAdapter returns a new PipelineAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func PipelineAdapter() *cliadapter.PipelineAdapter {
	return PipelineAdapterWithOutput(os.Stdout)
}

// PipelineAdapterWithOutput returns a new PipelineAdapter writing to the given output.
func PipelineAdapterWithOutput(out io.Writer) *cliadapter.PipelineAdapter {
	once.Do(initServices)
	return cliadapter.NewPipelineAdapter(pipelineService, out)
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ReportAdapter() *cliadapter.ReportAdapter {
	return ReportAdapterWithOutput(os.Stdout)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) *cliadapter.ReportAdapter {
	once.Do(initServices)
	return cliadapter.NewReportAdapter(reportService, out)
}
