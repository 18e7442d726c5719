package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/config"
	"github.com/hiredata-ai/hiredata-engine/pkg/database"
	"github.com/hiredata-ai/hiredata-engine/pkg/dataset"
	"github.com/hiredata-ai/hiredata-engine/pkg/ingest"
	"github.com/hiredata-ai/hiredata-engine/pkg/logging"
	"github.com/hiredata-ai/hiredata-engine/pkg/repositories"
	"github.com/hiredata-ai/hiredata-engine/pkg/services"
	"github.com/hiredata-ai/hiredata-engine/pkg/services/dag"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("store_backend", cfg.Store.Backend))

	ctx := context.Background()

	store, runRepo, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open dataset store", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	runner := buildRunner(cfg, store, runRepo, logger)

	run, err := runner.Run(ctx)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if run != nil {
			fields = append(fields, zap.String("run_id", run.ID.String()))
		}
		logger.Error("Pipeline run failed", fields...)
		os.Exit(1)
	}

	logger.Info("Pipeline run succeeded", zap.String("run_id", run.ID.String()))
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildStore opens the configured dataset store backend. Run history lives
// in postgres when that backend is selected, in memory otherwise.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (dataset.Store, repositories.PipelineRunRepository, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return dataset.NewMemoryStore(), repositories.NewMemoryPipelineRunRepository(), nil

	case config.BackendSQLite:
		store, err := dataset.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, repositories.NewMemoryPipelineRunRepository(), nil

	case config.BackendPostgres:
		logger.Info("Connecting to postgres",
			zap.String("conn", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))
		migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(migrationDB, cfg.Store.MigrationsPath, logger); err != nil {
			_ = migrationDB.Close()
			return nil, nil, err
		}
		if err := migrationDB.Close(); err != nil {
			return nil, nil, err
		}

		db, err := database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewPostgresStore(db), repositories.NewPipelineRunRepository(db), nil
	}
	return nil, nil, nil // unreachable, config.Load validates the backend
}

func buildRunner(cfg *config.Config, store dataset.Store, runRepo repositories.PipelineRunRepository, logger *zap.Logger) *dag.Runner {
	datasets := dag.Datasets{
		IntermediateVagas:      cfg.Datasets.IntermediateVagas,
		IntermediateProspects:  cfg.Datasets.IntermediateProspects,
		IntermediateApplicants: cfg.Datasets.IntermediateApplicants,
		PrimaryJobOpenings:     cfg.Datasets.PrimaryJobOpenings,
		PrimaryProspects:       cfg.Datasets.PrimaryProspects,
		PrimaryApplicants:      cfg.Datasets.PrimaryApplicants,
		PrimaryCore:            cfg.Datasets.PrimaryCore,
	}

	normalizer := services.NewNormalizer(logger)
	joiner := services.NewCoreJoiner(logger)
	flattener := ingest.NewFlattener(logger)

	ingestNode := dag.NewIngestNode(runRepo, store, flattener, dag.SnapshotPaths{
		Applicants: cfg.Raw.ApplicantsPath,
		Vagas:      cfg.Raw.VagasPath,
		Prospects:  cfg.Raw.ProspectsPath,
	}, datasets, logger)

	normalizers := []dag.NodeExecutor{
		dag.NewNormalizeVagasNode(runRepo, store, normalizer, datasets, logger),
		dag.NewNormalizeProspectsNode(runRepo, store, normalizer, datasets, logger),
		dag.NewNormalizeApplicantsNode(runRepo, store, normalizer, datasets, logger),
	}

	joinNode := dag.NewCoreJoinNode(runRepo, store, joiner, datasets, logger)

	return dag.NewRunner(runRepo, ingestNode, normalizers, joinNode, logger)
}
