package dag

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/dataset"
	"github.com/hiredata-ai/hiredata-engine/pkg/ingest"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
	"github.com/hiredata-ai/hiredata-engine/pkg/repositories"
)

// SnapshotPaths locates the raw JSON snapshot files on disk.
type SnapshotPaths struct {
	Applicants string
	Vagas      string
	Prospects  string
}

// IngestNode flattens the raw JSON snapshots into the intermediate tables.
// It is the root of the pipeline; every other node depends on its outputs.
type IngestNode struct {
	*BaseNode
	flattener *ingest.Flattener
	store     dataset.Store
	paths     SnapshotPaths
	datasets  Datasets
}

// NewIngestNode creates a new ingest node.
func NewIngestNode(
	runRepo repositories.PipelineRunRepository,
	store dataset.Store,
	flattener *ingest.Flattener,
	paths SnapshotPaths,
	datasets Datasets,
	logger *zap.Logger,
) *IngestNode {
	return &IngestNode{
		BaseNode:  NewBaseNode(models.NodeIngest, runRepo, logger),
		flattener: flattener,
		store:     store,
		paths:     paths,
		datasets:  datasets,
	}
}

// Execute flattens the three snapshots and persists the intermediate tables.
func (n *IngestNode) Execute(ctx context.Context, run *models.PipelineRun) error {
	n.Logger().Info("Starting raw snapshot ingestion",
		zap.String("run_id", run.ID.String()))

	snapshots := []struct {
		label   string
		path    string
		output  string
		flatten func([]byte) (*models.Table, error)
	}{
		{"applicants", n.paths.Applicants, n.datasets.IntermediateApplicants, n.flattener.FlattenApplicants},
		{"vagas", n.paths.Vagas, n.datasets.IntermediateVagas, n.flattener.FlattenVagas},
		{"prospects", n.paths.Prospects, n.datasets.IntermediateProspects, n.flattener.FlattenProspects},
	}

	for i, s := range snapshots {
		if err := n.ReportProgress(ctx, i, len(snapshots), fmt.Sprintf("Flattening %s snapshot...", s.label)); err != nil {
			n.Logger().Warn("Failed to report progress", zap.Error(err))
		}

		data, err := os.ReadFile(s.path)
		if err != nil {
			return fmt.Errorf("read %s snapshot: %w", s.label, err)
		}
		table, err := s.flatten(data)
		if err != nil {
			return err
		}
		if err := n.store.Save(ctx, s.output, table); err != nil {
			return fmt.Errorf("save %s: %w", s.output, err)
		}

		n.Logger().Info("Ingested snapshot",
			zap.String("snapshot", s.label),
			zap.String("dataset", s.output),
			zap.Int("rows", table.NumRows()))
	}

	if err := n.ReportProgress(ctx, len(snapshots), len(snapshots), "Ingestion complete"); err != nil {
		n.Logger().Warn("Failed to report progress", zap.Error(err))
	}

	return nil
}
