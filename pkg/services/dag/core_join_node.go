package dag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/dataset"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
	"github.com/hiredata-ai/hiredata-engine/pkg/repositories"
	"github.com/hiredata-ai/hiredata-engine/pkg/services"
)

// CoreJoinNode builds the denormalized training table from the three
// primary tables. It must only run after all three normalize nodes have
// persisted their outputs.
type CoreJoinNode struct {
	*BaseNode
	joiner   *services.CoreJoiner
	store    dataset.Store
	datasets Datasets
}

// NewCoreJoinNode creates the core join node.
func NewCoreJoinNode(
	runRepo repositories.PipelineRunRepository,
	store dataset.Store,
	joiner *services.CoreJoiner,
	datasets Datasets,
	logger *zap.Logger,
) *CoreJoinNode {
	return &CoreJoinNode{
		BaseNode: NewBaseNode(models.NodeCoreJoin, runRepo, logger),
		joiner:   joiner,
		store:    store,
		datasets: datasets,
	}
}

// Execute loads the primary tables, joins them and persists the result.
func (n *CoreJoinNode) Execute(ctx context.Context, run *models.PipelineRun) error {
	n.Logger().Info("Starting core join",
		zap.String("run_id", run.ID.String()))

	if err := n.ReportProgress(ctx, 0, 100, "Loading primary tables..."); err != nil {
		n.Logger().Warn("Failed to report progress", zap.Error(err))
	}

	jobs, err := n.store.Load(ctx, n.datasets.PrimaryJobOpenings)
	if err != nil {
		return fmt.Errorf("load %s: %w", n.datasets.PrimaryJobOpenings, err)
	}
	prospects, err := n.store.Load(ctx, n.datasets.PrimaryProspects)
	if err != nil {
		return fmt.Errorf("load %s: %w", n.datasets.PrimaryProspects, err)
	}
	applicants, err := n.store.Load(ctx, n.datasets.PrimaryApplicants)
	if err != nil {
		return fmt.Errorf("load %s: %w", n.datasets.PrimaryApplicants, err)
	}

	if err := n.ReportProgress(ctx, 50, 100, "Joining..."); err != nil {
		n.Logger().Warn("Failed to report progress", zap.Error(err))
	}

	joined, err := n.joiner.Join(jobs, prospects, applicants)
	if err != nil {
		return err
	}

	if err := n.store.Save(ctx, n.datasets.PrimaryCore, joined); err != nil {
		return fmt.Errorf("save %s: %w", n.datasets.PrimaryCore, err)
	}

	if err := n.ReportProgress(ctx, 100, 100, fmt.Sprintf("Joined %d rows", joined.NumRows())); err != nil {
		n.Logger().Warn("Failed to report progress", zap.Error(err))
	}

	n.Logger().Info("Core join complete",
		zap.String("output", n.datasets.PrimaryCore),
		zap.Int("rows", joined.NumRows()))

	return nil
}
