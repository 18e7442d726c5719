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

// NormalizeNode projects one intermediate table onto its primary-layer
// schema through a mapping list. The three normalize nodes are mutually
// independent and may run in parallel; each reads and writes disjoint
// datasets.
type NormalizeNode struct {
	*BaseNode
	normalizer *services.Normalizer
	store      dataset.Store
	input      string
	output     string
	mappings   []services.FieldMapping
}

func newNormalizeNode(
	name models.NodeName,
	runRepo repositories.PipelineRunRepository,
	store dataset.Store,
	normalizer *services.Normalizer,
	input, output string,
	mappings []services.FieldMapping,
	logger *zap.Logger,
) *NormalizeNode {
	return &NormalizeNode{
		BaseNode:   NewBaseNode(name, runRepo, logger),
		normalizer: normalizer,
		store:      store,
		input:      input,
		output:     output,
		mappings:   mappings,
	}
}

// NewNormalizeVagasNode creates the job opening normalization node.
func NewNormalizeVagasNode(
	runRepo repositories.PipelineRunRepository,
	store dataset.Store,
	normalizer *services.Normalizer,
	datasets Datasets,
	logger *zap.Logger,
) *NormalizeNode {
	return newNormalizeNode(models.NodeNormalizeVagas, runRepo, store, normalizer,
		datasets.IntermediateVagas, datasets.PrimaryJobOpenings, services.VagasMappings, logger)
}

// NewNormalizeProspectsNode creates the prospect normalization node.
func NewNormalizeProspectsNode(
	runRepo repositories.PipelineRunRepository,
	store dataset.Store,
	normalizer *services.Normalizer,
	datasets Datasets,
	logger *zap.Logger,
) *NormalizeNode {
	return newNormalizeNode(models.NodeNormalizeProspects, runRepo, store, normalizer,
		datasets.IntermediateProspects, datasets.PrimaryProspects, services.ProspectsMappings, logger)
}

// NewNormalizeApplicantsNode creates the applicant normalization node.
func NewNormalizeApplicantsNode(
	runRepo repositories.PipelineRunRepository,
	store dataset.Store,
	normalizer *services.Normalizer,
	datasets Datasets,
	logger *zap.Logger,
) *NormalizeNode {
	return newNormalizeNode(models.NodeNormalizeApplicants, runRepo, store, normalizer,
		datasets.IntermediateApplicants, datasets.PrimaryApplicants, services.ApplicantsMappings, logger)
}

// Execute loads the input table, normalizes it and persists the result.
// Nothing is saved when normalization fails.
func (n *NormalizeNode) Execute(ctx context.Context, run *models.PipelineRun) error {
	n.Logger().Info("Starting normalization",
		zap.String("run_id", run.ID.String()),
		zap.String("input", n.input),
		zap.String("output", n.output))

	if err := n.ReportProgress(ctx, 0, 100, fmt.Sprintf("Loading %s...", n.input)); err != nil {
		n.Logger().Warn("Failed to report progress", zap.Error(err))
	}

	in, err := n.store.Load(ctx, n.input)
	if err != nil {
		return fmt.Errorf("load %s: %w", n.input, err)
	}

	out, err := n.normalizer.Normalize(n.input, in, n.mappings)
	if err != nil {
		return err
	}

	if err := n.store.Save(ctx, n.output, out); err != nil {
		return fmt.Errorf("save %s: %w", n.output, err)
	}

	if err := n.ReportProgress(ctx, 100, 100, fmt.Sprintf("Normalized %d rows", out.NumRows())); err != nil {
		n.Logger().Warn("Failed to report progress", zap.Error(err))
	}

	n.Logger().Info("Normalization complete",
		zap.String("output", n.output),
		zap.Int("rows", out.NumRows()))

	return nil
}
