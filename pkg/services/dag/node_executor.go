package dag

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
	"github.com/hiredata-ai/hiredata-engine/pkg/repositories"
)

// NodeExecutor defines the interface for pipeline node execution.
// Each node wraps one transformation stage and reports progress.
type NodeExecutor interface {
	// Name returns the node name (e.g., "NormalizeVagas")
	Name() models.NodeName

	// Execute runs the node's work. Returns an error if the node fails.
	Execute(ctx context.Context, run *models.PipelineRun) error
}

// Datasets names every table the pipeline reads and writes through the
// dataset store.
type Datasets struct {
	IntermediateVagas      string
	IntermediateProspects  string
	IntermediateApplicants string
	PrimaryJobOpenings     string
	PrimaryProspects       string
	PrimaryApplicants      string
	PrimaryCore            string
}

// DefaultDatasets returns the catalog names used when no configuration
// overrides them.
func DefaultDatasets() Datasets {
	return Datasets{
		IntermediateVagas:      "intermediate_vagas",
		IntermediateProspects:  "intermediate_prospects",
		IntermediateApplicants: "intermediate_applicants",
		PrimaryJobOpenings:     "primary_job_openings",
		PrimaryProspects:       "primary_prospects",
		PrimaryApplicants:      "primary_applicants",
		PrimaryCore:            "primary_core",
	}
}

// BaseNode provides common functionality for all pipeline nodes.
type BaseNode struct {
	nodeName      models.NodeName
	runRepo       repositories.PipelineRunRepository
	logger        *zap.Logger
	currentNodeID uuid.UUID
}

// NewBaseNode creates a new base node with common dependencies.
func NewBaseNode(
	nodeName models.NodeName,
	runRepo repositories.PipelineRunRepository,
	logger *zap.Logger,
) *BaseNode {
	return &BaseNode{
		nodeName: nodeName,
		runRepo:  runRepo,
		logger:   logger.Named(string(nodeName)),
	}
}

// Name returns the node name.
func (b *BaseNode) Name() models.NodeName {
	return b.nodeName
}

// SetCurrentNodeID sets the node ID for progress reporting.
func (b *BaseNode) SetCurrentNodeID(nodeID uuid.UUID) {
	b.currentNodeID = nodeID
}

// ReportProgress updates the node's progress in the run repository.
func (b *BaseNode) ReportProgress(ctx context.Context, current, total int, message string) error {
	if b.currentNodeID == uuid.Nil {
		return nil // No node ID set, skip progress update
	}

	progress := &models.NodeProgress{
		Current: current,
		Total:   total,
		Message: message,
	}

	return b.runRepo.UpdateNodeProgress(ctx, b.currentNodeID, progress)
}

// Logger returns the node's logger.
func (b *BaseNode) Logger() *zap.Logger {
	return b.logger
}
