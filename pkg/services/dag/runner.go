package dag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
	"github.com/hiredata-ai/hiredata-engine/pkg/repositories"
)

// Runner executes the materialization DAG: ingest, then the three
// normalizers (fan-out, run in parallel), then the core join (fan-in). Each
// node runs exactly once per run; a node failure fails the run and skips
// every node downstream of it. There are no retries.
type Runner struct {
	runRepo     repositories.PipelineRunRepository
	ingest      NodeExecutor
	normalizers []NodeExecutor
	join        NodeExecutor
	logger      *zap.Logger
}

// NewRunner creates a runner over the given nodes. The ingest node may be
// nil when intermediate tables are provided externally.
func NewRunner(
	runRepo repositories.PipelineRunRepository,
	ingest NodeExecutor,
	normalizers []NodeExecutor,
	join NodeExecutor,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		runRepo:     runRepo,
		ingest:      ingest,
		normalizers: normalizers,
		join:        join,
		logger:      logger.Named("Runner"),
	}
}

// nodeIDSetter is implemented by nodes embedding BaseNode; the runner wires
// the node record id in before execution so progress lands on the right row.
type nodeIDSetter interface {
	SetCurrentNodeID(uuid.UUID)
}

// Run executes one full pipeline run and returns its final record. The
// returned error is the first node failure, if any.
func (r *Runner) Run(ctx context.Context) (*models.PipelineRun, error) {
	run := &models.PipelineRun{
		ID:        uuid.New(),
		Status:    models.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := r.runRepo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}

	r.logger.Info("Starting pipeline run", zap.String("run_id", run.ID.String()))

	nodeIDs := make(map[models.NodeName]uuid.UUID)
	for _, exec := range r.allNodes() {
		node := &models.RunNode{
			ID:     uuid.New(),
			RunID:  run.ID,
			Name:   exec.Name(),
			Status: models.NodeStatusPending,
		}
		if err := r.runRepo.CreateNode(ctx, node); err != nil {
			return nil, fmt.Errorf("create node record: %w", err)
		}
		nodeIDs[exec.Name()] = node.ID
	}

	// Stage 1: ingest.
	if r.ingest != nil {
		if err := r.executeNode(ctx, run, r.ingest, nodeIDs); err != nil {
			r.skipNodes(ctx, nodeIDs, r.normalizers)
			r.skipNodes(ctx, nodeIDs, []NodeExecutor{r.join})
			return r.failRun(ctx, run, err)
		}
	}

	// Stage 2: normalizers, mutually independent, run in parallel.
	g, gctx := errgroup.WithContext(ctx)
	for _, exec := range r.normalizers {
		g.Go(func() error {
			return r.executeNode(gctx, run, exec, nodeIDs)
		})
	}
	if err := g.Wait(); err != nil {
		r.skipNodes(ctx, nodeIDs, []NodeExecutor{r.join})
		return r.failRun(ctx, run, err)
	}

	// Stage 3: join, only after every normalizer output is persisted.
	if err := r.executeNode(ctx, run, r.join, nodeIDs); err != nil {
		return r.failRun(ctx, run, err)
	}

	run.Status = models.RunStatusCompleted
	if err := r.runRepo.UpdateRunStatus(ctx, run.ID, models.RunStatusCompleted, ""); err != nil {
		return nil, fmt.Errorf("update run record: %w", err)
	}

	r.logger.Info("Pipeline run complete", zap.String("run_id", run.ID.String()))
	return run, nil
}

func (r *Runner) allNodes() []NodeExecutor {
	nodes := make([]NodeExecutor, 0, len(r.normalizers)+2)
	if r.ingest != nil {
		nodes = append(nodes, r.ingest)
	}
	nodes = append(nodes, r.normalizers...)
	nodes = append(nodes, r.join)
	return nodes
}

func (r *Runner) executeNode(ctx context.Context, run *models.PipelineRun, exec NodeExecutor, nodeIDs map[models.NodeName]uuid.UUID) error {
	nodeID := nodeIDs[exec.Name()]
	if setter, ok := exec.(nodeIDSetter); ok {
		setter.SetCurrentNodeID(nodeID)
	}

	if err := r.runRepo.UpdateNodeStatus(ctx, nodeID, models.NodeStatusRunning, ""); err != nil {
		return fmt.Errorf("update node record: %w", err)
	}

	if err := exec.Execute(ctx, run); err != nil {
		r.logger.Error("Node failed",
			zap.String("run_id", run.ID.String()),
			zap.String("node", string(exec.Name())),
			zap.Error(err))
		if uerr := r.runRepo.UpdateNodeStatus(ctx, nodeID, models.NodeStatusFailed, err.Error()); uerr != nil {
			r.logger.Warn("Failed to record node failure", zap.Error(uerr))
		}
		return fmt.Errorf("node %s: %w", exec.Name(), err)
	}

	return r.runRepo.UpdateNodeStatus(ctx, nodeID, models.NodeStatusCompleted, "")
}

func (r *Runner) skipNodes(ctx context.Context, nodeIDs map[models.NodeName]uuid.UUID, nodes []NodeExecutor) {
	for _, exec := range nodes {
		if exec == nil {
			continue
		}
		if err := r.runRepo.UpdateNodeStatus(ctx, nodeIDs[exec.Name()], models.NodeStatusSkipped, ""); err != nil {
			r.logger.Warn("Failed to mark node skipped",
				zap.String("node", string(exec.Name())),
				zap.Error(err))
		}
	}
}

func (r *Runner) failRun(ctx context.Context, run *models.PipelineRun, cause error) (*models.PipelineRun, error) {
	run.Status = models.RunStatusFailed
	run.Error = cause.Error()
	if err := r.runRepo.UpdateRunStatus(ctx, run.ID, models.RunStatusFailed, cause.Error()); err != nil {
		r.logger.Warn("Failed to record run failure", zap.Error(err))
	}
	return run, cause
}
