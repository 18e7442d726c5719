package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hiredata-ai/hiredata-engine/pkg/database"
	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// PipelineRunRepository defines the interface for pipeline run bookkeeping.
// The runner records run and node lifecycle through it; nodes report
// progress through it.
type PipelineRunRepository interface {
	// CreateRun inserts a new pipeline run record.
	CreateRun(ctx context.Context, run *models.PipelineRun) error

	// UpdateRunStatus transitions a run, recording the completion time for
	// terminal statuses and the error message for failures.
	UpdateRunStatus(ctx context.Context, runID uuid.UUID, status models.RunStatus, errMsg string) error

	// CreateNode inserts a node record belonging to a run.
	CreateNode(ctx context.Context, node *models.RunNode) error

	// UpdateNodeStatus transitions a node, recording start/completion times.
	UpdateNodeStatus(ctx context.Context, nodeID uuid.UUID, status models.NodeStatus, errMsg string) error

	// UpdateNodeProgress updates a node's progress.
	UpdateNodeProgress(ctx context.Context, nodeID uuid.UUID, progress *models.NodeProgress) error

	// GetRunNodes returns the node records of a run.
	GetRunNodes(ctx context.Context, runID uuid.UUID) ([]*models.RunNode, error)
}

// pipelineRunRepository implements PipelineRunRepository using PostgreSQL.
type pipelineRunRepository struct {
	db *database.DB
}

// NewPipelineRunRepository creates a postgres-backed run repository.
func NewPipelineRunRepository(db *database.DB) PipelineRunRepository {
	return &pipelineRunRepository{db: db}
}

func (r *pipelineRunRepository) CreateRun(ctx context.Context, run *models.PipelineRun) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO etl.pipeline_runs (id, status, error, started_at)
		VALUES ($1, $2, $3, $4)`,
		run.ID, string(run.Status), run.Error, run.StartedAt)
	return err
}

func (r *pipelineRunRepository) UpdateRunStatus(ctx context.Context, runID uuid.UUID, status models.RunStatus, errMsg string) error {
	if status.IsTerminal() {
		_, err := r.db.Exec(ctx, `
			UPDATE etl.pipeline_runs
			SET status = $2, error = $3, completed_at = $4
			WHERE id = $1`,
			runID, string(status), errMsg, time.Now().UTC())
		return err
	}
	_, err := r.db.Exec(ctx, `
		UPDATE etl.pipeline_runs SET status = $2, error = $3 WHERE id = $1`,
		runID, string(status), errMsg)
	return err
}

func (r *pipelineRunRepository) CreateNode(ctx context.Context, node *models.RunNode) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO etl.pipeline_run_nodes (id, run_id, name, status, error)
		VALUES ($1, $2, $3, $4, $5)`,
		node.ID, node.RunID, string(node.Name), string(node.Status), node.Error)
	return err
}

func (r *pipelineRunRepository) UpdateNodeStatus(ctx context.Context, nodeID uuid.UUID, status models.NodeStatus, errMsg string) error {
	now := time.Now().UTC()
	switch {
	case status == models.NodeStatusRunning:
		_, err := r.db.Exec(ctx, `
			UPDATE etl.pipeline_run_nodes
			SET status = $2, error = $3, started_at = $4
			WHERE id = $1`,
			nodeID, string(status), errMsg, now)
		return err
	case status.IsTerminal():
		_, err := r.db.Exec(ctx, `
			UPDATE etl.pipeline_run_nodes
			SET status = $2, error = $3, completed_at = $4
			WHERE id = $1`,
			nodeID, string(status), errMsg, now)
		return err
	default:
		_, err := r.db.Exec(ctx, `
			UPDATE etl.pipeline_run_nodes SET status = $2, error = $3 WHERE id = $1`,
			nodeID, string(status), errMsg)
		return err
	}
}

func (r *pipelineRunRepository) UpdateNodeProgress(ctx context.Context, nodeID uuid.UUID, progress *models.NodeProgress) error {
	_, err := r.db.Exec(ctx, `
		UPDATE etl.pipeline_run_nodes
		SET progress_current = $2, progress_total = $3, progress_message = $4
		WHERE id = $1`,
		nodeID, progress.Current, progress.Total, progress.Message)
	return err
}

func (r *pipelineRunRepository) GetRunNodes(ctx context.Context, runID uuid.UUID) ([]*models.RunNode, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, run_id, name, status, error,
		       progress_current, progress_total, progress_message,
		       started_at, completed_at
		FROM etl.pipeline_run_nodes
		WHERE run_id = $1
		ORDER BY name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*models.RunNode
	for rows.Next() {
		node := &models.RunNode{Progress: &models.NodeProgress{}}
		var name, status string
		if err := rows.Scan(
			&node.ID, &node.RunID, &name, &status, &node.Error,
			&node.Progress.Current, &node.Progress.Total, &node.Progress.Message,
			&node.StartedAt, &node.CompletedAt,
		); err != nil {
			return nil, err
		}
		node.Name = models.NodeName(name)
		node.Status = models.NodeStatus(status)
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}
