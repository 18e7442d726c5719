package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hiredata-ai/hiredata-engine/pkg/models"
)

// memoryPipelineRunRepository keeps run bookkeeping in process memory. It
// backs the memory and sqlite store configurations, where no postgres is
// available for run history.
type memoryPipelineRunRepository struct {
	mu    sync.Mutex
	runs  map[uuid.UUID]*models.PipelineRun
	nodes map[uuid.UUID]*models.RunNode
}

// NewMemoryPipelineRunRepository creates an in-memory run repository.
func NewMemoryPipelineRunRepository() PipelineRunRepository {
	return &memoryPipelineRunRepository{
		runs:  make(map[uuid.UUID]*models.PipelineRun),
		nodes: make(map[uuid.UUID]*models.RunNode),
	}
}

func (r *memoryPipelineRunRepository) CreateRun(_ context.Context, run *models.PipelineRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *run
	r.runs[run.ID] = &copied
	return nil
}

func (r *memoryPipelineRunRepository) UpdateRunStatus(_ context.Context, runID uuid.UUID, status models.RunStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	run.Status = status
	run.Error = errMsg
	if status.IsTerminal() {
		now := time.Now().UTC()
		run.CompletedAt = &now
	}
	return nil
}

func (r *memoryPipelineRunRepository) CreateNode(_ context.Context, node *models.RunNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *node
	r.nodes[node.ID] = &copied
	return nil
}

func (r *memoryPipelineRunRepository) UpdateNodeStatus(_ context.Context, nodeID uuid.UUID, status models.NodeStatus, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	node.Status = status
	node.Error = errMsg
	now := time.Now().UTC()
	if status == models.NodeStatusRunning {
		node.StartedAt = &now
	}
	if status.IsTerminal() {
		node.CompletedAt = &now
	}
	return nil
}

func (r *memoryPipelineRunRepository) UpdateNodeProgress(_ context.Context, nodeID uuid.UUID, progress *models.NodeProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %s not found", nodeID)
	}
	copied := *progress
	node.Progress = &copied
	return nil
}

func (r *memoryPipelineRunRepository) GetRunNodes(_ context.Context, runID uuid.UUID) ([]*models.RunNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var nodes []*models.RunNode
	for _, node := range r.nodes {
		if node.RunID == runID {
			copied := *node
			nodes = append(nodes, &copied)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return nodes, nil
}
