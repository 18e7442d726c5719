package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Run Status
// ============================================================================

// RunStatus represents the execution status of a pipeline run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ValidRunStatuses contains all valid run status values.
var ValidRunStatuses = []RunStatus{
	RunStatusPending,
	RunStatusRunning,
	RunStatusCompleted,
	RunStatusFailed,
}

// IsValidRunStatus checks if the given status is valid.
func IsValidRunStatus(s RunStatus) bool {
	for _, v := range ValidRunStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the run status is terminal.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// ============================================================================
// Node Status
// ============================================================================

// NodeStatus represents the execution status of a pipeline node.
type NodeStatus string

const (
	NodeStatusPending   NodeStatus = "pending"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusFailed    NodeStatus = "failed"
	NodeStatusSkipped   NodeStatus = "skipped"
)

// ValidNodeStatuses contains all valid node status values.
var ValidNodeStatuses = []NodeStatus{
	NodeStatusPending,
	NodeStatusRunning,
	NodeStatusCompleted,
	NodeStatusFailed,
	NodeStatusSkipped,
}

// IsValidNodeStatus checks if the given status is valid.
func IsValidNodeStatus(s NodeStatus) bool {
	for _, v := range ValidNodeStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the node status is terminal.
func (s NodeStatus) IsTerminal() bool {
	return s == NodeStatusCompleted || s == NodeStatusFailed || s == NodeStatusSkipped
}

// ============================================================================
// Node Names
// ============================================================================

// NodeName represents the name of a node in the materialization pipeline.
type NodeName string

const (
	NodeIngest              NodeName = "Ingest"
	NodeNormalizeVagas      NodeName = "NormalizeVagas"
	NodeNormalizeProspects  NodeName = "NormalizeProspects"
	NodeNormalizeApplicants NodeName = "NormalizeApplicants"
	NodeCoreJoin            NodeName = "CoreJoin"
)

// NodeOrder defines the stage each node belongs to. Nodes sharing a stage
// have no dependency on each other; a node may only start once every node
// of earlier stages is terminal.
var NodeOrder = map[NodeName]int{
	NodeIngest:              1,
	NodeNormalizeVagas:      2,
	NodeNormalizeProspects:  2,
	NodeNormalizeApplicants: 2,
	NodeCoreJoin:            3,
}

// ============================================================================
// Run and Node records
// ============================================================================

// NodeProgress tracks the progress of a pipeline node.
type NodeProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Percentage returns the progress as a 0-100 percentage.
func (p *NodeProgress) Percentage() int {
	if p.Total == 0 {
		return 0
	}
	return p.Current * 100 / p.Total
}

// PipelineRun represents one materialization run over a raw snapshot.
type PipelineRun struct {
	ID          uuid.UUID  `json:"id"`
	Status      RunStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunNode represents one node execution within a pipeline run.
type RunNode struct {
	ID          uuid.UUID     `json:"id"`
	RunID       uuid.UUID     `json:"run_id"`
	Name        NodeName      `json:"name"`
	Status      NodeStatus    `json:"status"`
	Error       string        `json:"error,omitempty"`
	Progress    *NodeProgress `json:"progress,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
