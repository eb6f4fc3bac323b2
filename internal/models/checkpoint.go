package models

import "time"

// RunCheckpoint is the only durable state the engine owns. MemberCursor and
// OrgCursor hold the last fully processed registry ID / organization ID; an
// empty cursor means the corresponding phase starts from the top. The cursors
// are cleared when a phase completes a full pass, so convergence wraps around
// across invocations.
type RunCheckpoint struct {
	PK           string    `dynamodbav:"pk" json:"-"`
	SK           string    `dynamodbav:"sk" json:"-"`
	MemberCursor string    `dynamodbav:"member_cursor" json:"member_cursor"`
	OrgCursor    string    `dynamodbav:"org_cursor" json:"org_cursor"`
	RunAt        time.Time `dynamodbav:"run_at" json:"run_at"`
	Counts       RunCounts `dynamodbav:"counts" json:"counts"`
}

// RunCounts are the action totals persisted with the checkpoint.
type RunCounts struct {
	Processed int `dynamodbav:"processed" json:"processed"`
	Executed  int `dynamodbav:"executed" json:"executed"`
	Failed    int `dynamodbav:"failed" json:"failed"`
}

// NewRunCheckpoint creates a checkpoint with its key attributes set for the
// given workspace domain.
func NewRunCheckpoint(domain string) RunCheckpoint {
	return RunCheckpoint{
		PK: "SYNC#" + domain,
		SK: "CHECKPOINT",
	}
}
