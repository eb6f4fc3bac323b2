package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RunResult contains the outcome of one reconciliation run.
type RunResult struct {
	DryRun         bool           `json:"dry_run"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	DurationMs     int64          `json:"duration_ms"`
	BudgetExpired  bool           `json:"budget_expired"`
	MemberActions  []MemberAction `json:"member_actions,omitempty"`
	GroupActions   []GroupAction  `json:"group_actions,omitempty"`
	Summary        RunSummary     `json:"summary"`
	Checkpoint     RunCheckpoint  `json:"checkpoint"`
}

// RunSummary provides aggregate statistics for a run.
type RunSummary struct {
	MembersProcessed int `json:"members_processed"`
	Reactivated      int `json:"reactivated"`
	Suspended        int `json:"suspended"`
	Archived         int `json:"archived"`
	Deleted          int `json:"deleted"`
	Skipped          int `json:"skipped"`

	OrgsProcessed  int `json:"orgs_processed"`
	GroupsCreated  int `json:"groups_created"`
	GroupsUpdated  int `json:"groups_updated"`
	MembersAdded   int `json:"group_members_added"`
	MembersRemoved int `json:"group_members_removed"`

	Failures     int         `json:"failures"`
	FailureCodes map[int]int `json:"failure_codes,omitempty"`
}

// RecordFailure counts a permanent failure with its classifying code.
func (s *RunSummary) RecordFailure(code int) {
	s.Failures++
	if s.FailureCodes == nil {
		s.FailureCodes = map[int]int{}
	}
	s.FailureCodes[code]++
}

// IsSuccess reports whether the run completed without permanent failures.
func (r *RunResult) IsSuccess() bool {
	return r.Summary.Failures == 0
}

// String returns a human-readable representation of the run summary.
func (s RunSummary) String() string {
	return fmt.Sprintf(
		"run completed: Members: %d processed, Reactivated: %d, Suspended: %d, Archived: %d, Deleted: %d, Skipped: %d, "+
			"Orgs: %d, Groups: %d created / %d updated, Membership: +%d/-%d, Failures: %d",
		s.MembersProcessed, s.Reactivated, s.Suspended, s.Archived, s.Deleted, s.Skipped,
		s.OrgsProcessed, s.GroupsCreated, s.GroupsUpdated, s.MembersAdded, s.MembersRemoved,
		s.Failures,
	)
}

// NotificationSummary is the per-run report handed to the mail collaborator.
type NotificationSummary struct {
	Recipients []string   `json:"recipients"`
	Subject    string     `json:"subject"`
	RunAt      time.Time  `json:"run_at"`
	DryRun     bool       `json:"dry_run"`
	Summary    RunSummary `json:"summary"`
	Errors     []string   `json:"errors,omitempty"`
}

// Body renders the summary as a plain-text report.
func (n *NotificationSummary) Body() string {
	var b strings.Builder
	if n.DryRun {
		b.WriteString("[DRY RUN]\n")
	}
	fmt.Fprintf(&b, "Reconciliation run at %s\n\n", n.RunAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Reactivated: %d\n", n.Summary.Reactivated)
	fmt.Fprintf(&b, "Suspended:   %d\n", n.Summary.Suspended)
	fmt.Fprintf(&b, "Archived:    %d\n", n.Summary.Archived)
	fmt.Fprintf(&b, "Deleted:     %d\n", n.Summary.Deleted)
	fmt.Fprintf(&b, "Groups:      %d created, %d updated\n", n.Summary.GroupsCreated, n.Summary.GroupsUpdated)
	fmt.Fprintf(&b, "Failures:    %d\n", n.Summary.Failures)
	if len(n.Summary.FailureCodes) > 0 {
		codes := make([]int, 0, len(n.Summary.FailureCodes))
		for code := range n.Summary.FailureCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(&b, "  HTTP %d: %d\n", code, n.Summary.FailureCodes[code])
		}
	}
	if len(n.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range n.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}
