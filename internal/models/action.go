package models

import (
	"time"

	"github.com/sirupsen/logrus"
)

// LifecycleAction is the transition the state machine selects for a member.
type LifecycleAction string

const (
	ActionNone       LifecycleAction = "none"
	ActionSuspend    LifecycleAction = "suspend"
	ActionReactivate LifecycleAction = "reactivate"
	ActionArchive    LifecycleAction = "archive"
	ActionDelete     LifecycleAction = "delete"
)

// MemberAction records one lifecycle action taken (or planned, in dry-run)
// against a member's directory account.
type MemberAction struct {
	Action      LifecycleAction `json:"action"`
	RegistryID  uint64          `json:"registry_id"`
	Email       string          `json:"email"`
	OrgID       string          `json:"org_id"`
	Reason      string          `json:"reason"`
	Executed    bool            `json:"executed"`
	FailureCode int             `json:"failure_code,omitempty"`
	Error       *string         `json:"error,omitempty"`
	Timestamp   *time.Time      `json:"timestamp,omitempty"`
}

// LogFields returns structured logging fields for this action.
func (a *MemberAction) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"action":      a.Action,
		"registry_id": a.RegistryID,
		"email":       a.Email,
		"reason":      a.Reason,
	}
	if a.FailureCode != 0 {
		fields["code"] = a.FailureCode
	}
	if a.Error != nil {
		fields["error"] = *a.Error
	}
	return fields
}

// GroupActionType categorizes group reconciliation outcomes.
type GroupActionType string

const (
	GroupActionCreate        GroupActionType = "create"
	GroupActionPatch         GroupActionType = "patch"
	GroupActionAddMember     GroupActionType = "add_member"
	GroupActionRemoveMember  GroupActionType = "remove_member"
	GroupActionPatchSettings GroupActionType = "patch_settings"
)

// GroupAction records one group reconciliation step.
type GroupAction struct {
	Action      GroupActionType `json:"action"`
	GroupEmail  string          `json:"group_email"`
	OrgID       string          `json:"org_id"`
	Target      string          `json:"target,omitempty"`
	Executed    bool            `json:"executed"`
	FailureCode int             `json:"failure_code,omitempty"`
	Error       *string         `json:"error,omitempty"`
}

// LogFields returns structured logging fields for this group action.
func (a *GroupAction) LogFields() logrus.Fields {
	fields := logrus.Fields{
		"action": a.Action,
		"group":  a.GroupEmail,
		"org":    a.OrgID,
	}
	if a.Target != "" {
		fields["target"] = a.Target
	}
	if a.FailureCode != 0 {
		fields["code"] = a.FailureCode
	}
	if a.Error != nil {
		fields["error"] = *a.Error
	}
	return fields
}
