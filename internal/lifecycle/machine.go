// Package lifecycle holds the pure decision function mapping registry status,
// account status and elapsed time to the next required account transition.
package lifecycle

import (
	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/models"
)

// Input is everything NextAction needs to decide a transition.
type Input struct {
	RegistryStatus models.RegistryStatus
	AccountStatus  models.AccountStatus
	// DaysSinceChange is measured from the directory account's last
	// status-change timestamp, never from registry timestamps.
	DaysSinceChange int
	// ExcludedOrg marks members of holding/transition units. They are never
	// suspended, archived, or deleted, but reactivation still applies.
	ExcludedOrg bool
}

// NextAction returns the single transition required for a member, or
// ActionNone. Account status only moves forward along
// active → suspended → archived → deleted; the reactivate edge is the one
// exception and never applies to deleted accounts.
func NextAction(in Input, thresholds config.LifecycleConfig) models.LifecycleAction {
	// Deleted is terminal.
	if in.AccountStatus == models.AccountDeleted {
		return models.ActionNone
	}

	if in.RegistryStatus == models.RegistryActive {
		switch in.AccountStatus {
		case models.AccountSuspended, models.AccountArchived:
			return models.ActionReactivate
		default:
			return models.ActionNone
		}
	}

	// Registry-expired member. Excluded organizations are exempt from the
	// demotion path entirely.
	if in.ExcludedOrg {
		return models.ActionNone
	}

	switch in.AccountStatus {
	case models.AccountActive:
		if in.DaysSinceChange >= thresholds.SuspensionGraceDays {
			return models.ActionSuspend
		}
	case models.AccountSuspended:
		if in.DaysSinceChange >= thresholds.DaysBeforeArchive {
			return models.ActionArchive
		}
	case models.AccountArchived:
		if in.DaysSinceChange >= thresholds.DaysBeforeDelete {
			return models.ActionDelete
		}
	}

	return models.ActionNone
}
