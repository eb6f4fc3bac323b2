package lifecycle

import (
	"testing"

	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/models"
)

var thresholds = config.LifecycleConfig{
	SuspensionGraceDays: 7,
	DaysBeforeArchive:   365,
	DaysBeforeDelete:    1825,
}

func TestActiveMemberActiveAccountNoAction(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus: models.RegistryActive,
		AccountStatus:  models.AccountActive,
	}, thresholds)
	if action != models.ActionNone {
		t.Fatalf("expected none, got %s", action)
	}
}

func TestExpiredMemberSuspendedAfterGrace(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus:  models.RegistryExpired,
		AccountStatus:   models.AccountActive,
		DaysSinceChange: 7,
	}, thresholds)
	if action != models.ActionSuspend {
		t.Fatalf("expected suspend on day 7, got %s", action)
	}
}

func TestExpiredMemberNotSuspendedWithinGrace(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus:  models.RegistryExpired,
		AccountStatus:   models.AccountActive,
		DaysSinceChange: 6,
	}, thresholds)
	if action != models.ActionNone {
		t.Fatalf("expected none on day 6, got %s", action)
	}
}

func TestSuspendedMemberArchivedAtThreshold(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus:  models.RegistryExpired,
		AccountStatus:   models.AccountSuspended,
		DaysSinceChange: 365,
	}, thresholds)
	if action != models.ActionArchive {
		t.Fatalf("expected archive at 365 days, got %s", action)
	}

	action = NextAction(Input{
		RegistryStatus:  models.RegistryExpired,
		AccountStatus:   models.AccountSuspended,
		DaysSinceChange: 364,
	}, thresholds)
	if action != models.ActionNone {
		t.Fatalf("expected none one day early, got %s", action)
	}
}

func TestArchivedMemberDeletedAtThreshold(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus:  models.RegistryExpired,
		AccountStatus:   models.AccountArchived,
		DaysSinceChange: 1825,
	}, thresholds)
	if action != models.ActionDelete {
		t.Fatalf("expected delete at 1825 days, got %s", action)
	}
}

func TestReactivationFromSuspended(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus: models.RegistryActive,
		AccountStatus:  models.AccountSuspended,
	}, thresholds)
	if action != models.ActionReactivate {
		t.Fatalf("expected reactivate, got %s", action)
	}
}

func TestReactivationFromArchived(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus: models.RegistryActive,
		AccountStatus:  models.AccountArchived,
	}, thresholds)
	if action != models.ActionReactivate {
		t.Fatalf("expected reactivate, got %s", action)
	}
}

func TestDeletedIsTerminal(t *testing.T) {
	for _, status := range []models.RegistryStatus{models.RegistryActive, models.RegistryExpired} {
		action := NextAction(Input{
			RegistryStatus:  status,
			AccountStatus:   models.AccountDeleted,
			DaysSinceChange: 10000,
		}, thresholds)
		if action != models.ActionNone {
			t.Fatalf("expected none for deleted account with registry status %s, got %s", status, action)
		}
	}
}

func TestExcludedOrgNeverDemoted(t *testing.T) {
	for _, status := range []models.AccountStatus{models.AccountActive, models.AccountSuspended, models.AccountArchived} {
		action := NextAction(Input{
			RegistryStatus:  models.RegistryExpired,
			AccountStatus:   status,
			DaysSinceChange: 10000,
			ExcludedOrg:     true,
		}, thresholds)
		if action != models.ActionNone {
			t.Fatalf("expected none for excluded org with account status %s, got %s", status, action)
		}
	}
}

func TestExcludedOrgStillReactivates(t *testing.T) {
	action := NextAction(Input{
		RegistryStatus: models.RegistryActive,
		AccountStatus:  models.AccountSuspended,
		ExcludedOrg:    true,
	}, thresholds)
	if action != models.ActionReactivate {
		t.Fatalf("expected reactivate for excluded org, got %s", action)
	}
}

func TestNoTransitionSkipsStates(t *testing.T) {
	// An expired active account goes to suspend, never straight to archive
	// or delete, no matter how long the account has sat unchanged.
	action := NextAction(Input{
		RegistryStatus:  models.RegistryExpired,
		AccountStatus:   models.AccountActive,
		DaysSinceChange: 10000,
	}, thresholds)
	if action != models.ActionSuspend {
		t.Fatalf("expected suspend (no state skipping), got %s", action)
	}
}
