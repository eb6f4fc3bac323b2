package reconcile

import (
	"fmt"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// buildSummary aggregates per-entity outcomes into the run summary.
func buildSummary(memberActions []models.MemberAction, groupActions []models.GroupAction) models.RunSummary {
	summary := models.RunSummary{}

	for _, action := range memberActions {
		if action.Error != nil {
			summary.RecordFailure(action.FailureCode)
			continue
		}
		switch action.Action {
		case models.ActionReactivate:
			summary.Reactivated++
		case models.ActionSuspend:
			summary.Suspended++
		case models.ActionArchive:
			summary.Archived++
		case models.ActionDelete:
			summary.Deleted++
		}
	}

	touchedOrgs := map[string]struct{}{}
	for _, action := range groupActions {
		touchedOrgs[action.OrgID] = struct{}{}
		if action.Error != nil {
			summary.RecordFailure(action.FailureCode)
			continue
		}
		switch action.Action {
		case models.GroupActionCreate:
			summary.GroupsCreated++
		case models.GroupActionPatch, models.GroupActionPatchSettings:
			summary.GroupsUpdated++
		case models.GroupActionAddMember:
			summary.MembersAdded++
		case models.GroupActionRemoveMember:
			summary.MembersRemoved++
		}
	}
	summary.OrgsProcessed = len(touchedOrgs)

	return summary
}

// buildNotification assembles the per-run report handed to the mail
// collaborator.
func buildNotification(recipients []string, result *models.RunResult) models.NotificationSummary {
	var errs []string
	for _, action := range result.MemberActions {
		if action.Error != nil {
			errs = append(errs, fmt.Sprintf("member %d (%s): %s [%d]", action.RegistryID, action.Email, *action.Error, action.FailureCode))
		}
	}
	for _, action := range result.GroupActions {
		if action.Error != nil {
			errs = append(errs, fmt.Sprintf("group %s: %s [%d]", action.GroupEmail, *action.Error, action.FailureCode))
		}
	}

	subject := fmt.Sprintf("Membership sync report: %d lifecycle actions, %d failures",
		result.Summary.Reactivated+result.Summary.Suspended+result.Summary.Archived+result.Summary.Deleted,
		result.Summary.Failures)
	if result.DryRun {
		subject = "[DRY RUN] " + subject
	}

	return models.NotificationSummary{
		Recipients: recipients,
		Subject:    subject,
		RunAt:      result.StartTime,
		DryRun:     result.DryRun,
		Summary:    result.Summary,
		Errors:     errs,
	}
}
