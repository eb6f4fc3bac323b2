package reconcile

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wingops/registry-workspace-sync/internal/models"
	"github.com/wingops/registry-workspace-sync/internal/retry"
)

// runGroupPhase reconciles the derived groups of every non-excluded
// organization, in org-ID order starting after the cursor, under the same
// pacing, retry, batch, and budget discipline as the member phase. Groups are
// created and converged, never deleted.
func (e *Engine) runGroupPhase(ctx context.Context, snapshot *models.Snapshot, cursor string, deadline time.Time) ([]models.GroupAction, string, bool) {
	orgs := make([]models.Organization, 0, len(snapshot.Organizations))
	for _, org := range snapshot.Organizations {
		if !org.Excluded {
			orgs = append(orgs, org)
		}
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].ID < orgs[j].ID })

	var actions []models.GroupAction
	processed := 0

	for i, org := range orgs {
		if cursor != "" && org.ID <= cursor {
			continue
		}

		plans := BuildGroupPlans(org, snapshot.Members, e.cfg.Groups, e.cfg.Google.Domain)
		for _, plan := range plans {
			actions = append(actions, e.reconcileGroup(ctx, plan)...)
		}
		processed++

		resumeCursor := org.ID
		if i == len(orgs)-1 {
			resumeCursor = ""
		}

		if e.now().After(deadline) {
			logrus.Info("wall-clock budget expired during group phase")
			return actions, resumeCursor, true
		}
		if processed >= e.cfg.Run.BatchSize && resumeCursor != "" {
			logrus.WithField("batch_size", e.cfg.Run.BatchSize).Info("organization batch cap reached")
			return actions, resumeCursor, false
		}
	}

	return actions, "", false
}

// reconcileGroup converges one derived group: create it if absent, patch
// drifted metadata, and set membership to exactly the desired set. Failures
// on one step are recorded and do not stop the remaining steps unless the
// group itself cannot be created.
func (e *Engine) reconcileGroup(ctx context.Context, plan models.GroupPlan) []models.GroupAction {
	var actions []models.GroupAction

	var current *models.DirectoryGroup
	result := e.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		current, err = e.directory.GetGroup(ctx, plan.Email)
		return err
	})
	if !result.OK() {
		return []models.GroupAction{failedGroupAction(plan, models.GroupActionPatch, "", result)}
	}

	if current == nil {
		action := models.GroupAction{Action: models.GroupActionCreate, GroupEmail: plan.Email, OrgID: plan.OrgID}
		if e.cfg.Run.DryRun {
			return append(actions, action)
		}
		result = e.exec.Execute(ctx, func(ctx context.Context) error {
			return e.directory.CreateGroup(ctx, models.DirectoryGroup{
				Email:       plan.Email,
				Name:        plan.Name,
				Description: plan.Description,
			})
		})
		if !result.OK() {
			// Without the group there is nothing else to converge.
			return append(actions, failedGroupAction(plan, models.GroupActionCreate, "", result))
		}
		action.Executed = true
		actions = append(actions, action)
		logrus.WithFields(action.LogFields()).Info("group created")

		actions = append(actions, e.patchSettings(ctx, plan))
	} else if current.Name != plan.Name || current.Description != plan.Description {
		action := models.GroupAction{Action: models.GroupActionPatch, GroupEmail: plan.Email, OrgID: plan.OrgID}
		if e.cfg.Run.DryRun {
			actions = append(actions, action)
		} else {
			result = e.exec.Execute(ctx, func(ctx context.Context) error {
				return e.directory.PatchGroup(ctx, models.DirectoryGroup{
					Email:       plan.Email,
					Name:        plan.Name,
					Description: plan.Description,
				})
			})
			if result.OK() {
				action.Executed = true
				actions = append(actions, action)
				actions = append(actions, e.patchSettings(ctx, plan))
			} else {
				actions = append(actions, failedGroupAction(plan, models.GroupActionPatch, "", result))
			}
		}
	}

	actions = append(actions, e.convergeMembership(ctx, plan)...)
	return actions
}

// convergeMembership adds missing and removes extraneous group members so
// the directory matches the derived set exactly.
func (e *Engine) convergeMembership(ctx context.Context, plan models.GroupPlan) []models.GroupAction {
	var actions []models.GroupAction

	var currentMembers []string
	result := e.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		currentMembers, err = e.directory.ListGroupMembers(ctx, plan.Email)
		return err
	})
	if !result.OK() {
		return []models.GroupAction{failedGroupAction(plan, models.GroupActionAddMember, "", result)}
	}

	current := map[string]bool{}
	for _, email := range currentMembers {
		current[strings.ToLower(email)] = true
	}
	desired := map[string]bool{}
	for _, email := range plan.Members {
		desired[email] = true
	}

	for _, email := range plan.Members {
		if current[email] {
			continue
		}
		actions = append(actions, e.memberEdit(ctx, plan, models.GroupActionAddMember, email, func(ctx context.Context) error {
			return e.directory.AddGroupMember(ctx, plan.Email, email)
		}))
	}

	extraneous := make([]string, 0)
	for email := range current {
		if !desired[email] {
			extraneous = append(extraneous, email)
		}
	}
	sort.Strings(extraneous)
	for _, email := range extraneous {
		actions = append(actions, e.memberEdit(ctx, plan, models.GroupActionRemoveMember, email, func(ctx context.Context) error {
			return e.directory.RemoveGroupMember(ctx, plan.Email, email)
		}))
	}

	return actions
}

func (e *Engine) memberEdit(ctx context.Context, plan models.GroupPlan, kind models.GroupActionType, email string, op func(ctx context.Context) error) models.GroupAction {
	action := models.GroupAction{Action: kind, GroupEmail: plan.Email, OrgID: plan.OrgID, Target: email}
	if e.cfg.Run.DryRun {
		return action
	}
	result := e.exec.Execute(ctx, op)
	if !result.OK() {
		return failedGroupAction(plan, kind, email, result)
	}
	action.Executed = true
	return action
}

func (e *Engine) patchSettings(ctx context.Context, plan models.GroupPlan) models.GroupAction {
	action := models.GroupAction{Action: models.GroupActionPatchSettings, GroupEmail: plan.Email, OrgID: plan.OrgID}
	if e.cfg.Run.DryRun {
		return action
	}
	result := e.exec.Execute(ctx, func(ctx context.Context) error {
		return e.directory.PatchGroupSettings(ctx, plan.Email, plan.Listed, plan.Moderation)
	})
	if !result.OK() {
		return failedGroupAction(plan, models.GroupActionPatchSettings, "", result)
	}
	action.Executed = true
	return action
}

func failedGroupAction(plan models.GroupPlan, kind models.GroupActionType, target string, result retry.Result) models.GroupAction {
	errMsg := ""
	if result.Err != nil {
		errMsg = result.Err.Error()
	}
	action := models.GroupAction{
		Action:      kind,
		GroupEmail:  plan.Email,
		OrgID:       plan.OrgID,
		Target:      target,
		FailureCode: result.Code,
		Error:       &errMsg,
	}
	logrus.WithFields(action.LogFields()).Warn("group reconciliation step failed")
	return action
}
