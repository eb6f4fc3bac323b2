package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wingops/registry-workspace-sync/internal/config"
	"github.com/wingops/registry-workspace-sync/internal/models"
)

// seniorTypes are the member types carried on the seniors distribution list.
var seniorTypes = map[models.MemberType]bool{
	models.TypeSenior:    true,
	models.TypeFiftyYear: true,
	models.TypeLife:      true,
}

// BuildGroupPlans derives the full desired group set for one organization.
// The derivation is deterministic: same snapshot in, same plans out, with
// membership sorted and deduplicated. Members feeding the plans are the
// registry-active ones; expired members converge out of every list.
func BuildGroupPlans(org models.Organization, members []models.Member, groupsCfg config.GroupsConfig, domain string) []models.GroupPlan {
	var active []models.Member
	for _, member := range members {
		if member.OrgID == org.ID && member.IsActive() {
			active = append(active, member)
		}
	}

	var allHands, cadets, seniors, staff, contact, parents []string
	dutyWanted := map[string]bool{}
	for _, duty := range groupsCfg.DutyPositions {
		dutyWanted[strings.ToLower(duty)] = true
	}

	for _, member := range active {
		allHands = append(allHands, member.Email)
		if member.Type == models.TypeCadet {
			cadets = append(cadets, member.Email)
			parents = append(parents, member.GuardianEmails...)
		}
		if seniorTypes[member.Type] {
			seniors = append(seniors, member.Email)
		}
		if len(member.DutyPositions) > 0 {
			staff = append(staff, member.Email)
		}
		for _, duty := range member.DutyPositions {
			if dutyWanted[strings.ToLower(duty)] {
				contact = append(contact, member.Email)
				break
			}
		}
	}

	if groupsCfg.RecruitingMailbox != "" {
		contact = append(contact, groupsCfg.RecruitingMailbox)
	}

	plan := func(kind models.GroupKind, suffix string, name string, listed bool, moderation models.ModerationPolicy, emails []string) models.GroupPlan {
		return models.GroupPlan{
			Kind:        kind,
			OrgID:       org.ID,
			Email:       fmt.Sprintf("%s-%s@%s", org.SquadronCode, suffix, domain),
			Name:        fmt.Sprintf("%s %s", org.Name, name),
			Description: fmt.Sprintf("Managed by registry sync for %s. Membership is recomputed automatically; manual edits will be reverted.", org.Name),
			Listed:      listed,
			Moderation:  moderation,
			Members:     dedupeSorted(emails),
		}
	}

	return []models.GroupPlan{
		plan(models.GroupAccess, "staff", "Staff", false, models.PostMembersOnly, staff),
		plan(models.GroupPublicContact, "info", "Contact", true, models.PostAnyone, contact),
		plan(models.GroupListAllHands, "allhands", "All Hands", false, models.PostMembersOnly, allHands),
		plan(models.GroupListCadets, "cadets", "Cadets", false, models.PostMembersOnly, cadets),
		plan(models.GroupListSeniors, "seniors", "Seniors", false, models.PostMembersOnly, seniors),
		plan(models.GroupListParents, "parents", "Parents", false, models.PostManagersOnly, parents),
	}
}

func dedupeSorted(emails []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, email := range emails {
		lower := strings.ToLower(email)
		if lower == "" {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, lower)
	}
	sort.Strings(out)
	return out
}
