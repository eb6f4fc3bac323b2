// Package directory adapts Google Workspace Admin SDK calls to the abstract
// account/group operations the reconciliation engine drives. "Archive" is not
// a native Workspace concept; the adapter renders it as a move into a
// dedicated org unit while keeping the account suspended, and records every
// lifecycle transition timestamp in a custom user schema so later runs can
// measure elapsed time from directory state alone.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/groupssettings/v1"
	"google.golang.org/api/option"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

const (
	usersScope    = "https://www.googleapis.com/auth/admin.directory.user"
	groupsScope   = "https://www.googleapis.com/auth/admin.directory.group"
	membersScope  = "https://www.googleapis.com/auth/admin.directory.group.member"
	settingsScope = "https://www.googleapis.com/auth/apps.groups.settings"

	// schemaName is the custom user schema holding the lifecycle timestamp.
	schemaName      = "MembershipSync"
	schemaTimeField = "statusChangedAt"
)

type directoryAPI interface {
	GetUser(ctx context.Context, email string) (*admin.User, error)
	UpdateUser(ctx context.Context, email string, user *admin.User) error
	DeleteUser(ctx context.Context, email string) error
	GetGroup(ctx context.Context, email string) (*admin.Group, error)
	InsertGroup(ctx context.Context, group *admin.Group) error
	PatchGroup(ctx context.Context, email string, group *admin.Group) error
	ListMembers(ctx context.Context, groupEmail string, pageToken string) ([]*admin.Member, string, error)
	InsertMember(ctx context.Context, groupEmail string, member *admin.Member) error
	DeleteMember(ctx context.Context, groupEmail string, memberEmail string) error
	PatchSettings(ctx context.Context, groupEmail string, settings *groupssettings.Groups) error
}

// Client implements the directory operations against Google Workspace.
type Client struct {
	api            directoryAPI
	archiveOrgUnit string
	activeOrgUnit  string
	now            func() time.Time
}

// NewClient creates an Admin SDK client using domain-wide delegation.
func NewClient(ctx context.Context, credentialsJSON []byte, adminEmail string, archiveOrgUnit string, activeOrgUnit string) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("credentials JSON is required")
	}
	if adminEmail == "" {
		return nil, fmt.Errorf("admin email is required")
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, usersScope, groupsScope, membersScope, settingsScope)
	if err != nil {
		return nil, err
	}
	jwtConfig.Subject = adminEmail

	adminSvc, err := admin.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, err
	}
	settingsSvc, err := groupssettings.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, err
	}

	return &Client{
		api:            &adminService{admin: adminSvc, settings: settingsSvc},
		archiveOrgUnit: archiveOrgUnit,
		activeOrgUnit:  activeOrgUnit,
		now:            time.Now,
	}, nil
}

// GetAccountState resolves the lifecycle state of a member's account. A 404
// reports as deleted, not as an error: missing accounts are a normal state
// for the lifecycle machine.
func (c *Client) GetAccountState(ctx context.Context, email string) (*models.AccountState, error) {
	user, err := c.api.GetUser(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return &models.AccountState{Status: models.AccountDeleted}, nil
		}
		return nil, err
	}

	status := models.AccountActive
	if user.Suspended {
		status = models.AccountSuspended
		if user.OrgUnitPath == c.archiveOrgUnit {
			status = models.AccountArchived
		}
	}

	return &models.AccountState{
		Status:    status,
		ChangedAt: c.statusChangedAt(user),
	}, nil
}

// SuspendUser suspends the account and stamps the transition time.
func (c *Client) SuspendUser(ctx context.Context, email string) error {
	update := &admin.User{
		Suspended:     true,
		CustomSchemas: c.stamp(),
	}
	if err := c.api.UpdateUser(ctx, email, update); err != nil {
		return fmt.Errorf("suspending %s: %w", email, err)
	}
	return nil
}

// ReactivateUser clears suspension and stamps the transition time. Only
// accounts parked in the archive org unit move back to the active one;
// accounts suspended in place keep whatever unit admins put them in.
func (c *Client) ReactivateUser(ctx context.Context, email string) error {
	user, err := c.api.GetUser(ctx, email)
	if err != nil {
		return fmt.Errorf("reactivating %s: %w", email, err)
	}

	update := &admin.User{
		Suspended:       false,
		CustomSchemas:   c.stamp(),
		ForceSendFields: []string{"Suspended"},
	}
	if user.OrgUnitPath == c.archiveOrgUnit {
		update.OrgUnitPath = c.activeOrgUnit
	}

	if err := c.api.UpdateUser(ctx, email, update); err != nil {
		return fmt.Errorf("reactivating %s: %w", email, err)
	}
	return nil
}

// ArchiveUser moves the account into the archive org unit. The account stays
// suspended; the org unit is what distinguishes archived from suspended.
func (c *Client) ArchiveUser(ctx context.Context, email string) error {
	update := &admin.User{
		Suspended:     true,
		OrgUnitPath:   c.archiveOrgUnit,
		CustomSchemas: c.stamp(),
	}
	if err := c.api.UpdateUser(ctx, email, update); err != nil {
		return fmt.Errorf("archiving %s: %w", email, err)
	}
	return nil
}

// DeleteUser removes the account. Irreversible.
func (c *Client) DeleteUser(ctx context.Context, email string) error {
	if err := c.api.DeleteUser(ctx, email); err != nil {
		return fmt.Errorf("deleting %s: %w", email, err)
	}
	return nil
}

// GetGroup fetches a group, or nil when it does not exist.
func (c *Client) GetGroup(ctx context.Context, email string) (*models.DirectoryGroup, error) {
	group, err := c.api.GetGroup(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &models.DirectoryGroup{
		Email:       group.Email,
		Name:        group.Name,
		Description: group.Description,
	}, nil
}

// CreateGroup creates a group with the given metadata.
func (c *Client) CreateGroup(ctx context.Context, group models.DirectoryGroup) error {
	if err := c.api.InsertGroup(ctx, &admin.Group{
		Email:       group.Email,
		Name:        group.Name,
		Description: group.Description,
	}); err != nil {
		return fmt.Errorf("creating group %s: %w", group.Email, err)
	}
	return nil
}

// PatchGroup updates drifted group metadata.
func (c *Client) PatchGroup(ctx context.Context, group models.DirectoryGroup) error {
	if err := c.api.PatchGroup(ctx, group.Email, &admin.Group{
		Name:        group.Name,
		Description: group.Description,
	}); err != nil {
		return fmt.Errorf("patching group %s: %w", group.Email, err)
	}
	return nil
}

// PatchGroupSettings converges directory visibility and posting policy.
func (c *Client) PatchGroupSettings(ctx context.Context, email string, listed bool, moderation models.ModerationPolicy) error {
	settings := &groupssettings.Groups{
		IncludeInGlobalAddressList: boolString(listed),
		WhoCanPostMessage:          postPolicy(moderation),
	}
	if err := c.api.PatchSettings(ctx, email, settings); err != nil {
		return fmt.Errorf("patching settings for %s: %w", email, err)
	}
	return nil
}

// ListGroupMembers returns the member emails of a group, all pages.
func (c *Client) ListGroupMembers(ctx context.Context, groupEmail string) ([]string, error) {
	var emails []string
	pageToken := ""
	for {
		items, nextToken, err := c.api.ListMembers(ctx, groupEmail, pageToken)
		if err != nil {
			return nil, fmt.Errorf("listing members of %s: %w", groupEmail, err)
		}
		for _, member := range items {
			if member.Email != "" {
				emails = append(emails, member.Email)
			}
		}
		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}
	return emails, nil
}

// AddGroupMember inserts one member into a group.
func (c *Client) AddGroupMember(ctx context.Context, groupEmail string, memberEmail string) error {
	if err := c.api.InsertMember(ctx, groupEmail, &admin.Member{Email: memberEmail, Role: "MEMBER"}); err != nil {
		return fmt.Errorf("adding %s to %s: %w", memberEmail, groupEmail, err)
	}
	return nil
}

// RemoveGroupMember removes one member from a group.
func (c *Client) RemoveGroupMember(ctx context.Context, groupEmail string, memberEmail string) error {
	if err := c.api.DeleteMember(ctx, groupEmail, memberEmail); err != nil {
		return fmt.Errorf("removing %s from %s: %w", memberEmail, groupEmail, err)
	}
	return nil
}

// statusChangedAt reads the lifecycle timestamp from the custom schema,
// falling back to account creation time for accounts the sync has never
// touched. Creation is the only status change such accounts have had.
func (c *Client) statusChangedAt(user *admin.User) time.Time {
	if raw, ok := user.CustomSchemas[schemaName]; ok {
		var fields struct {
			StatusChangedAt string `json:"statusChangedAt"`
		}
		if err := json.Unmarshal(raw, &fields); err == nil && fields.StatusChangedAt != "" {
			if ts, err := time.Parse(time.RFC3339, fields.StatusChangedAt); err == nil {
				return ts
			}
		}
	}
	if user.CreationTime != "" {
		if ts, err := time.Parse(time.RFC3339, user.CreationTime); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func (c *Client) stamp() map[string]googleapi.RawMessage {
	payload, _ := json.Marshal(map[string]string{
		schemaTimeField: c.now().UTC().Format(time.RFC3339),
	})
	return map[string]googleapi.RawMessage{schemaName: payload}
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func postPolicy(moderation models.ModerationPolicy) string {
	switch moderation {
	case models.PostAnyone:
		return "ANYONE_CAN_POST"
	case models.PostManagersOnly:
		return "ALL_MANAGERS_CAN_POST"
	default:
		return "ALL_MEMBERS_CAN_POST"
	}
}

type adminService struct {
	admin    *admin.Service
	settings *groupssettings.Service
}

func (s *adminService) GetUser(ctx context.Context, email string) (*admin.User, error) {
	return s.admin.Users.Get(email).Projection("full").Context(ctx).Do()
}

func (s *adminService) UpdateUser(ctx context.Context, email string, user *admin.User) error {
	_, err := s.admin.Users.Update(email, user).Context(ctx).Do()
	return err
}

func (s *adminService) DeleteUser(ctx context.Context, email string) error {
	return s.admin.Users.Delete(email).Context(ctx).Do()
}

func (s *adminService) GetGroup(ctx context.Context, email string) (*admin.Group, error) {
	return s.admin.Groups.Get(email).Context(ctx).Do()
}

func (s *adminService) InsertGroup(ctx context.Context, group *admin.Group) error {
	_, err := s.admin.Groups.Insert(group).Context(ctx).Do()
	return err
}

func (s *adminService) PatchGroup(ctx context.Context, email string, group *admin.Group) error {
	_, err := s.admin.Groups.Patch(email, group).Context(ctx).Do()
	return err
}

func (s *adminService) ListMembers(ctx context.Context, groupEmail string, pageToken string) ([]*admin.Member, string, error) {
	call := s.admin.Members.List(groupEmail)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}
	return resp.Members, resp.NextPageToken, nil
}

func (s *adminService) InsertMember(ctx context.Context, groupEmail string, member *admin.Member) error {
	_, err := s.admin.Members.Insert(groupEmail, member).Context(ctx).Do()
	return err
}

func (s *adminService) DeleteMember(ctx context.Context, groupEmail string, memberEmail string) error {
	return s.admin.Members.Delete(groupEmail, memberEmail).Context(ctx).Do()
}

func (s *adminService) PatchSettings(ctx context.Context, groupEmail string, settings *groupssettings.Groups) error {
	_, err := s.settings.Groups.Patch(groupEmail, settings).Context(ctx).Do()
	return err
}
