package directory

import (
	"context"

	"github.com/wingops/registry-workspace-sync/internal/models"
)

// MockClient is a simple mock implementation of the directory client.
type MockClient struct {
	GetAccountStateFunc    func(ctx context.Context, email string) (*models.AccountState, error)
	SuspendUserFunc        func(ctx context.Context, email string) error
	ReactivateUserFunc     func(ctx context.Context, email string) error
	ArchiveUserFunc        func(ctx context.Context, email string) error
	DeleteUserFunc         func(ctx context.Context, email string) error
	GetGroupFunc           func(ctx context.Context, email string) (*models.DirectoryGroup, error)
	CreateGroupFunc        func(ctx context.Context, group models.DirectoryGroup) error
	PatchGroupFunc         func(ctx context.Context, group models.DirectoryGroup) error
	PatchGroupSettingsFunc func(ctx context.Context, email string, listed bool, moderation models.ModerationPolicy) error
	ListGroupMembersFunc   func(ctx context.Context, groupEmail string) ([]string, error)
	AddGroupMemberFunc     func(ctx context.Context, groupEmail string, memberEmail string) error
	RemoveGroupMemberFunc  func(ctx context.Context, groupEmail string, memberEmail string) error

	// Track calls for assertions.
	Suspended      []string
	Reactivated    []string
	Archived       []string
	Deleted        []string
	Created        []models.DirectoryGroup
	Patched        []models.DirectoryGroup
	AddedMembers   map[string][]string
	RemovedMembers map[string][]string
}

func (m *MockClient) GetAccountState(ctx context.Context, email string) (*models.AccountState, error) {
	if m.GetAccountStateFunc == nil {
		return &models.AccountState{Status: models.AccountActive}, nil
	}
	return m.GetAccountStateFunc(ctx, email)
}

func (m *MockClient) SuspendUser(ctx context.Context, email string) error {
	m.Suspended = append(m.Suspended, email)
	if m.SuspendUserFunc == nil {
		return nil
	}
	return m.SuspendUserFunc(ctx, email)
}

func (m *MockClient) ReactivateUser(ctx context.Context, email string) error {
	m.Reactivated = append(m.Reactivated, email)
	if m.ReactivateUserFunc == nil {
		return nil
	}
	return m.ReactivateUserFunc(ctx, email)
}

func (m *MockClient) ArchiveUser(ctx context.Context, email string) error {
	m.Archived = append(m.Archived, email)
	if m.ArchiveUserFunc == nil {
		return nil
	}
	return m.ArchiveUserFunc(ctx, email)
}

func (m *MockClient) DeleteUser(ctx context.Context, email string) error {
	m.Deleted = append(m.Deleted, email)
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, email)
}

func (m *MockClient) GetGroup(ctx context.Context, email string) (*models.DirectoryGroup, error) {
	if m.GetGroupFunc == nil {
		return nil, nil
	}
	return m.GetGroupFunc(ctx, email)
}

func (m *MockClient) CreateGroup(ctx context.Context, group models.DirectoryGroup) error {
	m.Created = append(m.Created, group)
	if m.CreateGroupFunc == nil {
		return nil
	}
	return m.CreateGroupFunc(ctx, group)
}

func (m *MockClient) PatchGroup(ctx context.Context, group models.DirectoryGroup) error {
	m.Patched = append(m.Patched, group)
	if m.PatchGroupFunc == nil {
		return nil
	}
	return m.PatchGroupFunc(ctx, group)
}

func (m *MockClient) PatchGroupSettings(ctx context.Context, email string, listed bool, moderation models.ModerationPolicy) error {
	if m.PatchGroupSettingsFunc == nil {
		return nil
	}
	return m.PatchGroupSettingsFunc(ctx, email, listed, moderation)
}

func (m *MockClient) ListGroupMembers(ctx context.Context, groupEmail string) ([]string, error) {
	if m.ListGroupMembersFunc == nil {
		return nil, nil
	}
	return m.ListGroupMembersFunc(ctx, groupEmail)
}

func (m *MockClient) AddGroupMember(ctx context.Context, groupEmail string, memberEmail string) error {
	if m.AddedMembers == nil {
		m.AddedMembers = map[string][]string{}
	}
	m.AddedMembers[groupEmail] = append(m.AddedMembers[groupEmail], memberEmail)
	if m.AddGroupMemberFunc == nil {
		return nil
	}
	return m.AddGroupMemberFunc(ctx, groupEmail, memberEmail)
}

func (m *MockClient) RemoveGroupMember(ctx context.Context, groupEmail string, memberEmail string) error {
	if m.RemovedMembers == nil {
		m.RemovedMembers = map[string][]string{}
	}
	m.RemovedMembers[groupEmail] = append(m.RemovedMembers[groupEmail], memberEmail)
	if m.RemoveGroupMemberFunc == nil {
		return nil
	}
	return m.RemoveGroupMemberFunc(ctx, groupEmail, memberEmail)
}
