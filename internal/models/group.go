package models

// GroupKind identifies one of the derived groups owned by an organization.
// Exactly one group per (organization, kind) pair exists.
type GroupKind string

const (
	GroupAccess        GroupKind = "access"
	GroupPublicContact GroupKind = "public-contact"
	GroupListAllHands  GroupKind = "list-allhands"
	GroupListCadets    GroupKind = "list-cadets"
	GroupListSeniors   GroupKind = "list-seniors"
	GroupListParents   GroupKind = "list-parents"
)

// ModerationPolicy controls who may post to a group.
type ModerationPolicy string

const (
	PostMembersOnly  ModerationPolicy = "members"
	PostAnyone       ModerationPolicy = "anyone"
	PostManagersOnly ModerationPolicy = "managers"
)

// GroupPlan is the desired state of one derived group: identity, metadata,
// settings, and the exact membership set the reconciler converges to.
type GroupPlan struct {
	Kind        GroupKind        `json:"kind"`
	OrgID       string           `json:"org_id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Listed      bool             `json:"listed"`
	Moderation  ModerationPolicy `json:"moderation"`
	Members     []string         `json:"members"`
}

// DirectoryGroup is the current state of a group as read from the directory.
type DirectoryGroup struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
