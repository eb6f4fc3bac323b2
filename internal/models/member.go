package models

import "time"

// MemberType is the registry's membership classification.
type MemberType string

const (
	TypeCadet     MemberType = "cadet"
	TypeSenior    MemberType = "senior"
	TypeFiftyYear MemberType = "fifty-year"
	TypeLife      MemberType = "life"
	TypeAeroEd    MemberType = "aerospace-education"
)

// RegistryStatus is the member's standing in the imported registry.
type RegistryStatus string

const (
	RegistryActive  RegistryStatus = "active"
	RegistryExpired RegistryStatus = "expired"
)

// AccountStatus is the lifecycle state of the member's directory account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountArchived  AccountStatus = "archived"
	AccountDeleted   AccountStatus = "deleted"
)

// Member is a read-only registry snapshot record. The engine never mutates
// it; lifecycle actions target the corresponding directory account instead.
type Member struct {
	RegistryID     uint64         `json:"registry_id"`
	Email          string         `json:"email"`
	OrgID          string         `json:"org_id"`
	Type           MemberType     `json:"type"`
	Status         RegistryStatus `json:"status"`
	GuardianEmails []string       `json:"guardian_emails,omitempty"`
	DutyPositions  []string       `json:"duty_positions,omitempty"`
}

// IsActive reports whether the member is in good standing with the registry.
func (m *Member) IsActive() bool {
	return m.Status == RegistryActive
}

// AccountState is the directory-side view of a member's account. ChangedAt is
// the last lifecycle transition timestamp the adapter recorded on the account,
// not anything derived from registry data.
type AccountState struct {
	Status    AccountStatus `json:"status"`
	ChangedAt time.Time     `json:"changed_at"`
}
