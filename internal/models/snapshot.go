package models

import "time"

// Snapshot is the registry dataset handed over by the import collaborator,
// refreshed once per run before reconciliation begins.
type Snapshot struct {
	ImportedAt    time.Time      `json:"imported_at"`
	Members       []Member       `json:"members"`
	Organizations []Organization `json:"organizations"`
}

// OrgByID builds a lookup map over the snapshot's organizations.
func (s *Snapshot) OrgByID() map[string]Organization {
	orgs := make(map[string]Organization, len(s.Organizations))
	for _, org := range s.Organizations {
		orgs[org.ID] = org
	}
	return orgs
}
