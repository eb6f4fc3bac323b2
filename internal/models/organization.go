package models

// Organization is an organizational unit (squadron) from the registry
// snapshot. Excluded organizations (holding and transition units) receive no
// lifecycle actions other than reactivation and own no derived groups.
type Organization struct {
	ID           string `json:"id"`
	SquadronCode string `json:"squadron_code"`
	Wing         string `json:"wing"`
	Name         string `json:"name"`
	Excluded     bool   `json:"excluded"`
}
