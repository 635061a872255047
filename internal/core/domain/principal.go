package domain

import "strings"

// Claim is one attribute asserted about a principal by the identity
// provider, flattened to a string value.
type Claim struct {
	Type  string
	Value string
}

// Principal is the authenticated identity for a single request. It is
// rebuilt on every request from the validated token and never cached
// server-side.
type Principal struct {
	Sub               string
	PreferredUsername string
	Email             string
	// Roles is deduplicated case-insensitively and sorted.
	Roles []string
	// Claims includes the synthesized flattened role claims so claim
	// listings observe the normalized set.
	Claims []Claim
}

// HasRole reports case-insensitive membership in the normalized role set.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
