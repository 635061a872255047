package auth

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"workops/internal/core/domain"
)

const (
	claimRoles          = "roles"
	claimRole           = "role"
	claimRealmAccess    = "realm_access"
	claimResourceAccess = "resource_access"
)

// NormalizeRoles flattens every role-bearing claim location Keycloak is
// known to use into one deduplicated, case-insensitive, sorted role list.
//
// Sources, in order: the flat "roles" claim, the "role" claim, the
// realm_access roles array, and the resource_access roles array of each
// configured client. Malformed JSON in any of them contributes zero roles
// and is never an error.
func NormalizeRoles(claims jwt.MapClaims, clientIDs []string) []string {
	seen := make(map[string]struct{})
	var roles []string

	add := func(role string) {
		role = strings.TrimSpace(role)
		if role == "" {
			return
		}
		key := strings.ToLower(role)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		roles = append(roles, role)
	}

	for _, value := range claimStrings(claims[claimRoles]) {
		add(value)
	}
	for _, value := range claimStrings(claims[claimRole]) {
		add(value)
	}

	for _, value := range rolesFromAccessClaim(claims[claimRealmAccess]) {
		add(value)
	}

	if resources := accessObject(claims[claimResourceAccess]); resources != nil {
		for _, clientID := range clientIDs {
			for _, value := range rolesFromAccessClaim(resources[clientID]) {
				add(value)
			}
		}
	}

	sort.Strings(roles)
	return roles
}

// claimStrings extracts string values from a claim that may be a single
// string or an array of strings.
func claimStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// accessObject coerces a claim value into a JSON object. String values are
// decoded; anything malformed yields nil.
func accessObject(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil
		}
		return decoded
	}
	return nil
}

// rolesFromAccessClaim pulls the "roles" array out of a realm_access or
// resource_access.{client} object.
func rolesFromAccessClaim(value any) []string {
	obj := accessObject(value)
	if obj == nil {
		return nil
	}
	return claimStrings(obj[claimRoles])
}

// BuildPrincipal constructs the request-scoped principal from validated
// token claims. The returned claim list carries a synthesized flat "roles"
// claim per normalized role, so standard role-membership checks observe
// the flattened set.
func BuildPrincipal(claims jwt.MapClaims, clientIDs []string) domain.Principal {
	roles := NormalizeRoles(claims, clientIDs)

	flattened := flattenClaims(claims)
	present := make(map[string]struct{})
	for _, c := range flattened {
		if c.Type == claimRoles {
			present[strings.ToLower(c.Value)] = struct{}{}
		}
	}
	for _, role := range roles {
		if _, ok := present[strings.ToLower(role)]; ok {
			continue
		}
		flattened = append(flattened, domain.Claim{Type: claimRoles, Value: role})
	}

	sort.Slice(flattened, func(i, j int) bool {
		if flattened[i].Type != flattened[j].Type {
			return flattened[i].Type < flattened[j].Type
		}
		return flattened[i].Value < flattened[j].Value
	})

	return domain.Principal{
		Sub:               stringClaim(claims, "sub"),
		PreferredUsername: stringClaim(claims, "preferred_username"),
		Email:             stringClaim(claims, "email"),
		Roles:             roles,
		Claims:            flattened,
	}
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if s, ok := claims[name].(string); ok {
		return s
	}
	return ""
}

// flattenClaims renders every claim as one or more {type, value} string
// pairs: arrays become one pair per element, nested objects are kept as
// their JSON encoding.
func flattenClaims(claims jwt.MapClaims) []domain.Claim {
	out := make([]domain.Claim, 0, len(claims))
	for name, value := range claims {
		switch v := value.(type) {
		case string:
			out = append(out, domain.Claim{Type: name, Value: v})
		case []any:
			for _, item := range v {
				out = append(out, domain.Claim{Type: name, Value: claimValueString(item)})
			}
		default:
			out = append(out, domain.Claim{Type: name, Value: claimValueString(v)})
		}
	}
	return out
}

func claimValueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; epoch seconds should not grow
		// a fractional part.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
