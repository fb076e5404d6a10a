package auth

import "strings"

// Role is one of the fixed authorities a user can hold.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleBiuro Role = "BIURO"
	RoleUser  Role = "USER"
)

const rolePrefix = "ROLE_"

var knownRoles = []Role{RoleAdmin, RoleBiuro, RoleUser}

// ParseRole accepts the bare name or the ROLE_-prefixed form in any case.
func ParseRole(raw string) (Role, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, rolePrefix)
	for _, r := range knownRoles {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// Roles is an ordered set of roles.
type Roles []Role

// NormalizeRoles parses raw role names, dropping unknown and duplicate entries.
func NormalizeRoles(raw []string) Roles {
	out := make(Roles, 0, len(raw))
	for _, name := range raw {
		role, ok := ParseRole(name)
		if !ok || out.Has(role) {
			continue
		}
		out = append(out, role)
	}
	return out
}

func (rs Roles) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of want is present.
func (rs Roles) HasAny(want ...Role) bool {
	for _, w := range want {
		if rs.Has(w) {
			return true
		}
	}
	return false
}

func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// CanModifyTickets gates ticket updates and deletions.
func CanModifyTickets(rs Roles) bool {
	return rs.HasAny(RoleAdmin, RoleBiuro)
}
