package domain

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyRoleID indicates a role ID is required.
	ErrEmptyRoleID = errors.New("role id is required")
	// ErrEmptyRoleName indicates a role name is required.
	ErrEmptyRoleName = errors.New("role name is required")
)

// attrMin and attrMax bound every role attribute.
const (
	attrMin = 0
	attrMax = 100
)

// RoleAttrs are the bounded stats tracked per party member.
type RoleAttrs struct {
	Stamina       int `json:"stamina"`
	Mood          int `json:"mood"`
	Experience    int `json:"experience"`
	RiskTolerance int `json:"risk_tolerance"`
	Supplies      int `json:"supplies"`
}

// clampAttr bounds a single attribute to [0,100].
func clampAttr(v int) int {
	if v < attrMin {
		return attrMin
	}
	if v > attrMax {
		return attrMax
	}
	return v
}

// Clamp bounds every attribute to [0,100]. Called after every mutation so
// out-of-range values never persist.
func (a *RoleAttrs) Clamp() {
	a.Stamina = clampAttr(a.Stamina)
	a.Mood = clampAttr(a.Mood)
	a.Experience = clampAttr(a.Experience)
	a.RiskTolerance = clampAttr(a.RiskTolerance)
	a.Supplies = clampAttr(a.Supplies)
}

// Apply adds the given deltas and re-clamps.
func (a *RoleAttrs) Apply(stamina, mood, experience, supplies int) {
	a.Stamina += stamina
	a.Mood += mood
	a.Experience += experience
	a.Supplies += supplies
	a.Clamp()
}

// DefaultRoleAttrs returns the starting stats for a freshly created role.
func DefaultRoleAttrs() RoleAttrs {
	return RoleAttrs{Stamina: 70, Mood: 60, Experience: 10, RiskTolerance: 50, Supplies: 80}
}

// Role is one party member, player-controlled or companion.
type Role struct {
	ID        string    `json:"role_id"`
	Name      string    `json:"name"`
	AvatarKey string    `json:"avatar_key,omitempty"`
	Persona   string    `json:"persona"`
	Attrs     RoleAttrs `json:"attrs"`
}

// NormalizeRole trims identifying fields, fills attribute defaults for a
// zero-valued attrs struct, and validates required fields.
func NormalizeRole(role Role) (Role, error) {
	role.ID = strings.TrimSpace(role.ID)
	if role.ID == "" {
		return Role{}, ErrEmptyRoleID
	}
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return Role{}, ErrEmptyRoleName
	}
	if role.AvatarKey == "" {
		role.AvatarKey = "default"
	}
	if role.Attrs == (RoleAttrs{}) {
		role.Attrs = DefaultRoleAttrs()
	}
	role.Attrs.Clamp()
	return role, nil
}

// QuickstartRoles returns the default three-member party used by the
// quickstart flow. The first entry is intended to become the active role.
func QuickstartRoles() []Role {
	return []Role{
		{
			ID:        "r_ao",
			Name:      "Ao",
			AvatarKey: "green",
			Persona:   "Ao: the trail leader, knows the route well, leans cautious.",
			Attrs:     RoleAttrs{Stamina: 75, Mood: 58, Experience: 35, RiskTolerance: 35, Supplies: 80},
		},
		{
			ID:        "r_tb",
			Name:      "Taibai",
			AvatarKey: "blue",
			Persona:   "Taibai: the gear enthusiast, records data and weather changes.",
			Attrs:     RoleAttrs{Stamina: 68, Mood: 62, Experience: 42, RiskTolerance: 45, Supplies: 80},
		},
		{
			ID:        "r_xs",
			Name:      "Xiaoshan",
			AvatarKey: "red",
			Persona:   "Xiaoshan: an upbeat novice hiker, bold but listens to advice.",
			Attrs:     RoleAttrs{Stamina: 70, Mood: 72, Experience: 12, RiskTolerance: 65, Supplies: 80},
		},
	}
}
