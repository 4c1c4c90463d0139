package engine

import (
	"strings"

	"gig-system/models"
)

// IsQualified reports whether a candidate with the given skills or
// instruments satisfies a role's requirements. A role with no required
// skills accepts anyone; otherwise one case-insensitive overlap is
// enough. A full superset match is not required.
//
// Capacity and window status are independent axes; this predicate
// checks neither.
func IsQualified(skills []string, role *models.BandRole) bool {
	if len(role.RequiredSkills) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			have[s] = struct{}{}
		}
	}
	for _, req := range role.RequiredSkills {
		if _, ok := have[strings.ToLower(strings.TrimSpace(req))]; ok {
			return true
		}
	}
	return false
}

// EligibleRoles returns the indexes of roles the candidate could apply
// to right now: unlocked, capacity available, and qualified. Order
// follows the gig's role list.
func EligibleRoles(gig *models.Gig, skills []string) []int {
	var eligible []int
	for i := range gig.BandRoles {
		role := &gig.BandRoles[i]
		if role.IsLocked {
			continue
		}
		if RoleCapacity(role).IsFull {
			continue
		}
		if !IsQualified(skills, role) {
			continue
		}
		eligible = append(eligible, i)
	}
	return eligible
}
