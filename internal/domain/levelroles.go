package domain

import "sort"

// ResolveDesiredRoles returns every role whose required level is reached.
// A member may hold several level roles at once.
func ResolveDesiredRoles(rules []LevelRoleRule, userLevel int) []string {
	seen := make(map[string]struct{}, len(rules))
	roles := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule.Level < 1 || rule.Level > userLevel {
			continue
		}
		if _, ok := seen[rule.RoleID]; ok {
			continue
		}
		seen[rule.RoleID] = struct{}{}
		roles = append(roles, rule.RoleID)
	}
	sort.Strings(roles)
	return roles
}

// CrossedLevelRole reports whether moving from oldLevel to newLevel reaches a new rule.
func CrossedLevelRole(rules []LevelRoleRule, oldLevel, newLevel int) bool {
	for _, rule := range rules {
		if rule.Level > oldLevel && rule.Level <= newLevel {
			return true
		}
	}
	return false
}
