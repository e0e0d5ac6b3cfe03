// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package recipient

import "github.com/homeroom-project/homeroom/lib/roster"

// ExpandRoles buckets a context's messageable population by enrollment
// role and emits one synthetic context recipient per non-empty bucket,
// in the fixed bucket order. Roles are read from each user's course
// membership for courseID; scopeID prefixes the synthetic ids, so a
// section scope yields "section_<id>_teachers" while still counting
// roles held in the parent course.
//
// A user holding several recognized roles increments several buckets.
// Unrecognized roles increment nothing; the user simply contributes no
// synthetic grouping.
func ExpandRoles(scopeID, courseID string, users []roster.MessageableUser) []Recipient {
	counts := make(map[roster.Role]int)
	for _, user := range users {
		for _, role := range distinctRoles(user.CommonCourses[courseID]) {
			counts[role]++
		}
	}

	var result []Recipient
	for _, bucket := range roster.RoleBuckets() {
		n := counts[bucket.Role]
		if n == 0 {
			continue
		}
		result = append(result, Recipient{
			ID:        scopeID + "_" + bucket.Suffix,
			Name:      bucket.Label,
			Kind:      KindContext,
			UserCount: n,
		})
	}
	return result
}

// distinctRoles deduplicates a role list so a duplicate enrollment
// does not double-count its holder.
func distinctRoles(roles []roster.Role) []roster.Role {
	if len(roles) < 2 {
		return roles
	}
	seen := make(map[roster.Role]struct{}, len(roles))
	var result []roster.Role
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		result = append(result, role)
	}
	return result
}
