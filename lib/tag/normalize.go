// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package tag

import "slices"

// CourseResolver reports the owning course of a group. Implemented by
// the roster catalog; Normalize uses it for the group→course visibility
// expansion. A nil resolver disables the expansion.
type CourseResolver interface {
	// CourseForGroup returns the course tag of the group's owning
	// course. The second return value is false when the group is
	// unknown or not owned by a course.
	CourseForGroup(groupID string) (Tag, bool)
}

// Normalize converts a raw token list into the canonical tag set that
// gates conversation visibility. Duplicates collapse, tokens that do
// not match the tag grammar are dropped silently, and every group tag
// additionally contributes the tag of its owning course (groups
// inherit visibility from their parent course). The expansion is one
// level only: course tags are never expanded further.
//
// The result is sorted by canonical string so equal inputs always
// produce equal output. Normalizing an already-normalized set is a
// no-op.
func Normalize(tokens []string, courses CourseResolver) []Tag {
	seen := make(map[Tag]struct{}, len(tokens))
	var result []Tag

	add := func(t Tag) {
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}

	for _, token := range tokens {
		parsed, err := Parse(token)
		if err != nil {
			continue
		}
		add(parsed)
		if parsed.Kind() == KindGroup && courses != nil {
			if course, ok := courses.CourseForGroup(parsed.ID()); ok {
				add(course)
			}
		}
	}

	slices.SortFunc(result, Compare)
	return result
}
