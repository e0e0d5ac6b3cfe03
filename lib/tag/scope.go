// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package tag

import (
	"fmt"
	"strings"
)

// Collection names a drill-down sub-listing of a course scope.
type Collection string

const (
	// CollectionNone means the scope addresses the context itself.
	CollectionNone Collection = ""

	// CollectionGroups addresses only the groups of a course
	// ("course_5_groups").
	CollectionGroups Collection = "groups"

	// CollectionSections addresses only the sections of a course
	// ("course_5_sections").
	CollectionSections Collection = "sections"
)

// Scope is a parsed scoping-context id as accepted by the recipient
// resolver: a context tag, optionally narrowed to one of the course's
// sub-collections. Only courses have sub-collections.
type Scope struct {
	Context    Tag
	Collection Collection
}

// ParseScope parses a scoping-context id. It accepts every context tag
// plus the course drill-down forms "course_<id>_groups" and
// "course_<id>_sections". User tags and anything else malformed are
// rejected — a scope always names an organizational context.
func ParseScope(raw string) (Scope, error) {
	if parsed, err := Parse(raw); err == nil {
		if parsed.Kind() == KindUser {
			return Scope{}, fmt.Errorf("%w: %q is a user tag, not a context", ErrMalformed, raw)
		}
		return Scope{Context: parsed}, nil
	}

	for _, collection := range []Collection{CollectionGroups, CollectionSections} {
		base, found := strings.CutSuffix(raw, "_"+string(collection))
		if !found {
			continue
		}
		parsed, err := Parse(base)
		if err != nil || parsed.Kind() != KindCourse {
			continue
		}
		return Scope{Context: parsed, Collection: collection}, nil
	}

	return Scope{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
}

// String returns the canonical scoping id.
func (s Scope) String() string {
	if s.Collection == CollectionNone {
		return s.Context.String()
	}
	return s.Context.String() + "_" + string(s.Collection)
}

// IsContextToken reports whether raw looks like a context-addressing
// token: a context tag, a drill-down id, or a synthetic role-group id
// like "course_5_teachers". Used when splitting raw recipient tokens
// into user ids and context references — the token is still resolved
// (or dropped) later, this only routes it.
func IsContextToken(raw string) bool {
	if _, err := ParseScope(raw); err == nil {
		return true
	}
	// Synthetic role-group ids: a context tag followed by one
	// lowercase word ("course_5_teachers", "section_2_students").
	base, _, found := cutLastSegment(raw)
	if !found {
		return false
	}
	parsed, err := Parse(base)
	return err == nil && parsed.Kind() != KindUser
}

// cutLastSegment splits raw at its final underscore when the trailing
// segment is all lowercase letters.
func cutLastSegment(raw string) (base, last string, found bool) {
	i := strings.LastIndexByte(raw, '_')
	if i <= 0 || i == len(raw)-1 {
		return "", "", false
	}
	last = raw[i+1:]
	for j := 0; j < len(last); j++ {
		if last[j] < 'a' || last[j] > 'z' {
			return "", "", false
		}
	}
	return raw[:i], last, true
}
