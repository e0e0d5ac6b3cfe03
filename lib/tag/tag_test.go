// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package tag

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
		id   string
		ok   bool
	}{
		{"123", KindUser, "123", true},
		{"0", KindUser, "0", true},
		{"course_5", KindCourse, "5", true},
		{"section_2", KindSection, "2", true},
		{"group_9", KindGroup, "9", true},

		{"", "", "", false},
		{"bogus_token", "", "", false},
		{"course_", "", "", false},
		{"course_5_students", "", "", false},
		{"course_5_groups", "", "", false},
		{"user_123", "", "", false},
		{"Course_5", "", "", false},
		{"group_9x", "", "", false},
		{"12a", "", "", false},
	}

	for _, tt := range tests {
		parsed, err := Parse(tt.raw)
		if tt.ok {
			if err != nil {
				t.Errorf("Parse(%q): unexpected error: %v", tt.raw, err)
				continue
			}
			if parsed.Kind() != tt.kind || parsed.ID() != tt.id {
				t.Errorf("Parse(%q) = (%s, %s), want (%s, %s)",
					tt.raw, parsed.Kind(), parsed.ID(), tt.kind, tt.id)
			}
			if parsed.String() != tt.raw {
				t.Errorf("Parse(%q).String() = %q, want round-trip", tt.raw, parsed.String())
			}
		} else {
			if err == nil {
				t.Errorf("Parse(%q): expected error, got %v", tt.raw, parsed)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q): error %v is not ErrMalformed", tt.raw, err)
			}
		}
	}
}

func TestTagTextRoundTrip(t *testing.T) {
	for _, raw := range []string{"42", "course_5", "section_2", "group_9"} {
		parsed, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", raw, err)
		}
		text, err := parsed.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%q): %v", raw, err)
		}
		var decoded Tag
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if decoded != parsed {
			t.Errorf("round trip of %q: got %v, want %v", raw, decoded, parsed)
		}
	}

	var zero Tag
	if err := zero.UnmarshalText(nil); err != nil || !zero.IsZero() {
		t.Errorf("UnmarshalText(nil) = %v, zero=%v; want nil error and zero tag", err, zero.IsZero())
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		raw        string
		context    string
		collection Collection
		ok         bool
	}{
		{"course_5", "course_5", CollectionNone, true},
		{"section_2", "section_2", CollectionNone, true},
		{"group_9", "group_9", CollectionNone, true},
		{"course_5_groups", "course_5", CollectionGroups, true},
		{"course_5_sections", "course_5", CollectionSections, true},

		// Only courses have sub-collections.
		{"group_9_sections", "", CollectionNone, false},
		{"section_2_groups", "", CollectionNone, false},
		// A bare user id is not a context.
		{"123", "", CollectionNone, false},
		{"course_5_teachers", "", CollectionNone, false},
		{"bogus", "", CollectionNone, false},
	}

	for _, tt := range tests {
		scope, err := ParseScope(tt.raw)
		if tt.ok {
			if err != nil {
				t.Errorf("ParseScope(%q): unexpected error: %v", tt.raw, err)
				continue
			}
			if scope.Context.String() != tt.context || scope.Collection != tt.collection {
				t.Errorf("ParseScope(%q) = (%s, %q), want (%s, %q)",
					tt.raw, scope.Context, scope.Collection, tt.context, tt.collection)
			}
			if scope.String() != tt.raw {
				t.Errorf("ParseScope(%q).String() = %q, want round-trip", tt.raw, scope.String())
			}
		} else if err == nil {
			t.Errorf("ParseScope(%q): expected error, got %v", tt.raw, scope)
		}
	}
}

func TestIsContextToken(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"course_5", true},
		{"group_9", true},
		{"course_5_groups", true},
		{"course_5_teachers", true},
		{"section_2_students", true},
		{"123", false},
		{"bogus", false},
		{"course_5_Teachers", false},
	}
	for _, tt := range tests {
		if got := IsContextToken(tt.raw); got != tt.want {
			t.Errorf("IsContextToken(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

// courseMap is a CourseResolver backed by a group→course map.
type courseMap map[string]string

func (m courseMap) CourseForGroup(groupID string) (Tag, bool) {
	courseID, ok := m[groupID]
	if !ok {
		return Tag{}, false
	}
	course, err := New(KindCourse, courseID)
	if err != nil {
		return Tag{}, false
	}
	return course, true
}

func tagStrings(tags []Tag) []string {
	result := make([]string, len(tags))
	for i, item := range tags {
		result[i] = item.String()
	}
	return result
}

func TestNormalize(t *testing.T) {
	courses := courseMap{"9": "2"}

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "group expansion adds owning course",
			tokens: []string{"5", "group_9", "bogus_token"},
			want:   []string{"5", "course_2", "group_9"},
		},
		{
			name:   "duplicates collapse",
			tokens: []string{"course_5", "course_5", "7", "7"},
			want:   []string{"7", "course_5"},
		},
		{
			name:   "course tags are not expanded further",
			tokens: []string{"course_2"},
			want:   []string{"course_2"},
		},
		{
			name:   "all malformed yields empty set",
			tokens: []string{"", "nope", "user_3"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.tokens, courses)
			if !slices.Equal(tagStrings(got), tt.want) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.tokens, tagStrings(got), tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	courses := courseMap{"9": "2", "4": "2"}
	tokens := []string{"group_9", "group_4", "11", "course_2", "group_9", "junk"}

	once := Normalize(tokens, courses)
	twice := Normalize(tagStrings(once), courses)
	if !slices.Equal(tagStrings(once), tagStrings(twice)) {
		t.Errorf("Normalize not idempotent: %v then %v", tagStrings(once), tagStrings(twice))
	}
}

func TestNormalizeWithoutResolver(t *testing.T) {
	got := Normalize([]string{"group_9"}, nil)
	if !slices.Equal(tagStrings(got), []string{"group_9"}) {
		t.Errorf("Normalize without resolver = %v, want [group_9]", tagStrings(got))
	}
}
