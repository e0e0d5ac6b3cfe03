// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package tag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies what a tag refers to.
type Kind string

const (
	// KindUser tags an individual user. The canonical form is the
	// bare numeric id with no prefix.
	KindUser Kind = "user"

	// KindCourse tags a course context ("course_<digits>").
	KindCourse Kind = "course"

	// KindSection tags a course section ("section_<digits>").
	KindSection Kind = "section"

	// KindGroup tags a group ("group_<digits>").
	KindGroup Kind = "group"
)

// ContextKinds lists the kinds that are organizational contexts (every
// kind except user), in the order the resolver enumerates them.
func ContextKinds() []Kind {
	return []Kind{KindCourse, KindSection, KindGroup}
}

// ErrMalformed reports a token that does not match the tag grammar.
// It never escapes the normalization path — Normalize drops the
// offending token instead — but direct Parse callers can branch on it
// with errors.Is.
var ErrMalformed = errors.New("malformed tag")

// Tag is a validated canonical tag. The zero value is not valid; use
// IsZero to check.
type Tag struct {
	kind Kind
	id   string
}

// New constructs a tag from a kind and a numeric id string. Returns
// ErrMalformed if the kind is unknown or the id is not all digits.
func New(kind Kind, id string) (Tag, error) {
	switch kind {
	case KindUser, KindCourse, KindSection, KindGroup:
	default:
		return Tag{}, fmt.Errorf("%w: unknown kind %q", ErrMalformed, kind)
	}
	if !isDigits(id) {
		return Tag{}, fmt.Errorf("%w: id %q is not numeric", ErrMalformed, id)
	}
	return Tag{kind: kind, id: id}, nil
}

// Parse validates a raw token against the tag grammar. A bare numeric
// token is a user tag; "course_", "section_", and "group_" prefixes
// followed by digits are context tags. Anything else is ErrMalformed.
func Parse(raw string) (Tag, error) {
	if raw == "" {
		return Tag{}, fmt.Errorf("%w: empty token", ErrMalformed)
	}
	if isDigits(raw) {
		return Tag{kind: KindUser, id: raw}, nil
	}
	for _, kind := range ContextKinds() {
		prefix := string(kind) + "_"
		rest, found := strings.CutPrefix(raw, prefix)
		if found && isDigits(rest) && rest != "" {
			return Tag{kind: kind, id: rest}, nil
		}
	}
	return Tag{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
}

// Kind returns what the tag refers to. Returns "" for the zero value.
func (t Tag) Kind() Kind { return t.kind }

// ID returns the numeric id portion of the tag.
func (t Tag) ID() string { return t.id }

// IsZero reports whether the tag is the zero value (uninitialized).
func (t Tag) IsZero() bool { return t.kind == "" }

// String returns the canonical tag string: the bare id for user tags,
// "<kind>_<id>" for context tags. Returns "" for the zero value.
func (t Tag) String() string {
	switch {
	case t.kind == "":
		return ""
	case t.kind == KindUser:
		return t.id
	default:
		return string(t.kind) + "_" + t.id
	}
}

// MarshalText implements encoding.TextMarshaler. Tags serialize as
// their canonical string form.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value (unset tag).
func (t *Tag) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*t = Tag{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Compare orders tags by their canonical string form. Suitable for
// slices.SortFunc when a deterministic set order is needed.
func Compare(a, b Tag) int {
	return strings.Compare(a.String(), b.String())
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
