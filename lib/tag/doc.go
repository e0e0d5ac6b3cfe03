// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package tag provides the canonical tag grammar for Homeroom
// recipients and contexts. A tag identifies a user or an
// organizational context (course, section, or group) in the exact
// string form persisted against conversations, so the grammar is
// stable and must stay bit-exact:
//
//	user:    bare digits        "123"
//	course:  "course_" digits   "course_5"
//	section: "section_" digits  "section_2"
//	group:   "group_" digits    "group_9"
//
// [Parse] validates a single token against this grammar. [ParseScope]
// additionally understands the drill-down scoping ids accepted by the
// recipient resolver ("course_5_groups", "course_5_sections").
//
// [Normalize] converts a raw token list into a canonical tag set:
// duplicates collapse, unrecognized tokens are dropped silently (a bad
// token never fails the caller), and every group tag is joined by the
// tag of its owning course, because group visibility is inherited from
// the parent course. The expansion is one level only — course tags are
// never expanded further. Normalize is idempotent.
//
// Tag is an immutable value type. Construction always validates; the
// zero value is not a valid tag, use IsZero to check. Tags serialize
// through encoding.TextMarshaler as the canonical string, so they keep
// their form through JSON, YAML, and the CBOR codec alike.
package tag
