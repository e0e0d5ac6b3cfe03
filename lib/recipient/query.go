// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package recipient

import (
	"slices"

	"github.com/homeroom-project/homeroom/lib/tag"
)

// Page-size bounds. MaxPerPage is a hard clamp applied regardless of
// what the caller or configuration asks for.
const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// TypeRestriction narrows a query to user recipients, context
// recipients, or specific context kinds. The zero value means no
// restriction: both users and every context kind.
type TypeRestriction struct {
	User     bool
	Contexts []tag.Kind
}

// ParseTypes interprets raw type tokens. "user" requests user
// recipients; the literal "context" expands to every context kind.
// Unrecognized tokens are dropped; an input with no recognized tokens
// yields the unrestricted zero value.
func ParseTypes(tokens []string) TypeRestriction {
	var restriction TypeRestriction
	for _, token := range tokens {
		switch token {
		case "user":
			restriction.User = true
		case "context":
			for _, kind := range tag.ContextKinds() {
				if !slices.Contains(restriction.Contexts, kind) {
					restriction.Contexts = append(restriction.Contexts, kind)
				}
			}
		}
	}
	return restriction
}

// WantsUsers reports whether user recipients are in scope.
func (t TypeRestriction) WantsUsers() bool {
	return t.User || len(t.Contexts) == 0
}

// WantsContexts reports whether any context recipients are in scope.
func (t TypeRestriction) WantsContexts() bool {
	return len(t.Contexts) > 0 || !t.User
}

// WantsKind reports whether contexts of one kind are in scope.
func (t TypeRestriction) WantsKind(kind tag.Kind) bool {
	if len(t.Contexts) > 0 {
		return slices.Contains(t.Contexts, kind)
	}
	return !t.User
}

// Query is one recipient-resolution request. The acting user is an
// explicit field; nothing in resolution reads ambient state.
type Query struct {
	// Actor is the acting user whose visibility governs every answer.
	Actor string

	// Search holds free-text terms. Whitespace-split; every term must
	// match a candidate's name as a case-insensitive substring.
	Search string

	// Context scopes the query to one context: a context tag, a
	// drill-down id ("course_5_groups"), or a synthetic role-group id
	// ("course_5_teachers"). Empty means unscoped.
	Context string

	// Exclude lists recipient ids (user ids and context tags) that
	// must never appear in the result.
	Exclude []string

	// Types restricts the recipient kinds considered.
	Types TypeRestriction

	// UserID requests a single-recipient lookup. When set, every
	// other field except Actor and FromConversationID is ignored.
	UserID string

	// FromConversationID narrows a UserID lookup to users who share
	// the given conversation with the actor.
	FromConversationID string

	// PerPage is the requested page size, clamped to MaxPerPage. A
	// value below 1 means "everything" when the query is restricted
	// to contexts or carries a scoping context, and DefaultPerPage
	// otherwise.
	PerPage int

	// Page is the 1-based page number. Values below 1 mean page 1.
	Page int
}

// pageSize resolves the effective page size. unlimited is true when
// the query qualifies for the all-results escape.
func (q Query) pageSize() (size int, unlimited bool) {
	size = min(q.PerPage, MaxPerPage)
	if size >= 1 {
		return size, false
	}
	if !q.Types.WantsUsers() || q.Context != "" {
		return 0, true
	}
	return DefaultPerPage, false
}
