// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package recipient

import (
	"slices"
	"strings"

	"github.com/homeroom-project/homeroom/lib/roster"
)

// Recipient kinds. The discriminator is explicit: callers dispatch on
// Kind, never on which fields happen to be populated.
const (
	KindUser    = "user"
	KindContext = "context"
)

// Recipient is one addressable target of a message: an individual
// user, an organizational context, or a synthetic role grouping within
// a context. IDs are globally unique across kinds because the tag
// grammar prefixes every non-user id.
type Recipient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"type"`

	// UserCount is the number of messageable users behind a context
	// recipient. Zero for user recipients.
	UserCount int `json:"user_count,omitempty"`

	// ItemCount is the number of entries behind a drill-down
	// collection ("Course Sections", "Student Groups").
	ItemCount int `json:"item_count,omitempty"`

	// ContextName is the parent course's name, set on sections and
	// course groups listed outside a scoped query.
	ContextName string `json:"context_name,omitempty"`

	// Shared-membership summaries carried through from the directory
	// for user recipients.
	CommonCourses map[string][]roster.Role `json:"common_courses,omitempty"`
	CommonGroups  map[string][]roster.Role `json:"common_groups,omitempty"`
}

// contextRecipient converts a catalog context into recipient form.
func contextRecipient(entry roster.Context) Recipient {
	return Recipient{
		ID:          entry.Tag.String(),
		Name:        entry.Name,
		Kind:        KindContext,
		UserCount:   entry.UserCount,
		ContextName: entry.ContextName,
	}
}

// userRecipients converts directory candidates into recipient form,
// preserving the directory's order.
func userRecipients(users []roster.MessageableUser) []Recipient {
	var result []Recipient
	for _, user := range users {
		result = append(result, Recipient{
			ID:            user.ID,
			Name:          user.Name,
			Kind:          KindUser,
			CommonCourses: user.CommonCourses,
			CommonGroups:  user.CommonGroups,
		})
	}
	return result
}

// sortRecipients orders recipients by display name (byte order), with
// id as tiebreaker for a stable result.
func sortRecipients(items []Recipient) {
	slices.SortFunc(items, func(a, b Recipient) int {
		if diff := strings.Compare(a.Name, b.Name); diff != 0 {
			return diff
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// applyExclusion drops recipients whose id is in the exclusion set.
// Exclusion is total: it applies to users, contexts, and synthetic
// groupings alike.
func applyExclusion(items []Recipient, exclude map[string]struct{}) []Recipient {
	if len(exclude) == 0 {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if _, ok := exclude[item.ID]; ok {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func excludeSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
