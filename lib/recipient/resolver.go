// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package recipient

import (
	"context"
	"errors"
	"fmt"

	"github.com/homeroom-project/homeroom/lib/roster"
	"github.com/homeroom-project/homeroom/lib/tag"
)

// ErrInvalidQuery reports a structurally invalid query: mutually
// exclusive parameters supplied together. Data-quality problems
// (unknown contexts, malformed tokens) never produce it; those yield
// empty results.
var ErrInvalidQuery = errors.New("invalid query")

// Resolver answers recipient queries for one request. Build it around
// a catalog constructed once from the actor's membership snapshot and
// reuse it for every drill-down call in the request, so all answers
// reflect the same membership view.
type Resolver struct {
	Catalog   *roster.Catalog
	Directory roster.Directory
}

// Resolve computes one page of recipients for the query.
//
// A UserID lookup short-circuits everything else: it returns the
// single user if messageable (and, with FromConversationID, sharing
// that conversation with the actor), else an empty page. Requesting a
// later page of a single-result lookup is ErrInvalidQuery.
//
// Without search terms or a scoping context the result is the default
// landing listing: the actor's active courses plus their current
// groups. A scoping context narrows candidates to that context's
// collections or, with search terms, its members; an unknown or
// inactive scope yields an empty page, not an error.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Page, error) {
	size, unlimited := q.pageSize()
	page := max(q.Page, 1)

	if q.UserID != "" {
		if q.Page > 1 {
			return Page{}, fmt.Errorf("%w: user_id lookup is single-result, page %d requested", ErrInvalidQuery, q.Page)
		}
		users, err := r.Directory.MessageableUsers(ctx, roster.ParticipantQuery{
			UserID:         q.Actor,
			IDs:            []string{q.UserID},
			ConversationID: q.FromConversationID,
		})
		if err != nil {
			return Page{}, fmt.Errorf("looking up recipient %s: %w", q.UserID, err)
		}
		return Page{Items: userRecipients(users), Page: 1, PerPage: size}, nil
	}

	terms := roster.SplitTerms(q.Search)
	exclude := excludeSet(q.Exclude)

	contexts, skipUsers, err := r.contextCandidates(ctx, q, terms, exclude)
	if err != nil {
		return Page{}, err
	}

	wantContexts := q.Types.WantsContexts()
	wantUsers := q.Types.WantsUsers() && !skipUsers

	offset := 0
	if !unlimited {
		offset = size * (page - 1)
	}

	// The context stream is fully materialized; its overfetch signal
	// is just whether anything remains past the page window.
	moreContexts := false
	if !unlimited {
		if offset >= len(contexts) {
			contexts = nil
		} else {
			contexts = contexts[offset:]
		}
		if len(contexts) > size {
			moreContexts = true
			contexts = contexts[:size]
		}
	}

	var users []Recipient
	moreUsers := false
	if wantUsers {
		limit := 0
		if !unlimited {
			limit = size + 1
		}
		raw, err := r.Directory.MessageableUsers(ctx, roster.ParticipantQuery{
			UserID:     q.Actor,
			Context:    q.Context,
			Search:     q.Search,
			ExcludeIDs: q.Exclude,
			Rank:       len(terms) > 0,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return Page{}, fmt.Errorf("searching recipients: %w", err)
		}
		if !unlimited && len(raw) > size {
			moreUsers = true
			raw = raw[:size]
		}
		users = userRecipients(raw)
	}

	items, hasMore := mergePage(contexts, users, size, moreContexts, moreUsers, wantContexts, wantUsers)
	return Page{Items: items, Page: page, PerPage: size, HasMore: hasMore}, nil
}

// contextCandidates computes the context side of the result, in final
// order, before pagination. skipUsers reports that the query shape
// suppresses the user stream entirely (default landing, drill-down
// collections, role expansion, unknown scopes).
func (r *Resolver) contextCandidates(ctx context.Context, q Query, terms []string, exclude map[string]struct{}) (candidates []Recipient, skipUsers bool, err error) {
	wantContexts := q.Types.WantsContexts()

	// Default landing: active courses plus current groups, no users.
	if q.Search == "" && q.Context == "" {
		if !wantContexts {
			return nil, true, nil
		}
		var out []Recipient
		if q.Types.WantsKind(tag.KindCourse) {
			for _, entry := range r.Catalog.ByKind(tag.KindCourse) {
				if entry.Active {
					out = append(out, contextRecipient(entry))
				}
			}
		}
		if q.Types.WantsKind(tag.KindGroup) {
			for _, entry := range r.Catalog.CurrentGroups() {
				if entry.Active {
					out = append(out, contextRecipient(entry))
				}
			}
		}
		sortRecipients(out)
		return applyExclusion(out, exclude), true, nil
	}

	// Unscoped search: every active context of every requested kind.
	if q.Context == "" {
		var out []Recipient
		if wantContexts {
			for _, kind := range tag.ContextKinds() {
				if !q.Types.WantsKind(kind) {
					continue
				}
				for _, entry := range r.Catalog.ByKind(kind) {
					if entry.Active && roster.MatchesTerms(entry.Name, terms) {
						out = append(out, contextRecipient(entry))
					}
				}
			}
			sortRecipients(out)
		}
		return applyExclusion(out, exclude), false, nil
	}

	scope, parseErr := tag.ParseScope(q.Context)
	if parseErr != nil {
		if tag.IsContextToken(q.Context) {
			// Synthetic role-group scope: no context candidates, the
			// directory interprets the role filter for the user side.
			return nil, false, nil
		}
		// Malformed scope: empty result, indistinguishable from a
		// context with no matches.
		return nil, true, nil
	}

	entry, ok := r.Catalog.Lookup(scope.Context)
	if !ok || !entry.Active {
		return nil, true, nil
	}

	switch scope.Context.Kind() {
	case tag.KindCourse:
		switch {
		case scope.Collection == tag.CollectionGroups:
			if !q.Types.WantsKind(tag.KindGroup) {
				return nil, true, nil
			}
			out := r.childRecipients(scope.Context, tag.KindGroup, terms)
			return applyExclusion(out, exclude), true, nil

		case scope.Collection == tag.CollectionSections:
			if !q.Types.WantsKind(tag.KindSection) {
				return nil, true, nil
			}
			out := r.childRecipients(scope.Context, tag.KindSection, terms)
			return applyExclusion(out, exclude), true, nil

		case len(terms) == 0:
			// Scoped listing without search: role buckets plus
			// drill-down collections, no raw users. A user-only
			// restriction instead enumerates the course's members.
			if !wantContexts {
				return nil, false, nil
			}
			out, err := r.expandCourse(ctx, q.Actor, scope.Context)
			if err != nil {
				return nil, true, err
			}
			return applyExclusion(out, exclude), true, nil

		default:
			// Searching within a course covers its sections, its
			// groups, and its users together.
			var out []Recipient
			if wantContexts {
				out = append(out, r.childRecipients(scope.Context, tag.KindSection, terms)...)
				out = append(out, r.childRecipients(scope.Context, tag.KindGroup, terms)...)
				sortRecipients(out)
			}
			return applyExclusion(out, exclude), false, nil
		}

	case tag.KindSection:
		if len(terms) > 0 {
			return nil, false, nil
		}
		if !wantContexts {
			return nil, false, nil
		}
		out, err := r.expandSection(ctx, q.Actor, entry)
		if err != nil {
			return nil, true, err
		}
		return applyExclusion(out, exclude), true, nil

	default:
		// Group scope: members only, searched or listed whole.
		return nil, false, nil
	}
}

// expandCourse builds the scoped no-search listing for a course: its
// synthetic role buckets followed by drill-down collections for its
// sections (only when there is more than one) and its groups.
func (r *Resolver) expandCourse(ctx context.Context, actor string, course tag.Tag) ([]Recipient, error) {
	population, err := r.Directory.MessageableUsers(ctx, roster.ParticipantQuery{
		UserID:  actor,
		Context: course.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s members: %w", course, err)
	}
	out := ExpandRoles(course.String(), course.ID(), population)

	if sections := r.Catalog.ChildrenOf(course, tag.KindSection); len(sections) > 1 {
		out = append(out, Recipient{
			ID:        course.String() + "_sections",
			Name:      "Course Sections",
			Kind:      KindContext,
			ItemCount: len(sections),
		})
	}
	groups := 0
	for _, group := range r.Catalog.ChildrenOf(course, tag.KindGroup) {
		if group.Active {
			groups++
		}
	}
	if groups > 0 {
		out = append(out, Recipient{
			ID:        course.String() + "_groups",
			Name:      "Student Groups",
			Kind:      KindContext,
			ItemCount: groups,
		})
	}
	return out, nil
}

// expandSection role-expands a section. Roles come from the parent
// course's enrollment data while the synthetic ids keep the section
// prefix, so "section_20_students" counts StudentEnrollments held in
// the section's course among the section's members.
func (r *Resolver) expandSection(ctx context.Context, actor string, entry roster.Context) ([]Recipient, error) {
	population, err := r.Directory.MessageableUsers(ctx, roster.ParticipantQuery{
		UserID:  actor,
		Context: entry.Tag.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s members: %w", entry.Tag, err)
	}
	return ExpandRoles(entry.Tag.String(), entry.Parent.ID(), population), nil
}

// childRecipients lists a course's active children of one kind that
// match the search terms, in name order.
func (r *Resolver) childRecipients(course tag.Tag, kind tag.Kind, terms []string) []Recipient {
	var out []Recipient
	for _, entry := range r.Catalog.ChildrenOf(course, kind) {
		if !entry.Active {
			continue
		}
		if !roster.MatchesTerms(entry.Name, terms) {
			continue
		}
		rec := contextRecipient(entry)
		// The scope already names the parent; context_name appears
		// only on unscoped listings.
		rec.ContextName = ""
		out = append(out, rec)
	}
	return out
}
