// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/homeroom-project/homeroom/lib/tag"
)

// UserRoster is one user's entry in a roster file: their membership
// snapshot plus the users they may message.
type UserRoster struct {
	Snapshot         `yaml:",inline" json:",inline"`
	MessageableUsers []MessageableUser `yaml:"messageable_users,omitempty" json:"messageable_users,omitempty"`
}

// File is the on-disk roster snapshot format consumed by
// [LoadFile]. YAML is the primary format; .json and .jsonc files
// (JSON with comments and trailing commas) are accepted for fixtures
// authored alongside other JSONC assets.
type File struct {
	// Users maps a user id to that user's roster.
	Users map[string]UserRoster `yaml:"users" json:"users"`

	// Conversations maps a conversation id to its participant user
	// ids. Consulted for conversation-scoped recipient lookups.
	Conversations map[string][]string `yaml:"conversations,omitempty" json:"conversations,omitempty"`
}

// FileDirectory is a [Directory] backed by a roster snapshot file.
// It answers every Directory query from the loaded data, interpreting
// context filters (including synthetic role-group ids) the way a
// production directory would. Read-only after load; safe for
// concurrent use.
type FileDirectory struct {
	file File
}

// LoadFile reads a roster snapshot from path. The format is chosen by
// extension: .yaml/.yml parse as YAML, .json/.jsonc as JSONC.
func LoadFile(path string) (*FileDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}

	var file File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, fmt.Errorf("parsing roster %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing roster %s: %w", path, err)
		}
	}

	return &FileDirectory{file: file}, nil
}

// NewFileDirectory wraps an in-memory roster file. Used by tests and
// by callers that assemble snapshots programmatically.
func NewFileDirectory(file File) *FileDirectory {
	return &FileDirectory{file: file}
}

// Membership implements [Directory].
func (d *FileDirectory) Membership(_ context.Context, userID string) (*Snapshot, error) {
	entry, ok := d.file.Users[userID]
	if !ok {
		return nil, fmt.Errorf("no roster entry for user %q", userID)
	}
	snapshot := entry.Snapshot
	return &snapshot, nil
}

// MessageableUsers implements [Directory].
func (d *FileDirectory) MessageableUsers(_ context.Context, query ParticipantQuery) ([]MessageableUser, error) {
	entry, ok := d.file.Users[query.UserID]
	if !ok {
		return nil, nil
	}

	filter, ok := parseContextFilter(query.Context)
	if !ok {
		// Unknown scoping context: no candidates, not an error.
		return nil, nil
	}

	idSet := toSet(query.IDs)
	excludeSet := toSet(query.ExcludeIDs)
	terms := SplitTerms(query.Search)

	var participants []string
	if query.ConversationID != "" {
		participants = d.file.Conversations[query.ConversationID]
		if !slices.Contains(participants, query.UserID) {
			// The acting user is not in the referenced
			// conversation, so it justifies nothing.
			return nil, nil
		}
	}

	var result []MessageableUser
	for _, candidate := range entry.MessageableUsers {
		if len(idSet) > 0 {
			if _, ok := idSet[candidate.ID]; !ok {
				continue
			}
		}
		if _, ok := excludeSet[candidate.ID]; ok {
			continue
		}
		if query.ConversationID != "" && !slices.Contains(participants, candidate.ID) {
			continue
		}
		if !filter.matches(&candidate) {
			continue
		}
		if !MatchesTerms(candidate.Name, terms) {
			continue
		}
		result = append(result, candidate)
	}

	if query.Rank && len(terms) > 0 {
		rankByRelevance(result, terms)
	} else {
		slices.SortFunc(result, func(a, b MessageableUser) int {
			if diff := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); diff != 0 {
				return diff
			}
			return strings.Compare(a.ID, b.ID)
		})
	}

	if query.Offset > 0 {
		if query.Offset >= len(result) {
			return nil, nil
		}
		result = result[query.Offset:]
	}
	if query.Limit > 0 && len(result) > query.Limit {
		result = result[:query.Limit]
	}
	return result, nil
}

// contextFilter is a parsed ParticipantQuery.Context: membership in
// one context, optionally narrowed to one role there.
type contextFilter struct {
	context tag.Tag
	role    Role
	hasRole bool
}

// parseContextFilter interprets a raw context string. An empty string
// means no restriction. Returns ok=false for strings that name no
// known context shape — the caller answers with an empty result.
func parseContextFilter(raw string) (contextFilter, bool) {
	if raw == "" {
		return contextFilter{}, true
	}
	if scope, err := tag.ParseScope(raw); err == nil && scope.Collection == tag.CollectionNone {
		return contextFilter{context: scope.Context}, true
	}
	// Synthetic role-group id: "<context>_<bucket>".
	i := strings.LastIndexByte(raw, '_')
	if i <= 0 {
		return contextFilter{}, false
	}
	role, ok := RoleForBucket(raw[i+1:])
	if !ok {
		return contextFilter{}, false
	}
	parsed, err := tag.Parse(raw[:i])
	if err != nil || parsed.Kind() == tag.KindUser {
		return contextFilter{}, false
	}
	return contextFilter{context: parsed, role: role, hasRole: true}, true
}

func (f *contextFilter) matches(candidate *MessageableUser) bool {
	if f.context.IsZero() {
		return true
	}
	var roles []Role
	var shared bool
	switch f.context.Kind() {
	case tag.KindCourse:
		roles, shared = lookupRoles(candidate.CommonCourses, f.context.ID())
	case tag.KindSection:
		roles, shared = lookupRoles(candidate.CommonSections, f.context.ID())
	case tag.KindGroup:
		roles, shared = lookupRoles(candidate.CommonGroups, f.context.ID())
	}
	if !shared {
		return false
	}
	if f.hasRole {
		return slices.Contains(roles, f.role)
	}
	return true
}

func lookupRoles(common map[string][]Role, id string) ([]Role, bool) {
	roles, ok := common[id]
	return roles, ok
}

// rankByRelevance orders candidates by how early the first search term
// appears in their name, then alphabetically. A stand-in for the
// ranked order a production directory computes in its query layer.
func rankByRelevance(users []MessageableUser, terms []string) {
	position := func(user MessageableUser) int {
		return strings.Index(strings.ToLower(user.Name), terms[0])
	}
	slices.SortFunc(users, func(a, b MessageableUser) int {
		if diff := position(a) - position(b); diff != 0 {
			return diff
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// SplitTerms splits free-text search input into lowercase terms on
// whitespace. Empty input yields nil.
func SplitTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// MatchesTerms reports whether name contains every term as a
// case-insensitive substring (AND semantics). An empty term list
// matches everything.
func MatchesTerms(name string, terms []string) bool {
	lowered := strings.ToLower(name)
	for _, term := range terms {
		if !strings.Contains(lowered, term) {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
