// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/homeroom-project/homeroom/lib/roster"
	"github.com/homeroom-project/homeroom/lib/tag"
)

// InferTags computes the canonical tag set for a conversation from the
// raw recipient tokens and explicit tag tokens submitted with it. Both
// lists pass through tag normalization together: malformed tokens are
// dropped, duplicates collapse, and group tags pull in their owning
// course when courses can resolve them. The result is sorted and
// idempotent under re-normalization.
func InferTags(recipients, tags []string, courses tag.CourseResolver) []tag.Tag {
	tokens := make([]string, 0, len(recipients)+len(tags))
	tokens = append(tokens, recipients...)
	tokens = append(tokens, tags...)
	return tag.Normalize(tokens, courses)
}

// NormalizeRecipients resolves raw recipient tokens into the unique
// user ids they denote, restricted to users the actor may message.
// Numeric tokens are verified through the directory in one batch,
// scoped to conversationID when given; context tokens (including
// synthetic role-group ids) expand to the context's messageable
// population. Tokens that resolve to nothing drop silently.
func NormalizeRecipients(ctx context.Context, directory roster.Directory, actor, conversationID string, tokens []string) ([]string, error) {
	var userIDs []string
	var contexts []string
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if tag.IsContextToken(token) {
			contexts = append(contexts, token)
			continue
		}
		parsed, err := tag.Parse(token)
		if err != nil || parsed.Kind() != tag.KindUser {
			continue
		}
		userIDs = append(userIDs, parsed.ID())
	}

	seen := make(map[string]struct{})
	var result []string
	appendUsers := func(users []roster.MessageableUser) {
		for _, user := range users {
			if _, ok := seen[user.ID]; ok {
				continue
			}
			seen[user.ID] = struct{}{}
			result = append(result, user.ID)
		}
	}

	if len(userIDs) > 0 {
		users, err := directory.MessageableUsers(ctx, roster.ParticipantQuery{
			UserID:         actor,
			IDs:            userIDs,
			ConversationID: conversationID,
		})
		if err != nil {
			return nil, fmt.Errorf("verifying recipients: %w", err)
		}
		appendUsers(users)
	}

	for _, scope := range contexts {
		users, err := directory.MessageableUsers(ctx, roster.ParticipantQuery{
			UserID:  actor,
			Context: scope,
		})
		if err != nil {
			return nil, fmt.Errorf("expanding recipient context %s: %w", scope, err)
		}
		appendUsers(users)
	}

	return result, nil
}
