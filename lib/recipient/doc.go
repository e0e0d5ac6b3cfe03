// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package recipient resolves who a user may address in a conversation.
//
// The entry point is [Resolver.Resolve]: given a [Query] (free-text
// search terms, an optional scoping context, exclusions, a type
// restriction, and pagination state) it returns one [Page] of
// [Recipient] values. A Recipient is a tagged union of an individual
// user and an addressable context; contexts include real catalog
// entries (courses, sections, groups), synthetic role groupings
// ("Teachers" within a course), and drill-down collections ("Course
// Sections").
//
// Resolution is a pure function of the catalog, the directory's
// answers, and the query. The resolver holds no mutable state; build
// one per request around a fresh [roster.Catalog] and reuse it for
// every drill-down call in that request so all answers reflect one
// membership view.
//
// Context candidates and user candidates arrive as two differently
// ordered streams. The page merge balances them: when both streams
// overflow half a page each side contributes half, otherwise the
// smaller side is taken whole and the other fills the remainder.
// "More pages" is detected by fetching one extra item per stream
// rather than counting totals.
package recipient
