// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package conversation handles the tag side of conversations: turning
// the raw recipient and tag tokens submitted when starting or
// extending a conversation into the canonical tag set that gates
// future visibility, and persisting that set per conversation.
//
// [InferTags] concatenates both token lists and normalizes them
// through the tag codec: malformed tokens drop silently, duplicates
// collapse, and every group tag additionally contributes its owning
// course tag. [NormalizeRecipients] resolves raw tokens into the
// unique messageable user ids they denote, expanding context tokens
// through the directory.
//
// [Store] is the persistence hook for tag sets. [FileStore] keeps one
// record per conversation: a deterministic CBOR encoding, compressed
// with zstd when that wins, carrying a keyed BLAKE3 digest of the
// canonical payload that is verified on every load.
package conversation
