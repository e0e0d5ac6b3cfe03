// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Homeroom's standard CBOR encoding
// configuration.
//
// Homeroom uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: resolver CLI output and any HTTP
//     surface a hosting service puts in front of the engine.
//   - CBOR for internal records: the conversation tag-set store and
//     any other on-disk state this module owns.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every Homeroom package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC
// 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes — which is what lets the conversation store digest a record's
// canonical encoding and verify it on load.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types implementing encoding.TextMarshaler (tag.Tag) serialize as
// CBOR text strings in their canonical form, so a persisted tag set
// holds exactly the tag grammar strings and nothing structural.
//
// Use `cbor` struct tags on types that are only ever CBOR (store
// records), `json` tags on types that serve both formats —
// fxamacker/cbor reads json tags as fallback. Never both on one field.
package codec
