// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster models a user's organizational membership and the
// external directory that supplies it.
//
// The [Directory] interface is the boundary to the institution's
// system of record: it returns a raw membership [Snapshot] for a user
// (courses with concluded/active status, visible sections, messageable
// groups) and raw messageable-user candidates with precomputed shared
// contexts. Production deployments implement Directory against their
// SIS or database; [FileDirectory] reads the same data from a YAML or
// JSONC snapshot file for the CLI and tests.
//
// [BuildCatalog] turns a snapshot into a [Catalog], the per-request
// view of every context the user may address. Build once per request
// and pass the catalog into all resolver calls in that request so the
// whole request sees one consistent membership view. The catalog is a
// pure data structure with no I/O and no concurrency control; each
// request gets its own instance.
//
// Data-quality problems never fail catalog construction: a section
// whose parent course is missing is dropped, a group without an owning
// course simply carries no parent. The catalog faithfully represents
// whatever the directory handed over.
package roster
