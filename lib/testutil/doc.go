// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Homeroom packages.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation. Use it instead of time.Now() when tests need unique
// conversation ids or record names that must not collide across
// parallel tests.
//
// This package has no Homeroom-internal dependencies.
package testutil
