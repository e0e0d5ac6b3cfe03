// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use this instead of time.Now()
// when tests need unique identifiers that must not collide across
// parallel tests.
//
//	id := testutil.UniqueID("conv") // "conv-1", "conv-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// UniqueNumericID returns a bare numeric id string, monotonically
// increasing. Handy where the tag grammar requires all-digit ids.
func UniqueNumericID() string {
	return strconv.FormatUint(uniqueCounter.Add(1), 10)
}
