// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package roster

// RoleBucket maps an enrollment role to its synthetic-group identity:
// the id suffix appended to a context tag and the display label.
type RoleBucket struct {
	Suffix string
	Label  string
	Role   Role
}

// RoleBuckets returns the closed role-to-bucket table in emission
// order. The membership and order of this table are part of the
// domain's stable vocabulary — it is a fixed table, not a registry.
func RoleBuckets() []RoleBucket {
	return []RoleBucket{
		{Suffix: "teachers", Label: "Teachers", Role: RoleTeacher},
		{Suffix: "tas", Label: "Teaching Assistants", Role: RoleTA},
		{Suffix: "students", Label: "Students", Role: RoleStudent},
		{Suffix: "observers", Label: "Observers", Role: RoleObserver},
	}
}

// RoleForBucket returns the role behind a synthetic-group id suffix.
// The second return value is false for unknown suffixes.
func RoleForBucket(suffix string) (Role, bool) {
	for _, bucket := range RoleBuckets() {
		if bucket.Suffix == suffix {
			return bucket.Role, true
		}
	}
	return "", false
}
