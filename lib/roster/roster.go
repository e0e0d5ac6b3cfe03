// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import "context"

// Role is an enrollment role name as recorded by the institution.
// The vocabulary is closed: these four roles are part of the domain's
// stable vocabulary, and anything else is carried through untouched
// but never contributes to a synthetic role grouping.
type Role string

const (
	RoleTeacher  Role = "TeacherEnrollment"
	RoleTA       Role = "TaEnrollment"
	RoleStudent  Role = "StudentEnrollment"
	RoleObserver Role = "ObserverEnrollment"
)

// Course is a course as reported by the directory.
type Course struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// Term is the enrollment term label. Ignored for display when
	// DefaultTerm is set — the institution's default term is noise.
	Term        string `yaml:"term,omitempty" json:"term,omitempty"`
	DefaultTerm bool   `yaml:"default_term,omitempty" json:"default_term,omitempty"`

	// RecentlyEnded is meaningful only for concluded courses: a
	// recently ended course is still considered active for messaging.
	RecentlyEnded bool `yaml:"recently_ended,omitempty" json:"recently_ended,omitempty"`

	// NotesEnabled is the course-level switch for grading notes.
	NotesEnabled bool `yaml:"notes_enabled,omitempty" json:"notes_enabled,omitempty"`

	// CanManageNotes reports whether the snapshot's user holds the
	// note-management permission in this course. This is the
	// directory's authorization verdict passed through, not computed
	// here.
	CanManageNotes bool `yaml:"can_manage_notes,omitempty" json:"can_manage_notes,omitempty"`
}

// Section is a course section visible to the user.
type Section struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	CourseID string `yaml:"course_id" json:"course_id"`
}

// Group is a group the user can message through.
type Group struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Active bool   `yaml:"active" json:"active"`

	// CourseID is the owning course when the group belongs to one,
	// empty otherwise (account-level groups have no parent context).
	CourseID string `yaml:"course_id,omitempty" json:"course_id,omitempty"`
}

// Snapshot is the raw membership view the directory computes for one
// user at one point in time.
type Snapshot struct {
	ActiveCourses    []Course  `yaml:"active_courses" json:"active_courses"`
	ConcludedCourses []Course  `yaml:"concluded_courses,omitempty" json:"concluded_courses,omitempty"`
	Sections         []Section `yaml:"sections,omitempty" json:"sections,omitempty"`
	Groups           []Group   `yaml:"groups,omitempty" json:"groups,omitempty"`

	// CurrentGroupIDs are the groups the user is presently a member
	// of. The default landing listing shows only these, while Groups
	// may include more (e.g. groups messageable through a moderator
	// role).
	CurrentGroupIDs []string `yaml:"current_group_ids,omitempty" json:"current_group_ids,omitempty"`

	// Messageable-user counts per context, keyed by numeric id.
	CourseUserCounts  map[string]int `yaml:"course_user_counts,omitempty" json:"course_user_counts,omitempty"`
	SectionUserCounts map[string]int `yaml:"section_user_counts,omitempty" json:"section_user_counts,omitempty"`
	GroupUserCounts   map[string]int `yaml:"group_user_counts,omitempty" json:"group_user_counts,omitempty"`
}

// MessageableUser is a raw recipient candidate: a user the acting user
// may message, annotated with the shared contexts that justify it.
type MessageableUser struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// CommonCourses and CommonGroups map context id → the candidate's
	// roles there, restricted to contexts shared with the acting
	// user. These annotations travel into resolver output unchanged.
	CommonCourses map[string][]Role `yaml:"common_courses,omitempty" json:"common_courses,omitempty"`
	CommonGroups  map[string][]Role `yaml:"common_groups,omitempty" json:"common_groups,omitempty"`

	// CommonSections carries shared section membership. Used only for
	// section-scoped filtering; never serialized into resolver output.
	CommonSections map[string][]Role `yaml:"common_sections,omitempty" json:"-"`
}

// ParticipantQuery selects messageable-user candidates from the
// directory. Zero-value fields mean "no restriction" for that
// dimension.
type ParticipantQuery struct {
	// UserID is the acting user whose visibility governs the result.
	UserID string

	// IDs restricts the result to these candidate user ids. Used by
	// the single-recipient lookup and recipient normalization.
	IDs []string

	// ConversationID further restricts an IDs lookup to users who
	// co-participate in the given conversation with the acting user.
	ConversationID string

	// Context scopes candidates to one context. Accepts a context
	// tag, a drill-down id, or a synthetic role-group id
	// ("course_5_teachers").
	Context string

	// Search holds whitespace-separated terms; every term must match
	// the candidate's name as a case-insensitive substring.
	Search string

	// ExcludeIDs removes specific user ids from the result.
	ExcludeIDs []string

	// Rank requests relevance order instead of the default
	// alphabetical order. Only meaningful when Search is set.
	Rank bool

	// Limit caps the result size (0 = unlimited). Offset skips
	// leading results; both are applied after ordering.
	Limit  int
	Offset int
}

// Directory is the external source of membership data. Implementations
// are read-only within a single resolution call; the engine tolerates
// results computed at slightly different instants across calls, which
// is why callers build one Catalog per request and reuse it.
type Directory interface {
	// Membership returns the user's raw membership snapshot.
	Membership(ctx context.Context, userID string) (*Snapshot, error)

	// MessageableUsers returns recipient candidates for the query.
	// When query.Rank is set the order is relevance-ranked; otherwise
	// it is alphabetical by name, case-insensitive.
	MessageableUsers(ctx context.Context, query ParticipantQuery) ([]MessageableUser, error)
}
