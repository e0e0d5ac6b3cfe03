// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"slices"
	"strings"

	"github.com/homeroom-project/homeroom/lib/tag"
)

// Context is one addressable organizational context in a user's
// catalog: a course, section, or group with the metadata the resolver
// needs.
type Context struct {
	Tag  tag.Tag
	Name string

	// Active gates whether the context appears in resolver output.
	// Courses: true for current enrollments, recently-ended for
	// concluded ones. Sections inherit their parent course's flag.
	// Groups carry their own state.
	Active bool

	// Term is the display term label, empty for the institution's
	// default term and for contexts without one.
	Term string

	// Parent links a section or course-owned group to its course.
	// Zero when the context has no parent. A non-zero parent always
	// resolves in the same catalog.
	Parent tag.Tag

	// ContextName is the parent's display name, shown when the
	// context is listed outside any scoping context.
	ContextName string

	// CanAddNotes is true only for courses with note-taking enabled
	// where the user holds the note-management permission.
	CanAddNotes bool

	// UserCount is the number of users the acting user can message
	// in this context.
	UserCount int
}

// Catalog is the set of contexts one user may address, built fresh per
// request from a directory snapshot. Not safe for concurrent use; each
// request builds its own.
type Catalog struct {
	contexts      map[tag.Tag]Context
	groupCourse   map[string]tag.Tag
	currentGroups map[string]struct{}
}

// BuildCatalog constructs a catalog from a membership snapshot.
//
// Courses merge concluded-first so an active enrollment in the same
// course wins. Sections resolve their parent course in the catalog and
// inherit its term and active flag; a section whose parent is missing
// is dropped rather than failing the build. Groups keep their own
// active state and link to their owning course when they have one.
func BuildCatalog(snapshot *Snapshot) *Catalog {
	catalog := &Catalog{
		contexts:      make(map[tag.Tag]Context),
		groupCourse:   make(map[string]tag.Tag),
		currentGroups: make(map[string]struct{}),
	}
	if snapshot == nil {
		return catalog
	}

	addCourse := func(course Course, active bool) {
		courseTag, err := tag.New(tag.KindCourse, course.ID)
		if err != nil {
			return
		}
		term := course.Term
		if course.DefaultTerm {
			term = ""
		}
		catalog.contexts[courseTag] = Context{
			Tag:         courseTag,
			Name:        course.Name,
			Active:      active,
			Term:        term,
			CanAddNotes: course.NotesEnabled && course.CanManageNotes,
			UserCount:   snapshot.CourseUserCounts[course.ID],
		}
	}

	for _, course := range snapshot.ConcludedCourses {
		addCourse(course, course.RecentlyEnded)
	}
	for _, course := range snapshot.ActiveCourses {
		addCourse(course, true)
	}

	for _, section := range snapshot.Sections {
		sectionTag, err := tag.New(tag.KindSection, section.ID)
		if err != nil {
			continue
		}
		courseTag, err := tag.New(tag.KindCourse, section.CourseID)
		if err != nil {
			continue
		}
		parent, ok := catalog.contexts[courseTag]
		if !ok {
			// Parent course is not visible to the user; the
			// section cannot stand alone.
			continue
		}
		catalog.contexts[sectionTag] = Context{
			Tag:         sectionTag,
			Name:        section.Name,
			Active:      parent.Active,
			Term:        parent.Term,
			Parent:      courseTag,
			ContextName: parent.Name,
			UserCount:   snapshot.SectionUserCounts[section.ID],
		}
	}

	for _, group := range snapshot.Groups {
		groupTag, err := tag.New(tag.KindGroup, group.ID)
		if err != nil {
			continue
		}
		entry := Context{
			Tag:       groupTag,
			Name:      group.Name,
			Active:    group.Active,
			UserCount: snapshot.GroupUserCounts[group.ID],
		}
		if group.CourseID != "" {
			courseTag, err := tag.New(tag.KindCourse, group.CourseID)
			if err == nil {
				if parent, ok := catalog.contexts[courseTag]; ok {
					entry.Parent = courseTag
					entry.ContextName = parent.Name
				}
			}
		}
		catalog.contexts[groupTag] = entry
		if !entry.Parent.IsZero() {
			catalog.groupCourse[group.ID] = entry.Parent
		}
	}

	for _, id := range snapshot.CurrentGroupIDs {
		catalog.currentGroups[id] = struct{}{}
	}

	return catalog
}

// Lookup returns the context for a tag. The second return value is
// false when the tag is not in the catalog.
func (c *Catalog) Lookup(t tag.Tag) (Context, bool) {
	entry, ok := c.contexts[t]
	return entry, ok
}

// ByKind returns all contexts of one kind, sorted by name for a
// deterministic enumeration order.
func (c *Catalog) ByKind(kind tag.Kind) []Context {
	var result []Context
	for _, entry := range c.contexts {
		if entry.Tag.Kind() == kind {
			result = append(result, entry)
		}
	}
	sortContexts(result)
	return result
}

// ChildrenOf returns the contexts of the given kind whose parent is
// the given course, sorted by name.
func (c *Catalog) ChildrenOf(course tag.Tag, kind tag.Kind) []Context {
	var result []Context
	for _, entry := range c.contexts {
		if entry.Tag.Kind() == kind && entry.Parent == course {
			result = append(result, entry)
		}
	}
	sortContexts(result)
	return result
}

// CurrentGroups returns the groups the user is presently a member of,
// sorted by name. This is the group universe of the default landing
// listing.
func (c *Catalog) CurrentGroups() []Context {
	var result []Context
	for _, entry := range c.contexts {
		if entry.Tag.Kind() != tag.KindGroup {
			continue
		}
		if _, ok := c.currentGroups[entry.Tag.ID()]; ok {
			result = append(result, entry)
		}
	}
	sortContexts(result)
	return result
}

// CanAddNotes reports whether the user may attach grading notes in the
// given context. Only courses ever qualify.
func (c *Catalog) CanAddNotes(t tag.Tag) bool {
	entry, ok := c.contexts[t]
	return ok && entry.Tag.Kind() == tag.KindCourse && entry.CanAddNotes
}

// CourseForGroup implements [tag.CourseResolver]: it reports the
// owning course of a catalog group, for the group→course tag
// expansion.
func (c *Catalog) CourseForGroup(groupID string) (tag.Tag, bool) {
	course, ok := c.groupCourse[groupID]
	return course, ok
}

// Len returns the number of contexts in the catalog.
func (c *Catalog) Len() int {
	return len(c.contexts)
}

// sortContexts orders contexts alphabetically by display name, with
// the canonical tag as tiebreaker so equal names order consistently.
func sortContexts(contexts []Context) {
	slices.SortFunc(contexts, func(a, b Context) int {
		if diff := strings.Compare(a.Name, b.Name); diff != 0 {
			return diff
		}
		return tag.Compare(a.Tag, b.Tag)
	})
}
