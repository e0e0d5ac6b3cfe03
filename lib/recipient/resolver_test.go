// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package recipient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/homeroom-project/homeroom/lib/roster"
)

// classroomFixture is user 1's world: two active courses, two sections
// and a group under course 5, plus one account-level group.
func classroomFixture() (*Resolver, context.Context) {
	snapshot := roster.Snapshot{
		ActiveCourses: []roster.Course{
			{ID: "5", Name: "Intro Biology"},
			{ID: "6", Name: "Organic Chemistry"},
		},
		Sections: []roster.Section{
			{ID: "20", Name: "Section A", CourseID: "5"},
			{ID: "21", Name: "Section B", CourseID: "5"},
		},
		Groups: []roster.Group{
			{ID: "9", Name: "Study Group", Active: true, CourseID: "5"},
			{ID: "8", Name: "Chess Club", Active: true},
		},
		CurrentGroupIDs: []string{"9"},
	}
	file := roster.File{
		Users: map[string]roster.UserRoster{
			"1": {
				Snapshot: snapshot,
				MessageableUsers: []roster.MessageableUser{
					{
						ID: "101", Name: "Alice Able",
						CommonCourses:  map[string][]roster.Role{"5": {roster.RoleTeacher}},
						CommonSections: map[string][]roster.Role{"20": {roster.RoleTeacher}},
					},
					{
						ID: "102", Name: "Bob Baker",
						CommonCourses:  map[string][]roster.Role{"5": {roster.RoleStudent}},
						CommonSections: map[string][]roster.Role{"20": {roster.RoleStudent}},
					},
					{
						ID: "103", Name: "Carol Cooper",
						CommonCourses:  map[string][]roster.Role{"5": {roster.RoleStudent}},
						CommonSections: map[string][]roster.Role{"21": {roster.RoleStudent}},
					},
					{
						ID: "104", Name: "Dave Drake",
						CommonCourses: map[string][]roster.Role{"5": {roster.RoleStudent}},
						CommonGroups:  map[string][]roster.Role{"9": {"Member"}},
					},
					{
						ID: "105", Name: "Erin Field",
						CommonCourses: map[string][]roster.Role{"6": {roster.RoleStudent}},
					},
				},
			},
		},
		Conversations: map[string][]string{
			"77": {"1", "102"},
		},
	}
	resolver := &Resolver{
		Catalog:   roster.BuildCatalog(&snapshot),
		Directory: roster.NewFileDirectory(file),
	}
	return resolver, context.Background()
}

func itemIDs(page Page) []string {
	var ids []string
	for _, item := range page.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func wantIDs(t *testing.T, page Page, want ...string) {
	t.Helper()
	got := itemIDs(page)
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}

func TestResolveDefaultLanding(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Active courses plus current groups, name order. Chess Club is
	// not a current group; no raw users appear.
	wantIDs(t, page, "course_5", "course_6", "group_9")
	if page.HasMore {
		t.Error("landing page with 3 items must not report more")
	}
}

func TestResolveScopedCourse(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "course_5"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Role buckets in fixed order, then drill-down collections.
	wantIDs(t, page, "course_5_teachers", "course_5_students", "course_5_sections", "course_5_groups")

	if page.Items[0].UserCount != 1 || page.Items[1].UserCount != 3 {
		t.Errorf("bucket counts = %d teachers, %d students, want 1 and 3",
			page.Items[0].UserCount, page.Items[1].UserCount)
	}
	if page.Items[2].Name != "Course Sections" || page.Items[2].ItemCount != 2 {
		t.Errorf("sections drill-down = %+v, want Course Sections with 2 items", page.Items[2])
	}
	if page.Items[3].Name != "Student Groups" || page.Items[3].ItemCount != 1 {
		t.Errorf("groups drill-down = %+v, want Student Groups with 1 item", page.Items[3])
	}
}

func TestResolveScopedCourseBucketsOnly(t *testing.T) {
	resolver, ctx := classroomFixture()

	// Course 6 has one student and no sections or groups: only the
	// non-empty student bucket appears. A single section would also
	// be suppressed; here there are none at all.
	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "course_6"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "course_6_students")
	if page.Items[0].UserCount != 1 {
		t.Errorf("student bucket count = %d, want 1", page.Items[0].UserCount)
	}
}

func TestResolveDrilldownSections(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "course_5_sections"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "section_20", "section_21")
	for _, item := range page.Items {
		// The scope already identifies the course, so no context_name.
		if item.ContextName != "" {
			t.Errorf("section %s context name = %q, want empty on scoped listing", item.ID, item.ContextName)
		}
	}
}

func TestResolveDrilldownGroups(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "course_5_groups"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "group_9")
}

func TestResolveScopedCourseWithSearch(t *testing.T) {
	resolver, ctx := classroomFixture()

	// Search within a course covers sections, groups, and users
	// together.
	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "course_5", Search: "section", PerPage: 10})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "section_20", "section_21")

	page, err = resolver.Resolve(ctx, Query{Actor: "1", Context: "course_5", Search: "baker", PerPage: 10})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "102")
	if page.Items[0].Kind != KindUser {
		t.Errorf("matched recipient kind = %s, want user", page.Items[0].Kind)
	}
}

func TestResolveSectionExpansion(t *testing.T) {
	resolver, ctx := classroomFixture()

	// Section scope without search: role expansion with the section
	// prefix, roles counted from the parent course.
	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "section_20"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "section_20_teachers", "section_20_students")
	if page.Items[0].UserCount != 1 || page.Items[1].UserCount != 1 {
		t.Errorf("section bucket counts = %v, want 1 and 1", page.Items)
	}
}

func TestResolveGroupScope(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "group_9"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "104")
}

func TestResolveRoleGroupScope(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: "course_5_teachers"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "101")
}

func TestResolveUnscopedSearch(t *testing.T) {
	resolver, ctx := classroomFixture()

	// AND semantics across terms, case-insensitive.
	page, err := resolver.Resolve(ctx, Query{Actor: "1", Search: "STUDY group", PerPage: 10})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "group_9")

	// Dropping a required term widens the match.
	page, err = resolver.Resolve(ctx, Query{Actor: "1", Search: "c", PerPage: 10})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Contexts first (Chess Club, Organic Chemistry, Section A,
	// Section B), then users (Carol Cooper).
	wantIDs(t, page, "group_8", "course_6", "section_20", "section_21", "103")

	// Unscoped listings carry the parent course's name on sections.
	if page.Items[2].ContextName != "Intro Biology" {
		t.Errorf("section context name = %q, want Intro Biology", page.Items[2].ContextName)
	}
}

func TestResolveExclusion(t *testing.T) {
	resolver, ctx := classroomFixture()

	// Exclusion reaches synthetic ids too.
	page, err := resolver.Resolve(ctx, Query{
		Actor: "1", Context: "course_5",
		Exclude: []string{"course_5_teachers", "course_5_groups"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "course_5_students", "course_5_sections")

	page, err = resolver.Resolve(ctx, Query{
		Actor: "1", Search: "baker", Exclude: []string{"102"}, PerPage: 10,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("excluded user still present: %v", itemIDs(page))
	}
}

func TestResolveSingleRecipient(t *testing.T) {
	resolver, ctx := classroomFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", UserID: "101"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "101")

	// Conversation scoping: 102 shares conversation 77 with the
	// actor, 101 does not.
	page, err = resolver.Resolve(ctx, Query{Actor: "1", UserID: "102", FromConversationID: "77"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "102")

	page, err = resolver.Resolve(ctx, Query{Actor: "1", UserID: "101", FromConversationID: "77"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("out-of-conversation lookup = %v, want empty", itemIDs(page))
	}
}

func TestResolveSingleRecipientRejectsPaging(t *testing.T) {
	resolver, ctx := classroomFixture()

	_, err := resolver.Resolve(ctx, Query{Actor: "1", UserID: "101", Page: 2})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("Resolve err = %v, want ErrInvalidQuery", err)
	}
}

func TestResolveUnknownScope(t *testing.T) {
	resolver, ctx := classroomFixture()

	for _, scope := range []string{"course_999", "section_999", "not a tag", "55_teachers"} {
		page, err := resolver.Resolve(ctx, Query{Actor: "1", Context: scope})
		if err != nil {
			t.Fatalf("Resolve(%q): %v", scope, err)
		}
		if len(page.Items) != 0 {
			t.Errorf("scope %q = %v, want empty", scope, itemIDs(page))
		}
	}
}

func TestResolveTypeRestriction(t *testing.T) {
	resolver, ctx := classroomFixture()

	// Users only: the context stream never appears.
	page, err := resolver.Resolve(ctx, Query{
		Actor: "1", Search: "c", Types: ParseTypes([]string{"user"}), PerPage: 10,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "103")

	// Contexts only.
	page, err = resolver.Resolve(ctx, Query{
		Actor: "1", Search: "c", Types: ParseTypes([]string{"context"}), PerPage: 10,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "group_8", "course_6", "section_20", "section_21")
}

func TestResolveUserOnlyScopedListing(t *testing.T) {
	resolver, ctx := classroomFixture()

	// A user-only restriction inside a scope skips role buckets and
	// enumerates the context's members directly, name order.
	page, err := resolver.Resolve(ctx, Query{
		Actor: "1", Context: "course_5", Types: ParseTypes([]string{"user"}),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "101", "102", "103", "104")
	if page.HasMore {
		t.Error("unlimited scoped listing must not report more")
	}

	page, err = resolver.Resolve(ctx, Query{
		Actor: "1", Context: "section_20", Types: ParseTypes([]string{"user"}),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantIDs(t, page, "101", "102")
}

// paginationFixture: 7 matching contexts and 7 matching users for the
// balanced-merge paging behavior.
func paginationFixture() (*Resolver, context.Context) {
	snapshot := roster.Snapshot{}
	for i := 1; i <= 7; i++ {
		snapshot.Groups = append(snapshot.Groups, roster.Group{
			ID: fmt.Sprintf("%d", i), Name: fmt.Sprintf("Pod %d", i), Active: true,
		})
	}
	entry := roster.UserRoster{Snapshot: snapshot}
	for i := 1; i <= 7; i++ {
		entry.MessageableUsers = append(entry.MessageableUsers, roster.MessageableUser{
			ID: fmt.Sprintf("%d", 100+i), Name: fmt.Sprintf("Pod Person %d", i),
		})
	}
	file := roster.File{Users: map[string]roster.UserRoster{"1": entry}}
	resolver := &Resolver{
		Catalog:   roster.BuildCatalog(&snapshot),
		Directory: roster.NewFileDirectory(file),
	}
	return resolver, context.Background()
}

func TestResolveBalancedPage(t *testing.T) {
	resolver, ctx := paginationFixture()

	page, err := resolver.Resolve(ctx, Query{Actor: "1", Search: "pod", PerPage: 10})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(page.Items) != 10 {
		t.Fatalf("page holds %d items, want 10", len(page.Items))
	}
	contexts, users := 0, 0
	for _, item := range page.Items {
		if item.Kind == KindContext {
			contexts++
		} else {
			users++
		}
	}
	if contexts != 5 || users != 5 {
		t.Errorf("page split = %d contexts + %d users, want 5 + 5", contexts, users)
	}
	if !page.HasMore {
		t.Error("both streams held back items, page must report more")
	}
}

func TestResolveSequentialPages(t *testing.T) {
	resolver, ctx := paginationFixture()

	seen := make(map[string]bool)
	q := Query{Actor: "1", Search: "pod", Types: ParseTypes([]string{"context"}), PerPage: 3}
	for pageNo := 1; pageNo <= 3; pageNo++ {
		q.Page = pageNo
		page, err := resolver.Resolve(ctx, q)
		if err != nil {
			t.Fatalf("Resolve page %d: %v", pageNo, err)
		}
		wantLen := 3
		wantMore := true
		if pageNo == 3 {
			wantLen, wantMore = 1, false
		}
		if len(page.Items) != wantLen || page.HasMore != wantMore {
			t.Fatalf("page %d = (%d items, more=%v), want (%d, %v)",
				pageNo, len(page.Items), page.HasMore, wantLen, wantMore)
		}
		for _, item := range page.Items {
			if seen[item.ID] {
				t.Fatalf("item %s repeated across pages", item.ID)
			}
			seen[item.ID] = true
		}
	}
}
