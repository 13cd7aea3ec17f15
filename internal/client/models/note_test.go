package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(notes []*Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestFilterNotes(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	notes := []*Note{
		{ID: "a", Title: "Groceries", Content: "milk, eggs", Category: CategoryPersonal, UpdatedAt: base},
		{ID: "b", Title: "standup", Content: "ship the MILK feature", Category: CategoryWork, UpdatedAt: base.Add(time.Hour)},
		{ID: "c", Title: "Algebra", Content: "rings", Category: CategoryStudy, UpdatedAt: base.Add(2 * time.Hour), IsPinned: true},
		{ID: "d", Title: "budget", Content: "", Category: CategoryPersonal, UpdatedAt: base.Add(3 * time.Hour)},
	}

	tests := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{"default newest first, pinned on top", ListQuery{}, []string{"c", "d", "b", "a"}},
		{"search is case-insensitive over content", ListQuery{Search: "milk"}, []string{"b", "a"}},
		{"category", ListQuery{Category: "personal"}, []string{"d", "a"}},
		{"category all", ListQuery{Category: "all"}, []string{"c", "d", "b", "a"}},
		{"title ascending ignores case", ListQuery{SortBy: SortByTitle, Ascending: true}, []string{"c", "d", "a", "b"}},
		{"title descending", ListQuery{SortBy: SortByTitle}, []string{"c", "b", "a", "d"}},
		{"date ascending", ListQuery{Ascending: true}, []string{"c", "a", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterNotes(notes, tt.q)))
		})
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(notes), "input must not be reordered")
}

func TestNotePatch_Apply(t *testing.T) {
	title := "new"
	pinned := true
	n := &Note{Title: "old", Content: "body", Category: CategoryWork}

	NotePatch{Title: &title, IsPinned: &pinned, Tags: []string{"x"}}.Apply(n)

	assert.Equal(t, "new", n.Title)
	assert.Equal(t, "body", n.Content)
	assert.Equal(t, CategoryWork, n.Category)
	assert.True(t, n.IsPinned)
	assert.Equal(t, []string{"x"}, n.Tags)
}

func TestNote_CloneIsDeep(t *testing.T) {
	color := "red"
	now := time.Now()
	n := &Note{ID: "1", Color: &color, DeletedAt: &now, Tags: []string{"a"}}

	c := n.Clone()
	*c.Color = "blue"
	c.Tags[0] = "b"
	*c.DeletedAt = now.Add(time.Hour)

	require.Equal(t, "red", *n.Color)
	assert.Equal(t, "a", n.Tags[0])
	assert.True(t, n.DeletedAt.Equal(now))
	assert.Nil(t, (*Note)(nil).Clone())
}

func TestPatchFrom(t *testing.T) {
	n := &Note{Title: "t", Content: "c", Category: CategoryIdeas, IsPinned: true, Tags: []string{"k"}}
	var out Note
	PatchFrom(n).Apply(&out)
	assert.Equal(t, n.Title, out.Title)
	assert.Equal(t, n.Content, out.Content)
	assert.Equal(t, n.Category, out.Category)
	assert.True(t, out.IsPinned)
	assert.Equal(t, n.Tags, out.Tags)
}

func TestAuthStateValid(t *testing.T) {
	assert.True(t, AuthSkipped.Valid())
	assert.False(t, AuthState("guest").Valid())
}
