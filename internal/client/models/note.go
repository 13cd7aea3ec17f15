// Package models holds the client-side data types: notes as they are kept on
// the device and returned by the cloud, the session and the query helpers.
package models

import (
	"sort"
	"strings"
	"time"
)

type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryIdeas    Category = "ideas"
	CategoryStudy    Category = "study"
)

var Categories = []Category{CategoryGeneral, CategoryWork, CategoryPersonal, CategoryIdeas, CategoryStudy}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// DefaultTitle is given to notes saved without one.
const DefaultTitle = "Untitled"

// SyncState tells how a device record relates to the cloud.
type SyncState string

const (
	// SyncLocalOnly: never reached the cloud.
	SyncLocalOnly SyncState = "local-only"
	// SyncPendingPush: an edit to a cloud note kept on the device after the
	// remote call failed.
	SyncPendingPush SyncState = "pending-push"
	// SyncSynced marks notes returned by the cloud. Never persisted.
	SyncSynced SyncState = "synced"
)

// Note is the shape shared by the device store and the remote API.
// DeletedAt != nil means the note is in the trash.
type Note struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId,omitempty"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Category     Category      `json:"category"`
	IsPinned     bool          `json:"isPinned"`
	Color        *string       `json:"color,omitempty"`
	ImageURL     *string       `json:"imageUrl,omitempty"`
	ReminderDate *time.Time    `json:"reminderDate,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	DeletedAt    *time.Time    `json:"deletedAt,omitempty"`
	SyncState    SyncState     `json:"syncState,omitempty"`
	Attachments  []*Attachment `json:"attachments,omitempty"`
}

// Trashed reports whether the note carries a soft-delete timestamp.
func (n *Note) Trashed() bool {
	return n.DeletedAt != nil
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	if n.Color != nil {
		v := *n.Color
		c.Color = &v
	}
	if n.ImageURL != nil {
		v := *n.ImageURL
		c.ImageURL = &v
	}
	if n.ReminderDate != nil {
		v := *n.ReminderDate
		c.ReminderDate = &v
	}
	if n.DeletedAt != nil {
		v := *n.DeletedAt
		c.DeletedAt = &v
	}
	if n.Tags != nil {
		c.Tags = append(make([]string, 0, len(n.Tags)), n.Tags...)
	}
	if n.Attachments != nil {
		c.Attachments = append([]*Attachment(nil), n.Attachments...)
	}
	return &c
}

// NotePatch is a partial update: nil fields are left untouched.
type NotePatch struct {
	Title        *string    `json:"title,omitempty"`
	Content      *string    `json:"content,omitempty"`
	Category     *Category  `json:"category,omitempty"`
	IsPinned     *bool      `json:"isPinned,omitempty"`
	Color        *string    `json:"color,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
	Tags         []string   `json:"-"`
}

// Apply merges the set fields of p into n.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Category != nil {
		n.Category = *p.Category
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
	if p.Color != nil {
		n.Color = p.Color
	}
	if p.ImageURL != nil {
		n.ImageURL = p.ImageURL
	}
	if p.ReminderDate != nil {
		n.ReminderDate = p.ReminderDate
	}
	if p.Tags != nil {
		n.Tags = append([]string(nil), p.Tags...)
	}
}

// PatchFrom builds a patch that overwrites every content field with n's.
func PatchFrom(n *Note) NotePatch {
	title, content, category, pinned := n.Title, n.Content, n.Category, n.IsPinned
	return NotePatch{
		Title:        &title,
		Content:      &content,
		Category:     &category,
		IsPinned:     &pinned,
		Color:        n.Color,
		ImageURL:     n.ImageURL,
		ReminderDate: n.ReminderDate,
		Tags:         n.Tags,
	}
}

// PatchSet builds a patch from the fields of n that are set. Zero values
// (empty strings, false, nil) are left out, so a sparse record only
// overwrites what it carries.
func PatchSet(n *Note) NotePatch {
	var p NotePatch
	if n.Title != "" {
		title := n.Title
		p.Title = &title
	}
	if n.Content != "" {
		content := n.Content
		p.Content = &content
	}
	if n.Category != "" {
		category := n.Category
		p.Category = &category
	}
	if n.IsPinned {
		pinned := true
		p.IsPinned = &pinned
	}
	p.Color = n.Color
	p.ImageURL = n.ImageURL
	p.ReminderDate = n.ReminderDate
	p.Tags = n.Tags
	return p
}

type SortField string

const (
	SortByDate  SortField = "date"
	SortByTitle SortField = "title"
)

// ListQuery narrows and orders a listing. The zero value lists everything,
// newest first.
type ListQuery struct {
	Search    string
	Category  string
	SortBy    SortField
	Ascending bool
}

// FilterNotes applies q to notes the way the server does: case-insensitive
// search on title and content, a category filter ("all" matches everything),
// pinned notes first, then by date or title. The input is not modified.
func FilterNotes(notes []*Note, q ListQuery) []*Note {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)

	out := make([]*Note, 0, len(notes))
	for _, n := range notes {
		if category != "" && category != "all" && string(n.Category) != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(n.Title), search) &&
			!strings.Contains(strings.ToLower(n.Content), search) {
			continue
		}
		out = append(out, n)
	}

	less := func(a, b *Note) bool {
		if q.SortBy == SortByTitle {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
		return a.UpdatedAt.Before(b.UpdatedAt)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if q.Ascending {
			return less(a, b)
		}
		return less(b, a)
	})
	return out
}
