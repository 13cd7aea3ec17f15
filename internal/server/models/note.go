package models

import "time"

// Category is one of the fixed note categories.
type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryIdeas    Category = "ideas"
	CategoryStudy    Category = "study"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryGeneral, CategoryWork, CategoryPersonal, CategoryIdeas, CategoryStudy}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// MaxTitleLength is the longest accepted note title, in characters.
const MaxTitleLength = 255

// Note is a stored note. DeletedAt != nil means the note is in the trash.
type Note struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	Category     Category      `json:"category"`
	IsPinned     bool          `json:"isPinned"`
	Color        *string       `json:"color"`
	ImageURL     *string       `json:"imageUrl"`
	ReminderDate *time.Time    `json:"reminderDate"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	DeletedAt    *time.Time    `json:"deletedAt"`
	Attachments  []*Attachment `json:"attachments,omitempty"`
}

// NoteInput carries the fields accepted when creating a note.
// ID is optional; clients that generate their own UUIDs send it so a
// retried create does not produce a second note.
type NoteInput struct {
	ID           string     `json:"id,omitempty"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Category     Category   `json:"category,omitempty"`
	IsPinned     bool       `json:"isPinned,omitempty"`
	Color        *string    `json:"color,omitempty"`
	ImageURL     *string    `json:"imageUrl,omitempty"`
	ReminderDate *time.Time `json:"reminderDate,omitempty"`
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
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.IsPinned == nil &&
		p.Color == nil && p.ImageURL == nil && p.ReminderDate == nil
}

// SortField selects the secondary ordering of a note listing.
type SortField string

const (
	SortByDate  SortField = "date"
	SortByTitle SortField = "title"
)

// ListFilter narrows and orders a note listing. Pinned notes always come first.
type ListFilter struct {
	Search    string
	Category  string
	SortBy    SortField
	Ascending bool
}
