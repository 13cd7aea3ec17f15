package models

import "time"

// Permission is the access level recorded on a share grant.
type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// Valid reports whether p is a known permission.
func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// ShareGrant records that a note's owner shared it with another user.
// It is an intent only; grantees get no read path to the note.
type ShareGrant struct {
	ID               string     `json:"id"`
	NoteID           string     `json:"noteId"`
	SharedWithUserID string     `json:"sharedWithUserId"`
	SharedWithEmail  string     `json:"sharedWithEmail"`
	Permission       Permission `json:"permission"`
	SharedAt         time.Time  `json:"sharedAt"`
}
