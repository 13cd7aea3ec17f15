package models

import "time"

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// ShareGrant records that a note was shared with another account.
type ShareGrant struct {
	ID               string     `json:"id"`
	NoteID           string     `json:"noteId"`
	SharedWithUserID string     `json:"sharedWithUserId"`
	SharedWithEmail  string     `json:"sharedWithEmail"`
	Permission       Permission `json:"permission"`
	SharedAt         time.Time  `json:"sharedAt"`
}
