// Package models defines the server-side records persisted in PostgreSQL.
package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	IsActive     bool       `json:"-"`
}

// ProfileStats summarizes a user's active (not trashed) notes.
type ProfileStats struct {
	TotalNotes  int `json:"totalNotes"`
	PinnedNotes int `json:"pinnedNotes"`
}

// Profile is the user record returned by the profile endpoint.
type Profile struct {
	User  *User         `json:"user"`
	Stats *ProfileStats `json:"stats"`
}
