package models

import "time"

// AuthState is the identity gate's state.
type AuthState string

const (
	AuthUnauthenticated AuthState = "unauthenticated"
	AuthAuthenticated   AuthState = "authenticated"
	AuthSkipped         AuthState = "skipped"
)

func (s AuthState) Valid() bool {
	switch s {
	case AuthUnauthenticated, AuthAuthenticated, AuthSkipped:
		return true
	}
	return false
}

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is what register and login return.
type AuthResult struct {
	User *User `json:"user"`
	TokenPair
}

// Session is persisted on the device after a successful login.
type Session struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

type ProfileStats struct {
	TotalNotes  int `json:"totalNotes"`
	PinnedNotes int `json:"pinnedNotes"`
}

type Profile struct {
	User  *User         `json:"user"`
	Stats *ProfileStats `json:"stats"`
}
