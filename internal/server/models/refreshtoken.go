package models

import "time"

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User *User `json:"user"`
	TokenPair
}
