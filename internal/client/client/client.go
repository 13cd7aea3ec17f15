package client

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Remote is the notes API as seen by the client services.
type Remote interface {
	Register(ctx context.Context, email, username, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error

	ListNotes(ctx context.Context, q models.ListQuery) ([]*models.Note, error)
	ListTrash(ctx context.Context) ([]*models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	CreateNote(ctx context.Context, n *models.Note) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) (*models.Note, error)
	RestoreNote(ctx context.Context, id string) (*models.Note, error)

	ShareNote(ctx context.Context, id, email string, permission models.Permission) (*models.ShareGrant, error)
	ListShares(ctx context.Context, id string) ([]*models.ShareGrant, error)
	AddAttachment(ctx context.Context, noteID string, in models.AttachmentInput) (*models.AttachmentUpload, error)
	AttachmentURL(ctx context.Context, noteID, attachmentID string) (string, error)

	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, username string) (*models.User, error)
}

// TokenSource supplies and stores the session tokens. An empty access token
// means there is no session.
type TokenSource interface {
	Tokens(ctx context.Context) (models.TokenPair, error)
	SetTokens(ctx context.Context, pair models.TokenPair) error
}
