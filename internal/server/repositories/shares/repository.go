// Package shares records share grants between a note owner and other users.
package shares

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, noteID, userID string, permission models.Permission) (*models.ShareGrant, error)
	ListByNote(ctx context.Context, noteID string) ([]*models.ShareGrant, error)
}
