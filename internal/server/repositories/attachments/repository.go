// Package attachments stores metadata for files attached to notes.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	ListByNote(ctx context.Context, noteID string) ([]*models.Attachment, error)
	Get(ctx context.Context, noteID, id string) (*models.Attachment, error)
}
