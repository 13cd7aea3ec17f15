// Package notes persists notes and implements the trash lifecycle at the SQL
// level. Every statement is scoped by owner, so a note owned by someone else
// is indistinguishable from a missing one.
package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string, filter models.ListFilter) ([]*models.Note, error)
	ListTrash(ctx context.Context, userID string) ([]*models.Note, error)
	GetActive(ctx context.Context, userID, id string) (*models.Note, error)
	Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error)
	Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error)
	TogglePin(ctx context.Context, userID, id string) (*models.Note, error)
	SoftDelete(ctx context.Context, userID, id string) error
	Restore(ctx context.Context, userID, id string) (*models.Note, error)
	Stats(ctx context.Context, userID string) (*models.ProfileStats, error)
}
