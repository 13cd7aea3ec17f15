// Package refreshtokens stores the opaque refresh tokens that let clients
// obtain new access tokens without re-entering credentials.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
