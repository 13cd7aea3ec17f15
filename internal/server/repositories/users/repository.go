// Package users declares and implements persistence for user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string) (*models.User, error)
	UpdateUsername(ctx context.Context, id string, username string) (*models.User, error)
}
