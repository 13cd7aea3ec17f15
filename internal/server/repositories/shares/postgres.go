package shares

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert grants userID access to noteID. Sharing again with the same user
// replaces the permission and the grant time.
func (r *PostgresRepository) Upsert(ctx context.Context, noteID, userID string, permission models.Permission) (*models.ShareGrant, error) {
	query := `
		WITH g AS (
			INSERT INTO shared_notes (note_id, shared_with_user_id, permission)
			VALUES ($1, $2, $3)
			ON CONFLICT (note_id, shared_with_user_id)
			DO UPDATE SET permission = EXCLUDED.permission, shared_at = now()
			RETURNING id, note_id, shared_with_user_id, permission, shared_at
		)
		SELECT g.id, g.note_id, g.shared_with_user_id, u.email, g.permission, g.shared_at
		FROM g JOIN users u ON u.id = g.shared_with_user_id
	`
	g := &models.ShareGrant{}
	err := r.db.QueryRowContext(ctx, query, noteID, userID, string(permission)).
		Scan(&g.ID, &g.NoteID, &g.SharedWithUserID, &g.SharedWithEmail, &g.Permission, &g.SharedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) ListByNote(ctx context.Context, noteID string) ([]*models.ShareGrant, error) {
	query := `
		SELECT s.id, s.note_id, s.shared_with_user_id, u.email, s.permission, s.shared_at
		FROM shared_notes s JOIN users u ON u.id = s.shared_with_user_id
		WHERE s.note_id = $1
		ORDER BY s.shared_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ShareGrant, 0)
	for rows.Next() {
		g := &models.ShareGrant{}
		if err := rows.Scan(&g.ID, &g.NoteID, &g.SharedWithUserID, &g.SharedWithEmail, &g.Permission, &g.SharedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
