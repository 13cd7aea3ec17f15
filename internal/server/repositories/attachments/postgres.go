package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const attachmentColumns = `id, note_id, file_name, file_type, file_size, storage_key, uploaded_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAttachment(row interface{ Scan(...any) error }) (*models.Attachment, error) {
	a := &models.Attachment{}
	var fileType sql.NullString
	if err := row.Scan(&a.ID, &a.NoteID, &a.FileName, &fileType, &a.FileSize, &a.StorageKey, &a.UploadedAt); err != nil {
		return nil, err
	}
	a.FileType = fileType.String
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	query := `
		INSERT INTO attachments (note_id, file_name, file_type, file_size, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attachmentColumns

	out, err := scanAttachment(r.db.QueryRowContext(ctx, query, a.NoteID, a.FileName, a.FileType, a.FileSize, a.StorageKey))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByNote(ctx context.Context, noteID string) ([]*models.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE note_id = $1 ORDER BY uploaded_at`, noteID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Get returns the attachment id of note noteID or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, noteID, id string) (*models.Attachment, error) {
	a, err := scanAttachment(r.db.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = $1 AND note_id = $2`, id, noteID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
