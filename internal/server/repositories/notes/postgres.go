package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

const noteColumns = `id, user_id, title, content, category, is_pinned, color, image_url, reminder_date, created_at, updated_at, deleted_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	n := &models.Note{}
	var (
		color, imageURL     sql.NullString
		reminder, deletedAt sql.NullTime
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Category, &n.IsPinned,
		&color, &imageURL, &reminder, &n.CreatedAt, &n.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if color.Valid {
		n.Color = &color.String
	}
	if imageURL.Valid {
		n.ImageURL = &imageURL.String
	}
	if reminder.Valid {
		n.ReminderDate = &reminder.Time
	}
	if deletedAt.Valid {
		n.DeletedAt = &deletedAt.Time
	}
	return n, nil
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns the caller's active notes. Pinned notes come first whatever
// the requested order.
func (r *PostgresRepository) List(ctx context.Context, userID string, f models.ListFilter) ([]*models.Note, error) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString(`SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 AND deleted_at IS NULL`)

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		fmt.Fprintf(&sb, ` AND (title ILIKE $%d OR content ILIKE $%d)`, len(args), len(args))
	}
	if f.Category != "" && f.Category != "all" {
		args = append(args, f.Category)
		fmt.Fprintf(&sb, ` AND category = $%d`, len(args))
	}

	column := "updated_at"
	if f.SortBy == models.SortByTitle {
		column = "title"
	}
	direction := "DESC"
	if f.Ascending {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, ` ORDER BY is_pinned DESC, %s %s, id`, column, direction)

	return r.queryMany(ctx, sb.String(), args...)
}

// ListTrash returns the caller's trashed notes, most recently deleted first.
func (r *PostgresRepository) ListTrash(ctx context.Context, userID string) ([]*models.Note, error) {
	return r.queryMany(ctx, `SELECT `+noteColumns+` FROM notes WHERE user_id = $1 AND deleted_at IS NOT NULL ORDER BY deleted_at DESC`, userID)
}

func (r *PostgresRepository) GetActive(ctx context.Context, userID, id string) (*models.Note, error) {
	return r.queryOne(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID)
}

// Create inserts a note. When in.ID is set and already taken the insert is
// skipped and common.ErrorConflict is returned.
func (r *PostgresRepository) Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error) {
	var id any
	if in.ID != "" {
		id = in.ID
	}

	query := `
		INSERT INTO notes (id, user_id, title, content, category, is_pinned, color, image_url, reminder_date)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query,
		id, userID, in.Title, in.Content, string(in.Category), in.IsPinned, in.Color, in.ImageURL, in.ReminderDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Update applies the non-nil fields of patch to an active owned note and
// refreshes updated_at.
func (r *PostgresRepository) Update(ctx context.Context, userID, id string, p models.NotePatch) (*models.Note, error) {
	args := []any{id, userID}
	sets := make([]string, 0, 8)

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Content != nil {
		set("content", *p.Content)
	}
	if p.Category != nil {
		set("category", string(*p.Category))
	}
	if p.IsPinned != nil {
		set("is_pinned", *p.IsPinned)
	}
	if p.Color != nil {
		set("color", *p.Color)
	}
	if p.ImageURL != nil {
		set("image_url", *p.ImageURL)
	}
	if p.ReminderDate != nil {
		set("reminder_date", *p.ReminderDate)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE notes SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL RETURNING ` + noteColumns

	return r.queryOne(ctx, query, args...)
}

// TogglePin negates is_pinned in a single statement.
func (r *PostgresRepository) TogglePin(ctx context.Context, userID, id string) (*models.Note, error) {
	return r.queryOne(ctx, `UPDATE notes SET is_pinned = NOT is_pinned, updated_at = now() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL RETURNING `+noteColumns, id, userID)
}

// SoftDelete moves an active owned note to the trash.
func (r *PostgresRepository) SoftDelete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notes SET deleted_at = now() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Restore clears deleted_at on an owned note whatever its current state.
func (r *PostgresRepository) Restore(ctx context.Context, userID, id string) (*models.Note, error) {
	return r.queryOne(ctx, `UPDATE notes SET deleted_at = NULL WHERE id = $1 AND user_id = $2 RETURNING `+noteColumns, id, userID)
}

func (r *PostgresRepository) Stats(ctx context.Context, userID string) (*models.ProfileStats, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_pinned)
		FROM notes
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	s := &models.ProfileStats{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.TotalNotes, &s.PinnedNotes); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
