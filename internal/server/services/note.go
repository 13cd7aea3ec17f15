package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned by Share when no account has the grantee email.
	ErrUserNotFound = fmt.Errorf("user not found: %w", common.ErrorNotFound)
	// ErrNoteNotFound covers missing, trashed and foreign notes alike.
	ErrNoteNotFound = fmt.Errorf("note not found: %w", common.ErrorNotFound)
)

// NoteService implements the note lifecycle for one authenticated owner per
// call: active notes can be edited, pinned and trashed; trashed notes can
// only be restored.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

// validID reports whether id can name a note at all. Anything else is
// answered with NotFound without touching the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return ErrNoteNotFound
	}
	return err
}

func validateTitle(v *common.ValidationError, title string) {
	switch {
	case title == "":
		v.Add("title", "Title is required")
	case utf8.RuneCountInString(title) > models.MaxTitleLength:
		v.Add("title", fmt.Sprintf("Title must be at most %d characters", models.MaxTitleLength))
	}
}

func validateCategory(v *common.ValidationError, c models.Category) {
	if !c.Valid() {
		v.Add("category", "Invalid category")
	}
}

func (s *NoteService) List(ctx context.Context, userID string, filter models.ListFilter) ([]*models.Note, error) {
	return s.repomanager.Notes(s.db).List(ctx, userID, filter)
}

func (s *NoteService) ListTrash(ctx context.Context, userID string) ([]*models.Note, error) {
	return s.repomanager.Notes(s.db).ListTrash(ctx, userID)
}

// Get returns an active owned note with its attachments.
func (s *NoteService) Get(ctx context.Context, userID, id string) (*models.Note, error) {
	if !validID(id) {
		return nil, ErrNoteNotFound
	}
	n, err := s.repomanager.Notes(s.db).GetActive(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	n.Attachments, err = s.repomanager.Attachments(s.db).ListByNote(ctx, id)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create stores a new note for userID. A client-chosen id that already
// names one of the caller's active notes returns that note unchanged, so a
// retried create is harmless; an id taken by anyone else is
// common.ErrorConflict.
func (s *NoteService) Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Category == "" {
		in.Category = models.CategoryGeneral
	}

	v := &common.ValidationError{}
	if in.ID != "" && !validID(in.ID) {
		v.Add("id", "Id must be a UUID")
	}
	validateTitle(v, in.Title)
	if strings.TrimSpace(in.Content) == "" {
		v.Add("content", "Content is required")
	}
	validateCategory(v, in.Category)
	if err := v.Err(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Notes(s.db)
	n, err := repo.Create(ctx, userID, in)
	if errors.Is(err, common.ErrorConflict) {
		existing, getErr := repo.GetActive(ctx, userID, in.ID)
		if getErr == nil {
			return existing, nil
		}
		if errors.Is(getErr, common.ErrorNotFound) {
			return nil, common.ErrorConflict
		}
		return nil, getErr
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Update changes the supplied fields of an active owned note.
func (s *NoteService) Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error) {
	if !validID(id) {
		return nil, ErrNoteNotFound
	}

	v := &common.ValidationError{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
		validateTitle(v, t)
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		v.Add("content", "Content cannot be empty")
	}
	if patch.Category != nil {
		validateCategory(v, *patch.Category)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	n, err := s.repomanager.Notes(s.db).Update(ctx, userID, id, patch)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (s *NoteService) TogglePin(ctx context.Context, userID, id string) (*models.Note, error) {
	if !validID(id) {
		return nil, ErrNoteNotFound
	}
	n, err := s.repomanager.Notes(s.db).TogglePin(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

// SoftDelete moves an active owned note to the trash.
func (s *NoteService) SoftDelete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return ErrNoteNotFound
	}
	return notFound(s.repomanager.Notes(s.db).SoftDelete(ctx, userID, id))
}

// Restore takes an owned note out of the trash. Restoring an active note is
// allowed and leaves it active.
func (s *NoteService) Restore(ctx context.Context, userID, id string) (*models.Note, error) {
	if !validID(id) {
		return nil, ErrNoteNotFound
	}
	n, err := s.repomanager.Notes(s.db).Restore(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

// Share records that the owner of an active note shared it with the account
// registered under email. Sharing again replaces the permission.
func (s *NoteService) Share(ctx context.Context, userID, noteID, email string, permission models.Permission) (*models.ShareGrant, error) {
	if !validID(noteID) {
		return nil, ErrNoteNotFound
	}
	if permission == "" {
		permission = models.PermissionView
	}

	v := &common.ValidationError{}
	email, ok := normalizeEmail(email)
	if !ok {
		v.Add("email", "Please provide a valid email")
	}
	if !permission.Valid() {
		v.Add("permission", "Permission must be view or edit")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Notes(s.db).GetActive(ctx, userID, noteID); err != nil {
		return nil, notFound(err)
	}

	grantee, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if grantee.ID == userID {
		v.Add("email", "Cannot share a note with yourself")
		return nil, v
	}

	return s.repomanager.Shares(s.db).Upsert(ctx, noteID, grantee.ID, permission)
}

// ListShares returns the grants on an active note owned by userID.
func (s *NoteService) ListShares(ctx context.Context, userID, noteID string) ([]*models.ShareGrant, error) {
	if !validID(noteID) {
		return nil, ErrNoteNotFound
	}
	if _, err := s.repomanager.Notes(s.db).GetActive(ctx, userID, noteID); err != nil {
		return nil, notFound(err)
	}
	return s.repomanager.Shares(s.db).ListByNote(ctx, noteID)
}
