// Package store keeps the client's device-side state in the local metadata
// table: the note list, the session and user preferences.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/google/uuid"
)

// NotesKey is the metadata key holding the JSON note list.
const NotesKey = "notes"

// NoteStore is the device tier. Records are kept as one ordered JSON list,
// most recent first. Deletes are soft; Remove is the only hard delete.
type NoteStore struct {
	mu     sync.Mutex
	repo   metadata.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewNoteStore(repo metadata.Repository, l logging.Logger) *NoteStore {
	return &NoteStore{
		repo:   repo,
		logger: l.With("module", "note_store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// load reads the list. A missing or unreadable value is an empty list;
// only storage failures are errors.
func (s *NoteStore) load(ctx context.Context) ([]*models.Note, error) {
	raw, err := s.repo.Get(ctx, NotesKey)
	if errors.Is(err, common.ErrorNotFound) {
		return []*models.Note{}, nil
	}
	if err != nil {
		return nil, err
	}

	var notes []*models.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		s.logger.Warn(ctx, "discarding unreadable note list", "error", err)
		return []*models.Note{}, nil
	}
	return notes, nil
}

func (s *NoteStore) persist(ctx context.Context, notes []*models.Note) error {
	raw, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	return s.repo.Set(ctx, NotesKey, raw)
}

func indexOf(notes []*models.Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(notes []*models.Note) []*models.Note {
	out := make([]*models.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Clone())
	}
	return out
}

// List returns the active notes, most recent first. It never fails: read
// errors are logged and yield an empty list.
func (s *NoteStore) List(ctx context.Context) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reading notes failed", "error", err)
		return []*models.Note{}
	}

	out := make([]*models.Note, 0, len(notes))
	for _, n := range notes {
		if !n.Trashed() {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Trash returns trashed notes, most recently deleted first.
func (s *NoteStore) Trash(ctx context.Context) []*models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reading notes failed", "error", err)
		return []*models.Note{}
	}

	out := make([]*models.Note, 0)
	for _, n := range notes {
		if n.Trashed() {
			out = append(out, n.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out
}

// Get returns the record with id, trashed or not.
func (s *NoteStore) Get(ctx context.Context, id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return notes[i].Clone(), nil
}

// Save upserts n. For a known id the set fields of n are merged into the
// stored record in place: zero fields keep their stored value and a nil
// DeletedAt never untrashes. An unknown id is inserted first; a missing id
// gets a fresh UUIDv7 and the defaults.
func (s *NoteStore) Save(ctx context.Context, n *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := n.Clone()
	rec.UpdatedAt = now

	if i := indexOf(notes, rec.ID); rec.ID != "" && i >= 0 {
		merged := notes[i]
		models.PatchSet(rec).Apply(merged)
		if rec.UserID != "" {
			merged.UserID = rec.UserID
		}
		if rec.DeletedAt != nil {
			merged.DeletedAt = rec.DeletedAt
		}
		if rec.Attachments != nil {
			merged.Attachments = rec.Attachments
		}
		if rec.SyncState != "" && rec.SyncState != models.SyncSynced {
			merged.SyncState = rec.SyncState
		}
		merged.UpdatedAt = now
		applyDefaults(merged)
		rec = merged
	} else {
		if rec.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return nil, err
			}
			rec.ID = id.String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		applyDefaults(rec)
		notes = append([]*models.Note{rec}, notes...)
	}

	if err := s.persist(ctx, notes); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

func applyDefaults(n *models.Note) {
	if n.Title == "" {
		n.Title = models.DefaultTitle
	}
	if n.Category == "" {
		n.Category = models.CategoryGeneral
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.SyncState == "" || n.SyncState == models.SyncSynced {
		n.SyncState = models.SyncLocalOnly
	}
}

// mutate runs fn on the record with id and persists the list. It returns
// nil, nil when the id is absent or fn reports no change.
func (s *NoteStore) mutate(ctx context.Context, id string, fn func(n *models.Note, now time.Time) bool) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return nil, nil
	}

	now := s.now()
	if !fn(notes[i], now) {
		return nil, nil
	}
	notes[i].UpdatedAt = now

	if err := s.persist(ctx, notes); err != nil {
		return nil, err
	}
	return notes[i].Clone(), nil
}

// Update merges the set fields of patch.
func (s *NoteStore) Update(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	return s.mutate(ctx, id, func(n *models.Note, _ time.Time) bool {
		patch.Apply(n)
		return true
	})
}

// Delete moves an active note to the trash. It reports false when there is
// no active note with id.
func (s *NoteStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.mutate(ctx, id, func(n *models.Note, now time.Time) bool {
		if n.Trashed() {
			return false
		}
		n.DeletedAt = &now
		return true
	})
	return n != nil, err
}

// Restore clears the trash timestamp whatever its value.
func (s *NoteStore) Restore(ctx context.Context, id string) (*models.Note, error) {
	return s.mutate(ctx, id, func(n *models.Note, _ time.Time) bool {
		n.DeletedAt = nil
		return true
	})
}

func (s *NoteStore) TogglePin(ctx context.Context, id string) (*models.Note, error) {
	return s.mutate(ctx, id, func(n *models.Note, _ time.Time) bool {
		n.IsPinned = !n.IsPinned
		return true
	})
}

// Pending returns every record that has not reached the cloud, oldest
// first, trashed ones included.
func (s *NoteStore) Pending(ctx context.Context) ([]*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Note, 0, len(notes))
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].SyncState != models.SyncSynced {
			out = append(out, notes[i].Clone())
		}
	}
	return out, nil
}

// Remove drops the record for good. It is used once a record has been
// pushed to the cloud.
func (s *NoteStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return false, nil
	}
	notes = append(notes[:i], notes[i+1:]...)
	return true, s.persist(ctx, notes)
}

// Clear deletes every device note, trashed ones included.
func (s *NoteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, NotesKey)
}

// Tags returns the distinct tags of active notes in lexical order.
func (s *NoteStore) Tags(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, n := range s.List(ctx) {
		for _, t := range n.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
