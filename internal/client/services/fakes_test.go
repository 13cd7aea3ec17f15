package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/client/store"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory cloud. Setting err makes every call fail.
type fakeRemote struct {
	notes  map[string]*models.Note
	err    error
	calls  []string
	grants []*models.ShareGrant

	authRes   *models.AuthResult
	authErr   error
	logoutErr error
	lastToken string
	profile   *models.Profile
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{notes: map[string]*models.Note{}}
}

func (f *fakeRemote) call(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeRemote) active(id string) (*models.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.DeletedAt != nil {
		return nil, &client.APIError{Status: 404, Message: "Note not found"}
	}
	return n, nil
}

func (f *fakeRemote) out(n *models.Note) *models.Note {
	c := n.Clone()
	c.Tags = nil
	c.SyncState = models.SyncSynced
	return c
}

func (f *fakeRemote) Register(ctx context.Context, email, username, password string) (*models.AuthResult, error) {
	f.calls = append(f.calls, "register")
	return f.authRes, f.authErr
}

func (f *fakeRemote) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	f.calls = append(f.calls, "login")
	return f.authRes, f.authErr
}

func (f *fakeRemote) Logout(ctx context.Context, refreshToken string) error {
	f.calls = append(f.calls, "logout")
	f.lastToken = refreshToken
	return f.logoutErr
}

func (f *fakeRemote) ListNotes(ctx context.Context, q models.ListQuery) ([]*models.Note, error) {
	if err := f.call("list"); err != nil {
		return nil, err
	}
	var out []*models.Note
	for _, n := range f.notes {
		if n.DeletedAt == nil {
			out = append(out, f.out(n))
		}
	}
	return models.FilterNotes(out, q), nil
}

func (f *fakeRemote) ListTrash(ctx context.Context) ([]*models.Note, error) {
	if err := f.call("trash"); err != nil {
		return nil, err
	}
	var out []*models.Note
	for _, n := range f.notes {
		if n.DeletedAt != nil {
			out = append(out, f.out(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (f *fakeRemote) GetNote(ctx context.Context, id string) (*models.Note, error) {
	if err := f.call("get"); err != nil {
		return nil, err
	}
	n, err := f.active(id)
	if err != nil {
		return nil, err
	}
	return f.out(n), nil
}

func (f *fakeRemote) CreateNote(ctx context.Context, n *models.Note) (*models.Note, error) {
	if err := f.call("create"); err != nil {
		return nil, err
	}
	if existing, ok := f.notes[n.ID]; ok {
		if existing.DeletedAt != nil {
			return nil, &client.APIError{Status: 409, Message: "Note id already in use"}
		}
		return f.out(existing), nil
	}
	rec := n.Clone()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	rec.DeletedAt = nil
	f.notes[rec.ID] = rec
	return f.out(rec), nil
}

func (f *fakeRemote) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	if err := f.call("update"); err != nil {
		return nil, err
	}
	n, err := f.active(id)
	if err != nil {
		return nil, err
	}
	patch.Tags = nil
	patch.Apply(n)
	n.UpdatedAt = time.Now()
	return f.out(n), nil
}

func (f *fakeRemote) DeleteNote(ctx context.Context, id string) error {
	if err := f.call("delete"); err != nil {
		return err
	}
	n, err := f.active(id)
	if err != nil {
		return err
	}
	now := time.Now()
	n.DeletedAt = &now
	return nil
}

func (f *fakeRemote) TogglePin(ctx context.Context, id string) (*models.Note, error) {
	if err := f.call("pin"); err != nil {
		return nil, err
	}
	n, err := f.active(id)
	if err != nil {
		return nil, err
	}
	n.IsPinned = !n.IsPinned
	return f.out(n), nil
}

func (f *fakeRemote) RestoreNote(ctx context.Context, id string) (*models.Note, error) {
	if err := f.call("restore"); err != nil {
		return nil, err
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, &client.APIError{Status: 404, Message: "Note not found"}
	}
	n.DeletedAt = nil
	return f.out(n), nil
}

func (f *fakeRemote) ShareNote(ctx context.Context, id, email string, permission models.Permission) (*models.ShareGrant, error) {
	if err := f.call("share"); err != nil {
		return nil, err
	}
	g := &models.ShareGrant{ID: "g1", NoteID: id, SharedWithEmail: email, Permission: permission}
	f.grants = append(f.grants, g)
	return g, nil
}

func (f *fakeRemote) ListShares(ctx context.Context, id string) ([]*models.ShareGrant, error) {
	if err := f.call("shares"); err != nil {
		return nil, err
	}
	return f.grants, nil
}

func (f *fakeRemote) AddAttachment(ctx context.Context, noteID string, in models.AttachmentInput) (*models.AttachmentUpload, error) {
	if err := f.call("attach"); err != nil {
		return nil, err
	}
	return nil, common.ErrorInternal
}

func (f *fakeRemote) AttachmentURL(ctx context.Context, noteID, attachmentID string) (string, error) {
	if err := f.call("attachment_url"); err != nil {
		return "", err
	}
	return "https://s3/" + attachmentID, nil
}

func (f *fakeRemote) Profile(ctx context.Context) (*models.Profile, error) {
	if err := f.call("profile"); err != nil {
		return nil, err
	}
	return f.profile, nil
}

func (f *fakeRemote) UpdateProfile(ctx context.Context, username string) (*models.User, error) {
	if err := f.call("update_profile"); err != nil {
		return nil, err
	}
	return &models.User{ID: "u1", Email: "a@example.com", Username: username}, nil
}

type fakeGate struct{ session bool }

func (g *fakeGate) HasSession() bool { return g.session }

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), client.DatabaseFile))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type harness struct {
	remote *fakeRemote
	device *store.NoteStore
	gate   *fakeGate
	svc    *NoteService
}

func newHarness(t *testing.T, session bool) *harness {
	t.Helper()
	h := &harness{
		remote: newFakeRemote(),
		device: store.NewNoteStore(metadata.NewSQLiteRepository(openDB(t)), logging.Nop{}),
		gate:   &fakeGate{session: session},
	}
	h.svc = NewNoteService(h.remote, h.device, h.gate, logging.Nop{})
	return h
}

// brokenPending is a device whose pending scan fails.
type brokenPending struct {
	DeviceStore
	err error
}

func (b brokenPending) Pending(context.Context) ([]*models.Note, error) { return nil, b.err }

// recordingLogger keeps the messages logged at warn level.
type recordingLogger struct {
	logging.Nop
	warns []string
}

func (l *recordingLogger) Warn(_ context.Context, msg string, _ ...any) {
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) With(...any) logging.Logger { return l }
