package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/netx"
	"github.com/google/uuid"
)

// DeviceStore is the device tier.
type DeviceStore interface {
	List(ctx context.Context) []*models.Note
	Trash(ctx context.Context) []*models.Note
	Get(ctx context.Context, id string) (*models.Note, error)
	Save(ctx context.Context, n *models.Note) (*models.Note, error)
	Update(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, id string) (bool, error)
	Restore(ctx context.Context, id string) (*models.Note, error)
	TogglePin(ctx context.Context, id string) (*models.Note, error)
	Pending(ctx context.Context) ([]*models.Note, error)
	Remove(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

// Gate reports whether the cloud may be called.
type Gate interface {
	HasSession() bool
}

// NoteService sends every note operation to the cloud when a session
// exists and performs it on the device otherwise, or when the cloud call
// fails. A cloud success is not mirrored on the device.
type NoteService struct {
	remote client.Remote
	device DeviceStore
	gate   Gate
	logger logging.Logger

	// last cloud copy of each note seen in this run, used to seed the
	// device when a cloud note is edited while the cloud is unreachable
	mu    sync.Mutex
	known map[string]*models.Note
}

func NewNoteService(remote client.Remote, device DeviceStore, gate Gate, l logging.Logger) *NoteService {
	return &NoteService{
		remote: remote,
		device: device,
		gate:   gate,
		logger: l.With("module", "note_service"),
		known:  make(map[string]*models.Note),
	}
}

func (s *NoteService) remember(notes ...*models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		if n != nil {
			s.known[n.ID] = n.Clone()
		}
	}
}

func (s *NoteService) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.known, id)
}

func (s *NoteService) lastCloudCopy(id string) *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known[id].Clone()
}

var (
	cloud      = Outcome{Kind: OutcomeSyncedToCloud, Tier: TierCloud}
	local      = Outcome{Kind: OutcomeSavedLocally, Tier: TierDevice}
	fromCloud  = Outcome{Kind: OutcomeFromCloud, Tier: TierCloud}
	fromDevice = Outcome{Kind: OutcomeFromDevice, Tier: TierDevice}
)

func localAfter(err error) Outcome {
	return Outcome{Kind: OutcomeSavedLocallyAfterFailure, Tier: TierDevice, RemoteErr: err}
}

func fromDeviceAfter(err error) Outcome {
	return Outcome{Kind: OutcomeFromDeviceAfterFailure, Tier: TierDevice, RemoteErr: err}
}

func (s *NoteService) fallback(ctx context.Context, op, id string, err error) {
	s.logger.Warn(ctx, "cloud call failed, using device", "op", op, "note_id", id, "error", err)
}

// Create assigns a UUIDv7 before anything else so the same id is used on
// whichever tier ends up holding the note.
func (s *NoteService) Create(ctx context.Context, n *models.Note) (*models.Note, Outcome, error) {
	rec := n.Clone()
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, Outcome{}, err
		}
		rec.ID = id.String()
	}
	if rec.Title == "" {
		rec.Title = models.DefaultTitle
	}
	if rec.Category == "" {
		rec.Category = models.CategoryGeneral
	}

	if !s.gate.HasSession() {
		saved, err := s.saveLocalOnly(ctx, rec, nil)
		return saved, local, err
	}

	created, err := s.remote.CreateNote(ctx, rec)
	if err == nil {
		s.remember(created)
		return created, cloud, nil
	}

	s.fallback(ctx, "create", rec.ID, err)
	saved, derr := s.saveLocalOnly(ctx, rec, err)
	return saved, localAfter(err), derr
}

func (s *NoteService) saveLocalOnly(ctx context.Context, n *models.Note, remoteErr error) (*models.Note, error) {
	n.SyncState = models.SyncLocalOnly
	saved, err := s.device.Save(ctx, n)
	if err != nil {
		return nil, &TierError{Op: "create", NoteID: n.ID, DeviceErr: err, RemoteErr: remoteErr}
	}
	return saved, nil
}

// deviceRecord returns the device copy of id. A cloud note not yet on the
// device is seeded from its last cloud copy and marked pending-push.
func (s *NoteService) deviceRecord(ctx context.Context, id string) (*models.Note, error) {
	rec, err := s.device.Get(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	known := s.lastCloudCopy(id)
	if known == nil {
		return nil, ErrNotOnDevice
	}
	known.SyncState = models.SyncPendingPush
	return s.device.Save(ctx, known)
}

// settle drops a pending-push device record for id once a cloud call for
// it has succeeded: the cloud copy is now the newer one and a later sync
// must not overwrite it. Local-only records are kept.
func (s *NoteService) settle(ctx context.Context, id string) {
	rec, err := s.device.Get(ctx, id)
	if err != nil || rec.SyncState != models.SyncPendingPush {
		return
	}
	if _, err := s.device.Remove(ctx, id); err != nil {
		s.logger.Warn(ctx, "dropping superseded device copy failed", "note_id", id, "error", err)
		return
	}
	s.logger.Info(ctx, "device copy superseded by cloud", "note_id", id)
}

func (s *NoteService) Update(ctx context.Context, id string, patch models.NotePatch) (*models.Note, Outcome, error) {
	if !s.gate.HasSession() {
		n, err := s.device.Update(ctx, id, patch)
		if err == nil && n == nil {
			err = ErrNotOnDevice
		}
		if err != nil {
			return nil, local, &TierError{Op: "update", NoteID: id, DeviceErr: err}
		}
		return n, local, nil
	}

	updated, err := s.remote.UpdateNote(ctx, id, patch)
	if err == nil {
		s.remember(updated)
		s.settle(ctx, id)
		return updated, cloud, nil
	}

	s.fallback(ctx, "update", id, err)
	rec, derr := s.deviceRecord(ctx, id)
	if derr == nil {
		rec, derr = s.device.Update(ctx, id, patch)
		if derr == nil && rec == nil {
			derr = ErrNotOnDevice
		}
	}
	if derr != nil {
		return nil, localAfter(err), &TierError{Op: "update", NoteID: id, DeviceErr: derr, RemoteErr: err}
	}
	return rec, localAfter(err), nil
}

func (s *NoteService) Delete(ctx context.Context, id string) (Outcome, error) {
	if !s.gate.HasSession() {
		ok, err := s.device.Delete(ctx, id)
		if err == nil && !ok {
			err = ErrNotOnDevice
		}
		if err != nil {
			return local, &TierError{Op: "delete", NoteID: id, DeviceErr: err}
		}
		return local, nil
	}

	err := s.remote.DeleteNote(ctx, id)
	if err == nil {
		s.forget(id)
		s.settle(ctx, id)
		return cloud, nil
	}

	s.fallback(ctx, "delete", id, err)
	rec, derr := s.deviceRecord(ctx, id)
	if derr == nil && !rec.Trashed() {
		var ok bool
		ok, derr = s.device.Delete(ctx, id)
		if derr == nil && !ok {
			derr = ErrNotOnDevice
		}
	}
	if derr != nil {
		return localAfter(err), &TierError{Op: "delete", NoteID: id, DeviceErr: derr, RemoteErr: err}
	}
	return localAfter(err), nil
}

func (s *NoteService) TogglePin(ctx context.Context, id string) (*models.Note, Outcome, error) {
	return s.mutate(ctx, "pin", id, s.remote.TogglePin, s.device.TogglePin)
}

func (s *NoteService) Restore(ctx context.Context, id string) (*models.Note, Outcome, error) {
	return s.mutate(ctx, "restore", id, s.remote.RestoreNote, s.device.Restore)
}

// mutate runs an id-only operation that returns the changed note.
func (s *NoteService) mutate(
	ctx context.Context,
	op, id string,
	remote func(ctx context.Context, id string) (*models.Note, error),
	device func(ctx context.Context, id string) (*models.Note, error),
) (*models.Note, Outcome, error) {
	if !s.gate.HasSession() {
		n, err := device(ctx, id)
		if err == nil && n == nil {
			err = ErrNotOnDevice
		}
		if err != nil {
			return nil, local, &TierError{Op: op, NoteID: id, DeviceErr: err}
		}
		return n, local, nil
	}

	n, err := remote(ctx, id)
	if err == nil {
		s.remember(n)
		s.settle(ctx, id)
		return n, cloud, nil
	}

	s.fallback(ctx, op, id, err)
	_, derr := s.deviceRecord(ctx, id)
	if derr == nil {
		n, derr = device(ctx, id)
		if derr == nil && n == nil {
			derr = ErrNotOnDevice
		}
	}
	if derr != nil {
		return nil, localAfter(err), &TierError{Op: op, NoteID: id, DeviceErr: derr, RemoteErr: err}
	}
	return n, localAfter(err), nil
}

// List answers from the cloud when it can and from the device otherwise.
func (s *NoteService) List(ctx context.Context, q models.ListQuery) ([]*models.Note, Outcome) {
	if s.gate.HasSession() {
		notes, err := s.remote.ListNotes(ctx, q)
		if err == nil {
			s.remember(notes...)
			return notes, fromCloud
		}
		s.fallback(ctx, "list", "", err)
		return models.FilterNotes(s.device.List(ctx), q), fromDeviceAfter(err)
	}
	return models.FilterNotes(s.device.List(ctx), q), fromDevice
}

// Trash lists trashed notes, most recently deleted first.
func (s *NoteService) Trash(ctx context.Context) ([]*models.Note, Outcome) {
	if s.gate.HasSession() {
		notes, err := s.remote.ListTrash(ctx)
		if err == nil {
			s.remember(notes...)
			return notes, fromCloud
		}
		s.fallback(ctx, "trash", "", err)
		return s.device.Trash(ctx), fromDeviceAfter(err)
	}
	return s.device.Trash(ctx), fromDevice
}

// Get returns an active note. Trashed device records are reported as not
// found, as the cloud does.
func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, Outcome, error) {
	out := fromDevice
	if s.gate.HasSession() {
		n, err := s.remote.GetNote(ctx, id)
		if err == nil {
			s.remember(n)
			return n, fromCloud, nil
		}
		s.fallback(ctx, "get", id, err)
		out = fromDeviceAfter(err)
	}

	n, err := s.device.Get(ctx, id)
	if err == nil && n.Trashed() {
		err = common.ErrorNotFound
	}
	if err != nil {
		return nil, out, err
	}
	return n, out, nil
}

// Share records the intent to share a note. It needs the cloud.
func (s *NoteService) Share(ctx context.Context, id, email string, permission models.Permission) (*models.ShareGrant, error) {
	if !s.gate.HasSession() {
		return nil, client.ErrNoSession
	}
	return s.remote.ShareNote(ctx, id, email, permission)
}

func (s *NoteService) Shares(ctx context.Context, id string) ([]*models.ShareGrant, error) {
	if !s.gate.HasSession() {
		return nil, client.ErrNoSession
	}
	return s.remote.ListShares(ctx, id)
}

// Attach registers the file at path with a cloud note and uploads its body
// to the presigned URL the server returns.
func (s *NoteService) Attach(ctx context.Context, noteID, path, contentType string) (*models.Attachment, error) {
	if !s.gate.HasSession() {
		return nil, client.ErrNoSession
	}

	info, err := filex.Stat(path)
	if err != nil {
		return nil, err
	}

	up, err := s.remote.AddAttachment(ctx, noteID, models.AttachmentInput{
		FileName: info.Name,
		FileType: contentType,
		FileSize: info.Size,
	})
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := netx.UploadToPresignedURL(ctx, nil, up.UploadURL, contentType, f, info.Size); err != nil {
		return nil, fmt.Errorf("upload %s: %w", info.Name, err)
	}
	return up.Attachment, nil
}

func (s *NoteService) AttachmentURL(ctx context.Context, noteID, attachmentID string) (string, error) {
	if !s.gate.HasSession() {
		return "", client.ErrNoSession
	}
	return s.remote.AttachmentURL(ctx, noteID, attachmentID)
}

// Clear deletes every note on the device. Cloud notes are untouched.
func (s *NoteService) Clear(ctx context.Context) error {
	if err := s.device.Clear(ctx); err != nil {
		return &TierError{Op: "clear", DeviceErr: err}
	}
	return nil
}

// PendingCount is the number of device records not yet in the cloud.
func (s *NoteService) PendingCount(ctx context.Context) int {
	pending, err := s.device.Pending(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reading pending notes failed", "error", err)
		return 0
	}
	return len(pending)
}
