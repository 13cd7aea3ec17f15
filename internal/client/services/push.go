package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// PushFailure is one record PushPending could not upload.
type PushFailure struct {
	NoteID string
	Title  string
	Err    error
}

type PushReport struct {
	Pushed  []string
	Skipped []string
	Failed  []PushFailure
}

// PushPending uploads device records to the cloud on explicit request.
// Uploaded records are removed from the device. Records that never reached
// the cloud and were trashed on the device stay in the device trash. A
// record whose id the cloud refuses with a conflict was trashed there since
// the edit; it is dropped from the device and reported as skipped.
func (s *NoteService) PushPending(ctx context.Context) (*PushReport, error) {
	if !s.gate.HasSession() {
		return nil, client.ErrNoSession
	}

	pending, err := s.device.Pending(ctx)
	if err != nil {
		return nil, &TierError{Op: "sync", DeviceErr: err}
	}

	report := &PushReport{}
	for _, n := range pending {
		if n.SyncState == models.SyncLocalOnly && n.Trashed() {
			report.Skipped = append(report.Skipped, n.ID)
			continue
		}

		err := s.push(ctx, n)
		if errors.Is(err, common.ErrorConflict) {
			// the cloud holds this id in its trash, or under another account
			s.logger.Warn(ctx, "push superseded by cloud", "note_id", n.ID, "error", err)
			if _, rerr := s.device.Remove(ctx, n.ID); rerr != nil {
				report.Failed = append(report.Failed, PushFailure{
					NoteID: n.ID, Title: n.Title,
					Err: &TierError{Op: "sync", NoteID: n.ID, DeviceErr: rerr},
				})
				continue
			}
			s.forget(n.ID)
			report.Skipped = append(report.Skipped, n.ID)
			continue
		}
		if err != nil {
			s.logger.Warn(ctx, "push failed", "note_id", n.ID, "error", err)
			report.Failed = append(report.Failed, PushFailure{NoteID: n.ID, Title: n.Title, Err: err})
			continue
		}

		if _, err := s.device.Remove(ctx, n.ID); err != nil {
			report.Failed = append(report.Failed, PushFailure{
				NoteID: n.ID, Title: n.Title,
				Err: &TierError{Op: "sync", NoteID: n.ID, DeviceErr: err},
			})
			continue
		}
		s.forget(n.ID)
		report.Pushed = append(report.Pushed, n.ID)
	}
	return report, nil
}

func (s *NoteService) push(ctx context.Context, n *models.Note) error {
	if n.Trashed() {
		err := s.remote.DeleteNote(ctx, n.ID)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	if n.SyncState == models.SyncPendingPush {
		_, err := s.remote.UpdateNote(ctx, n.ID, models.PatchFrom(n))
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
	}

	// create is idempotent for active ids this account already owns
	_, err := s.remote.CreateNote(ctx, n)
	return err
}
