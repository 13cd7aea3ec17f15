package services

import (
	"errors"
	"fmt"
	"strings"
)

// Tier names where a note ended up, or where a read was answered from.
type Tier string

const (
	TierCloud  Tier = "cloud"
	TierDevice Tier = "device"
)

type OutcomeKind string

const (
	OutcomeSyncedToCloud            OutcomeKind = "synced-to-cloud"
	OutcomeSavedLocally             OutcomeKind = "saved-locally"
	OutcomeSavedLocallyAfterFailure OutcomeKind = "saved-locally-after-failure"

	OutcomeFromCloud              OutcomeKind = "from-cloud"
	OutcomeFromDevice             OutcomeKind = "from-device"
	OutcomeFromDeviceAfterFailure OutcomeKind = "from-device-after-failure"
)

// Outcome tells the user which tier holds the result of an operation.
// RemoteErr is set when a cloud call failed and the device was used instead.
type Outcome struct {
	Kind      OutcomeKind
	Tier      Tier
	RemoteErr error
}

func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeSyncedToCloud:
		return "Synced to cloud."
	case OutcomeSavedLocally:
		return "Saved on this device (not signed in)."
	case OutcomeSavedLocallyAfterFailure:
		return "Cloud unavailable, saved on this device only. Nothing is retried automatically: run 'sync' to upload later."
	case OutcomeFromCloud:
		return "Showing cloud notes."
	case OutcomeFromDevice:
		return "Showing notes on this device."
	case OutcomeFromDeviceAfterFailure:
		return "Cloud unavailable, showing notes on this device."
	}
	return string(o.Kind)
}

// ErrNotOnDevice means a device fallback found no record to act on.
var ErrNotOnDevice = errors.New("no such note on this device")

// TierError reports that the device tier failed to hold the data. It wraps
// the device failure and, when the cloud was tried first, the remote one.
type TierError struct {
	Op        string
	NoteID    string
	DeviceErr error
	RemoteErr error
}

func (e *TierError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.Op)
	if e.NoteID != "" {
		fmt.Fprintf(&b, " %s", e.NoteID)
	}
	fmt.Fprintf(&b, ": not saved on device: %v", e.DeviceErr)
	if e.RemoteErr != nil {
		fmt.Fprintf(&b, " (cloud failed first: %v)", e.RemoteErr)
	}
	return b.String()
}

func (e *TierError) Unwrap() []error {
	errs := []error{e.DeviceErr}
	if e.RemoteErr != nil {
		errs = append(errs, e.RemoteErr)
	}
	return errs
}

// Tier is always the device: it is the tier that failed to hold the data.
func (e *TierError) Tier() Tier {
	return TierDevice
}
