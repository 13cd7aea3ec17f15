package cli

import (
	"context"
	"fmt"
)

// sync uploads device records. It runs only when asked.
func (a *App) sync(ctx context.Context, _ []string) error {
	report, err := a.notes.PushPending(ctx)
	if err != nil {
		return err
	}

	if len(report.Pushed)+len(report.Skipped)+len(report.Failed) == 0 {
		fmt.Fprintln(a.out, "Nothing to sync.")
		return nil
	}
	fmt.Fprintf(a.out, "Uploaded %d note(s).\n", len(report.Pushed))
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(a.out, "Skipped %d deleted note(s) that never reached the cloud.\n", n)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(a.out, "Failed: %s %q: %v\n", f.NoteID, f.Title, f.Err)
	}
	return nil
}

func (a *App) theme(ctx context.Context, _ []string) error {
	dark, err := a.prefs.ToggleTheme(ctx)
	if err != nil {
		return err
	}
	a.dark = dark
	if dark {
		fmt.Fprintln(a.out, "Dark theme on.")
	} else {
		fmt.Fprintln(a.out, "Light theme on.")
	}
	return nil
}

// clear wipes the device tier after confirmation.
func (a *App) clear(ctx context.Context, _ []string) error {
	if n := a.notes.PendingCount(ctx); n > 0 {
		fmt.Fprintf(a.out, "%d note(s) here are not in the cloud and will be lost.\n", n)
	}
	ok, err := Confirm(a.reader, "Delete every note on this device?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.notes.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Device notes deleted.")
	return nil
}
