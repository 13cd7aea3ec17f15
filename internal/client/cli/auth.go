package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

func (a *App) readPassword() (string, error) {
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) register(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "Email:", a.out)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Display name:", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	u, err := a.gate.Register(ctx, email, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s! Your notes now go to the cloud.\n", u.Username)
	a.hintPending(ctx)
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := GetSimpleText(a.reader, "Email:", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	u, err := a.gate.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", u.Username)
	a.hintPending(ctx)
	return nil
}

func (a *App) hintPending(ctx context.Context) {
	if n := a.notes.PendingCount(ctx); n > 0 {
		fmt.Fprintf(a.out, "%d note(s) on this device are not in the cloud yet. Run 'sync' to upload them.\n", n)
	}
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if a.gate.State() != models.AuthAuthenticated {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	if err := a.gate.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out. Notes on this device are kept.")
	return nil
}

func (a *App) skip(ctx context.Context, _ []string) error {
	if a.gate.State() == models.AuthAuthenticated {
		fmt.Fprintln(a.out, "Already signed in. Use 'logout' first.")
		return nil
	}
	if err := a.gate.Skip(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Notes will be kept on this device only.")
	return nil
}

func (a *App) status(ctx context.Context, _ []string) error {
	fmt.Fprintf(a.out, "Account:  %s\n", a.gate.State())
	if u := a.gate.User(); u != nil {
		fmt.Fprintf(a.out, "User:     %s <%s>\n", u.Username, u.Email)
	}
	mode := a.CurrentMode()
	if mode == ModeUnknown {
		mode = "checking"
	}
	fmt.Fprintf(a.out, "Server:   %s\n", mode)
	fmt.Fprintf(a.out, "Unsynced: %d\n", a.notes.PendingCount(ctx))
	return nil
}

func (a *App) profile(ctx context.Context, _ []string) error {
	p, err := a.gate.Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\n", p.User.Username, p.User.Email)
	fmt.Fprintf(a.out, "Member since %s\n", p.User.CreatedAt.Local().Format(dateLayout))
	if p.Stats != nil {
		fmt.Fprintf(a.out, "Notes: %d, pinned: %d\n", p.Stats.TotalNotes, p.Stats.PinnedNotes)
	}
	return nil
}

func (a *App) rename(ctx context.Context, _ []string) error {
	name, err := GetSimpleText(a.reader, "New display name:", a.out)
	if err != nil {
		return err
	}
	u, err := a.gate.UpdateProfile(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Display name is now %s.\n", u.Username)
	return nil
}
