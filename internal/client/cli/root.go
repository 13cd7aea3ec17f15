package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

const (
	ansiCyan  = "\033[36m"
	ansiReset = "\033[0m"
)

func (a *App) commands() []command {
	return []command{
		{name: "register", usage: "register               create an account and sign in", group: "Account", run: a.register},
		{name: "login", usage: "login                  sign in", group: "Account", run: a.login},
		{name: "logout", usage: "logout                 sign out (device notes stay)", group: "Account", run: a.logout},
		{name: "skip", usage: "skip                   keep notes on this device only", group: "Account", run: a.skip},
		{name: "status", usage: "status                 show account, connectivity and unsynced notes", group: "Account", run: a.status},
		{name: "profile", usage: "profile                show the account and note counts", group: "Account", run: a.profile},
		{name: "rename", usage: "rename                 change the display name", group: "Account", run: a.rename},

		{name: "list", aliases: []string{"l", "ls"}, usage: "list [text] [category:<c>] [sort:title|date] [asc]", group: "Reading", run: a.list},
		{name: "show", usage: "show <id>              print one note", group: "Reading", run: a.show},
		{name: "trash", usage: "trash                  list deleted notes", group: "Reading", run: a.trash},

		{name: "add", aliases: []string{"new"}, usage: "add                    write a new note", group: "Editing", run: a.add},
		{name: "edit", usage: "edit <id>              change a note", group: "Editing", run: a.edit},
		{name: "delete", aliases: []string{"rm"}, usage: "delete <id>            move a note to the trash", group: "Editing", run: a.delete},
		{name: "pin", usage: "pin <id>               pin or unpin a note", group: "Editing", run: a.pin},
		{name: "restore", usage: "restore <id>           bring a note back from the trash", group: "Editing", run: a.restore},

		{name: "share", usage: "share <id>             share a note with another account", group: "Sharing and files", run: a.share},
		{name: "shares", usage: "shares <id>            list who a note is shared with", group: "Sharing and files", run: a.shares},
		{name: "attach", usage: "attach <id> <path>     upload a file to a note", group: "Sharing and files", run: a.attach},
		{name: "download", usage: "download <id> <file-id> print a download link", group: "Sharing and files", run: a.download},

		{name: "sync", usage: "sync                   upload notes kept on this device", group: "Other", run: a.sync},
		{name: "theme", usage: "theme                  switch between light and dark prompt", group: "Other", run: a.theme},
		{name: "clear", usage: "clear                  delete every note on this device", group: "Other", run: a.clear},
	}
}

func (a *App) getStatus() string {
	s := "guest"
	switch a.gate.State() {
	case models.AuthAuthenticated:
		if u := a.gate.User(); u != nil {
			s = u.Username
		}
	case models.AuthSkipped:
		s = "device"
	}
	if m := a.CurrentMode(); m != ModeUnknown {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) prompt() string {
	p := fmt.Sprintf("nk %s> ", a.getStatus())
	if a.dark {
		return ansiCyan + p + ansiReset
	}
	return p
}

// Root prints the welcome banner and runs the command loop.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to NoteKeeper (type 'help' for commands)")

	if dark, err := a.prefs.DarkTheme(ctx); err == nil {
		a.dark = dark
	}

	if a.gate.State() == models.AuthUnauthenticated {
		fmt.Fprintln(a.out, "You are not signed in. Notes are kept on this device until you 'login' or 'register'.")
		fmt.Fprintln(a.out, "Type 'skip' to stop seeing this message.")
	}

	runREPL(ctx, a.commands(), a.prompt, a.report, a.reader, a.out)
}

// report prints err in terms of what happened to the user's data.
func (a *App) report(err error) {
	var (
		tierErr *services.TierError
		verr    *common.ValidationError
		apiErr  *client.APIError
	)

	switch {
	case errors.As(err, &tierErr):
		fmt.Fprintf(a.out, "Error (%s): %v\n", tierErr.Tier(), tierErr)
	case errors.As(err, &verr):
		fmt.Fprintln(a.out, "Validation failed:")
		for _, f := range verr.Fields {
			fmt.Fprintf(a.out, "  %s: %s\n", f.Field, f.Message)
		}
	case errors.Is(err, client.ErrNoSession):
		fmt.Fprintln(a.out, "Sign in first ('login' or 'register').")
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Not authorized. Check your credentials or sign in again.")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Not found.")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable. Try again later.")
	case errors.As(err, &apiErr):
		fmt.Fprintf(a.out, "Server error: %s\n", apiErr.Message)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	a.logger.Debug(context.Background(), "command failed", "error", err)
}

func needID(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return args[0], nil
}
