package cli

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

func (a *App) share(ctx context.Context, args []string) error {
	id, err := needID(args, "share <id>")
	if err != nil {
		return err
	}
	if !a.gate.HasSession() {
		return client.ErrNoSession
	}
	email, err := GetSimpleText(a.reader, "Share with (email):", a.out)
	if err != nil {
		return err
	}
	perm, err := GetChoice(a.reader, "Permission",
		[]string{string(models.PermissionView), string(models.PermissionEdit)}, string(models.PermissionView), a.out)
	if err != nil {
		return err
	}

	g, err := a.notes.Share(ctx, id, email, models.Permission(perm))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Shared with %s (%s).\n", g.SharedWithEmail, g.Permission)
	return nil
}

func (a *App) shares(ctx context.Context, args []string) error {
	id, err := needID(args, "shares <id>")
	if err != nil {
		return err
	}
	grants, err := a.notes.Shares(ctx, id)
	if err != nil {
		return err
	}
	if len(grants) == 0 {
		fmt.Fprintln(a.out, "Not shared.")
		return nil
	}
	for _, g := range grants {
		fmt.Fprintf(a.out, "%s  %s  since %s\n", g.SharedWithEmail, g.Permission, g.SharedAt.Local().Format(dateLayout))
	}
	return nil
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (a *App) attach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: attach <id> <path>")
	}
	att, err := a.notes.Attach(ctx, args[0], args[1], contentType(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %s (%d bytes) as %s.\n", att.FileName, att.FileSize, att.ID)
	return nil
}

func (a *App) download(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: download <id> <file-id>")
	}
	url, err := a.notes.AttachmentURL(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, url)
	return nil
}
