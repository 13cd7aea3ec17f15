package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

func categoryNames() []string {
	out := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, string(c))
	}
	return out
}

func parseReminder(v string) (*time.Time, error) {
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("reminder must look like %q or %q", dateTimeLayout, dateLayout)
}

func (a *App) list(ctx context.Context, args []string) error {
	notes, outcome := a.notes.List(ctx, parseListArgs(args))
	printOutcome(a.out, outcome)
	printNotes(a.out, notes)
	return nil
}

func (a *App) trash(ctx context.Context, _ []string) error {
	notes, outcome := a.notes.Trash(ctx)
	printOutcome(a.out, outcome)
	printNotes(a.out, notes)
	return nil
}

func (a *App) show(ctx context.Context, args []string) error {
	id, err := needID(args, "show <id>")
	if err != nil {
		return err
	}
	n, outcome, err := a.notes.Get(ctx, id)
	if err != nil {
		return err
	}
	printOutcome(a.out, outcome)
	printNote(a.out, n)
	return nil
}

func (a *App) add(ctx context.Context, _ []string) error {
	title, err := GetSimpleText(a.reader, "Title:", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = models.DefaultTitle
	}
	content, err := GetMultiline(a.reader, "Content:", a.out)
	if err != nil {
		return err
	}
	category, err := GetChoice(a.reader, "Category", categoryNames(), string(models.CategoryGeneral), a.out)
	if err != nil {
		return err
	}
	tags, err := GetSimpleText(a.reader, "Tags (comma separated, kept on this device):", a.out)
	if err != nil {
		return err
	}
	color, err := GetSimpleText(a.reader, "Color (optional, e.g. #ffcc00):", a.out)
	if err != nil {
		return err
	}
	reminder, err := GetSimpleText(a.reader, "Reminder (optional, "+dateTimeLayout+"):", a.out)
	if err != nil {
		return err
	}

	n := &models.Note{
		Title:    title,
		Content:  content,
		Category: models.Category(category),
		Tags:     splitTags(tags),
	}
	if color != "" {
		n.Color = &color
	}
	if reminder != "" {
		if n.ReminderDate, err = parseReminder(reminder); err != nil {
			return err
		}
	}

	saved, outcome, err := a.notes.Create(ctx, n)
	if err != nil {
		return err
	}
	printOutcome(a.out, outcome)
	fmt.Fprintf(a.out, "Note %s created.\n", saved.ID)
	return nil
}

func (a *App) edit(ctx context.Context, args []string) error {
	id, err := needID(args, "edit <id>")
	if err != nil {
		return err
	}
	current, _, err := a.notes.Get(ctx, id)
	if err != nil {
		return err
	}

	var patch models.NotePatch
	changed := false

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s] (empty keeps it):", current.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" && title != current.Title {
		patch.Title = &title
		changed = true
	}

	content, err := GetMultiline(a.reader, "New content (empty keeps it):", a.out)
	if err != nil {
		return err
	}
	if content != "" && content != current.Content {
		patch.Content = &content
		changed = true
	}

	category, err := GetChoice(a.reader, "Category", categoryNames(), string(current.Category), a.out)
	if err != nil {
		return err
	}
	if c := models.Category(category); c != current.Category {
		patch.Category = &c
		changed = true
	}

	tags, err := GetSimpleText(a.reader, fmt.Sprintf("Tags [%s] (empty keeps them, '-' clears):", strings.Join(current.Tags, ", ")), a.out)
	if err != nil {
		return err
	}
	switch tags {
	case "":
	case "-":
		patch.Tags = []string{}
		changed = true
	default:
		patch.Tags = splitTags(tags)
		changed = true
	}

	reminder, err := GetSimpleText(a.reader, "Reminder (empty keeps it):", a.out)
	if err != nil {
		return err
	}
	if reminder != "" {
		if patch.ReminderDate, err = parseReminder(reminder); err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		fmt.Fprintln(a.out, "Nothing changed.")
		return nil
	}

	_, outcome, err := a.notes.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	printOutcome(a.out, outcome)
	fmt.Fprintln(a.out, "Note updated.")
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := needID(args, "delete <id>")
	if err != nil {
		return err
	}
	outcome, err := a.notes.Delete(ctx, id)
	if err != nil {
		return err
	}
	printOutcome(a.out, outcome)
	fmt.Fprintln(a.out, "Moved to trash.")
	return nil
}

func (a *App) pin(ctx context.Context, args []string) error {
	id, err := needID(args, "pin <id>")
	if err != nil {
		return err
	}
	n, outcome, err := a.notes.TogglePin(ctx, id)
	if err != nil {
		return err
	}
	printOutcome(a.out, outcome)
	if n.IsPinned {
		fmt.Fprintln(a.out, "Pinned.")
	} else {
		fmt.Fprintln(a.out, "Unpinned.")
	}
	return nil
}

func (a *App) restore(ctx context.Context, args []string) error {
	id, err := needID(args, "restore <id>")
	if err != nil {
		return err
	}
	_, outcome, err := a.notes.Restore(ctx, id)
	if err != nil {
		return err
	}
	printOutcome(a.out, outcome)
	fmt.Fprintln(a.out, "Restored.")
	return nil
}
