package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

func printOutcome(w io.Writer, o services.Outcome) {
	fmt.Fprintln(w, o.Message())
}

func noteFlags(n *models.Note) string {
	var flags []string
	if n.SyncState != "" && n.SyncState != models.SyncSynced {
		flags = append(flags, string(n.SyncState))
	}
	if len(n.Attachments) > 0 {
		flags = append(flags, fmt.Sprintf("%d file(s)", len(n.Attachments)))
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}

func printNoteLine(w io.Writer, n *models.Note) {
	pin := " "
	if n.IsPinned {
		pin = "*"
	}
	fmt.Fprintf(w, "%s %s  %-24s [%s] %s%s\n",
		pin, n.ID, n.Title, n.Category, n.UpdatedAt.Local().Format(dateTimeLayout), noteFlags(n))
}

func printNotes(w io.Writer, notes []*models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}
	for _, n := range notes {
		printNoteLine(w, n)
	}
	fmt.Fprintf(w, "%d note(s)\n", len(notes))
}

func printNote(w io.Writer, n *models.Note) {
	fmt.Fprintf(w, "ID:       %s\n", n.ID)
	fmt.Fprintf(w, "Title:    %s\n", n.Title)
	fmt.Fprintf(w, "Category: %s\n", n.Category)
	if n.IsPinned {
		fmt.Fprintln(w, "Pinned:   yes")
	}
	if n.Color != nil && *n.Color != "" {
		fmt.Fprintf(w, "Color:    %s\n", *n.Color)
	}
	if n.ReminderDate != nil {
		fmt.Fprintf(w, "Reminder: %s\n", n.ReminderDate.Local().Format(dateTimeLayout))
	}
	if len(n.Tags) > 0 {
		fmt.Fprintf(w, "Tags:     %s\n", strings.Join(n.Tags, ", "))
	}
	if n.SyncState != "" && n.SyncState != models.SyncSynced {
		fmt.Fprintf(w, "Sync:     %s\n", n.SyncState)
	}
	fmt.Fprintf(w, "Updated:  %s\n", n.UpdatedAt.Local().Format(dateTimeLayout))
	for _, att := range n.Attachments {
		fmt.Fprintf(w, "File:     %s  %s (%s, %d bytes)\n", att.ID, att.FileName, att.FileType, att.FileSize)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, n.Content)
}

// parseListArgs turns "list" words into a query. category:, sort: and
// asc/desc are options; every other word is part of the search text.
func parseListArgs(args []string) models.ListQuery {
	var q models.ListQuery
	var search []string
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "category:"):
			q.Category = strings.TrimPrefix(lower, "category:")
		case lower == "sort:title":
			q.SortBy = models.SortByTitle
		case lower == "sort:date":
			q.SortBy = models.SortByDate
		case lower == "asc":
			q.Ascending = true
		case lower == "desc":
			q.Ascending = false
		default:
			search = append(search, arg)
		}
	}
	q.Search = strings.Join(search, " ")
	return q
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
