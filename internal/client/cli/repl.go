package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// command is one REPL verb. run receives the words after the verb.
type command struct {
	name    string
	aliases []string
	usage   string
	group   string
	run     func(ctx context.Context, args []string) error
}

func (c command) matches(word string) bool {
	if word == c.name {
		return true
	}
	for _, a := range c.aliases {
		if word == a {
			return true
		}
	}
	return false
}

var groups = []string{"Account", "Reading", "Editing", "Sharing and files", "Other"}

func printHelp(w io.Writer, cmds []command) {
	for _, g := range groups {
		fmt.Fprintf(w, "%s:\n", g)
		for _, c := range cmds {
			if c.group == g {
				fmt.Fprintf(w, "  %s\n", c.usage)
			}
		}
	}
	fmt.Fprintln(w, "  help\n  exit | quit")
}

// runREPL reads one line at a time from reader and dispatches the first
// word to cmds. Errors returned by a command go to report and the loop
// continues. It returns on EOF, on "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, cmds []command, promptFn func() string, report func(error), reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(w, promptFn())

		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		word, args := strings.ToLower(parts[0]), parts[1:]

		switch word {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help", "?":
			printHelp(w, cmds)
			continue
		}

		found := false
		for _, c := range cmds {
			if c.matches(word) {
				found = true
				if err := c.run(ctx, args); err != nil {
					report(err)
				}
				break
			}
		}
		if !found {
			fmt.Fprintln(w, "Unknown command:", word, "(type 'help')")
		}
	}
}
