// Package console is a line-oriented front end for an expense session: it
// reads commands, drives the entry form and prints the dashboard.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pocketspese/internal/app"
	"pocketspese/internal/log"
	"pocketspese/internal/store"
)

const prompt = "> "

const helpText = `Commands:
  add <amount> <category> [date] [note]   record an expense (date defaults to today)
  photo [path]                            open the photo picker, or pick path
  photo cancel                            close the photo picker
  draft                                   show the pending draft
  rm <id>                                 delete an expense
  dash [category]                         show this month's dashboard
  list                                    list every expense
  stats                                   show session statistics
  help                                    show this help
  quit                                    end the session
Categories: Food, Transport, Shopping, Bills, Other
`

var errQuit = errors.New("quit")

// Session runs commands against one App.
type Session struct {
	app    *app.App
	in     io.Reader
	out    io.Writer
	logger *log.Logger

	watch   <-chan store.Snapshot
	seen    uint64
	live    bool // re-render the dashboard when the store changes
	filter  string
	pending *pendingPhoto
}

func New(a *app.App, in io.Reader, out io.Writer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{
		app:    a,
		in:     in,
		out:    out,
		logger: logger.WithComponent(log.ComponentConsole),
	}
}

// Run reads commands until input ends, the user quits or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watch, stopWatch := s.app.Store.Watch()
	defer stopWatch()
	s.watch = watch
	s.seen = (<-watch).Version

	defer s.closePicker()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	s.logger.InfoContext(ctx, "Console session started", log.FieldVersion, s.seen)
	fmt.Fprint(s.out, "Type 'help' for commands.\n"+prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						s.logger.ErrorContext(ctx, "Failed to read input", log.NewFields().WithError(err).ToSlice()...)
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if err := s.Exec(ctx, line); errors.Is(err, errQuit) {
				fmt.Fprintln(s.out, "Bye.")
				return nil
			}
			fmt.Fprint(s.out, prompt)
		}
	}
}

// Exec runs a single command line. Errors meant for the user are printed,
// not returned.
func (s *Session) Exec(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		s.logger.WarnContext(ctx, "Unparseable command line", log.NewFields().
			WithError(err).
			WithOperation(log.OpParse).
			ToSlice()...)
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return nil
	}
	if len(args) == 0 {
		return nil
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "add":
		s.add(rest)
	case "photo":
		s.photo(ctx, rest)
	case "draft":
		renderDraft(s.out, s.app.Form.Draft())
	case "rm", "remove":
		s.remove(rest)
	case "dash", "dashboard":
		s.dash(rest)
	case "list", "ls":
		s.live = false
		renderList(s.out, s.app.Config.CurrencySymbol, s.app.Store.Snapshot().Collection.Expenses())
	case "stats":
		s.stats()
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "quit", "exit", "q":
		return errQuit
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", args[0])
	}

	s.refresh()
	return nil
}

// refresh runs after every command and re-renders the live dashboard if the
// store moved on since the last render. The session is the only writer, so
// polling the watch channel here sees every change.
func (s *Session) refresh() {
	select {
	case snap, ok := <-s.watch:
		if !ok || snap.Version == s.seen {
			return
		}
		s.seen = snap.Version
		if s.live {
			fmt.Fprintln(s.out)
			s.render()
		}
	default:
	}
}
