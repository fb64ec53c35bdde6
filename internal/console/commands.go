package console

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pocketspese/internal/core"
	"pocketspese/internal/dashboard"
	"pocketspese/internal/entry"
	"pocketspese/internal/log"
	"pocketspese/internal/metrics"
)

func (s *Session) add(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: add <amount> <category> [date] [note]")
		return
	}

	date := s.app.Today().String()
	note := ""
	if len(args) > 2 {
		date = args[2]
	}
	if len(args) > 3 {
		note = strings.Join(args[3:], " ")
	}

	s.app.Form.Update(func(d *entry.Draft) {
		d.Amount = args[0]
		d.Category = args[1]
		d.Date = date
		d.Note = note
	})

	e, err := s.app.Form.Submit()
	if err != nil {
		var ve *entry.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(s.out, "%s: %s\n", ve.Title, ve.Message)
			return
		}
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "Added %s: %s %s on %s\n",
		e.ID, dashboard.FormatMoney(s.app.Config.CurrencySymbol, e.Amount), e.Category, e.Date)
}

func (s *Session) remove(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: rm <id>")
		return
	}
	if _, removed := s.app.Store.Remove(args[0]); !removed {
		fmt.Fprintf(s.out, "No expense with id %s.\n", args[0])
		return
	}
	fmt.Fprintf(s.out, "Removed %s.\n", args[0])
}

func (s *Session) dash(args []string) {
	filter := strings.Join(args, " ")
	if _, err := core.ParseFilter(filter); err != nil {
		fmt.Fprintf(s.out, "Unknown category %q.\n", filter)
		return
	}
	s.filter = filter
	s.live = true
	s.render()
}

func (s *Session) render() {
	select {
	case snap, ok := <-s.watch:
		if ok {
			s.seen = snap.Version
		}
	default:
	}

	v, err := s.app.Dashboard.Build(s.filter)
	if err != nil {
		s.logger.Error("Dashboard render failed", log.FieldOperation, log.OpRender, log.FieldError, err.Error())
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if v.Version > s.seen {
		s.seen = v.Version
	}
	renderDashboard(s.out, v)
}

// pendingPhoto is an open photo picker waiting for the user's choice.
type pendingPhoto struct {
	done   func(entry.PhotoResult)
	result <-chan entry.PhotoResult
	cancel context.CancelFunc
}

func (s *Session) photo(ctx context.Context, args []string) {
	if len(args) == 1 && strings.EqualFold(args[0], "cancel") {
		if s.pending == nil {
			fmt.Fprintln(s.out, "No photo picker is open.")
			return
		}
		s.pending.done(entry.Cancelled())
		s.finishPhoto("")
		return
	}

	if s.pending == nil {
		s.openPicker(ctx)
	}
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Photo picker open. Use 'photo <path>' to choose or 'photo cancel' to close it.")
		return
	}

	path := strings.Join(args, " ")
	ref, err := resolvePhoto(path)
	if err != nil {
		s.pending.done(entry.Failed(err))
	} else {
		s.pending.done(entry.Selected(ref))
	}
	s.finishPhoto(ref)
}

func (s *Session) openPicker(ctx context.Context) {
	pctx, cancel := context.WithCancel(ctx)
	p := &pendingPhoto{cancel: cancel}
	p.result = s.app.Form.RequestPhoto(pctx, entry.PhotoPickerFunc(func(_ context.Context, done func(entry.PhotoResult)) {
		p.done = done
	}))
	s.pending = p
}

// finishPhoto waits for the pending request's single result and reports it.
func (s *Session) finishPhoto(ref string) {
	p := s.pending
	s.pending = nil
	r := <-p.result
	p.cancel()

	switch r.Outcome {
	case entry.PhotoSelected:
		if s.app.Form.Draft().Photo != ref {
			fmt.Fprintln(s.out, "Photo discarded: the draft it was picked for is gone.")
			return
		}
		fmt.Fprintf(s.out, "Photo attached: %s\n", ref)
	case entry.PhotoCancelled:
		fmt.Fprintln(s.out, "Photo selection canceled.")
	case entry.PhotoFailed:
		fmt.Fprintf(s.out, "Photo Error: %v\n", r.Err)
	}
}

func (s *Session) closePicker() {
	if s.pending == nil {
		return
	}
	s.pending.cancel()
	<-s.pending.result
	s.pending = nil
}

// resolvePhoto turns a path or file:// URI into a file:// reference to an
// existing regular file.
func resolvePhoto(path string) (string, error) {
	path = strings.TrimPrefix(path, "file://")
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve photo path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("open photo: %s is not a file", abs)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func (s *Session) stats() {
	if s.app.Registry == nil {
		fmt.Fprintln(s.out, "Metrics are disabled.")
		return
	}
	st, err := metrics.ReadStats(s.app.Registry)
	if err != nil {
		s.logger.Error("Failed to read metrics", log.NewFields().WithError(err).ToSlice()...)
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	renderStats(s.out, s.app.Config.CurrencySymbol, st)
}
