// Package entry implements the expense entry workflow: a draft that the user
// fills in, validation of that draft and its submission to the store.
package entry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pocketspese/internal/core"
	"pocketspese/internal/ids"
	"pocketspese/internal/log"
	"pocketspese/internal/store"
)

// Draft holds the raw, unvalidated form input.
type Draft struct {
	Amount   string
	Category string
	Date     string // YYYY-MM-DD
	Note     string
	Photo    string
}

// ValidationError is a user-facing rejection of a draft. It wraps the core
// sentinel that caused it.
type ValidationError struct {
	Field   string
	Title   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Title + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Adder is the part of the store the form writes to.
type Adder interface {
	Add(e core.Expense) (store.Snapshot, error)
}

// Validate turns a draft into an expense without an id. Checks run in the
// order the user sees the fields: amount, category, date.
func Validate(d Draft) (core.Expense, error) {
	amount, err := core.ParseMoney(d.Amount)
	if err != nil {
		return core.Expense{}, &ValidationError{
			Field:   "amount",
			Title:   "Invalid Amount",
			Message: "Please enter a valid amount.",
			Err:     err,
		}
	}

	category, err := core.ParseCategory(d.Category)
	if err != nil {
		return core.Expense{}, &ValidationError{
			Field:   "category",
			Title:   "Invalid Category",
			Message: "Please select a category.",
			Err:     err,
		}
	}

	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Expense{}, &ValidationError{
			Field:   "date",
			Title:   "Invalid Date",
			Message: "Please enter a date as YYYY-MM-DD.",
			Err:     err,
		}
	}

	return core.Expense{
		Amount:   amount,
		Category: category,
		Date:     date,
		Note:     strings.TrimSpace(d.Note),
		Photo:    d.Photo,
	}, nil
}

// Form is the stateful entry workflow for one screen. It is safe for
// concurrent use; photo completions may arrive on any goroutine.
type Form struct {
	mu     sync.Mutex
	draft  Draft
	gen    uint64 // bumped on every reset; stale photo results are dropped
	store  Adder
	ids    ids.Generator
	now    func() time.Time
	logger *log.Logger
}

// NewForm creates a form with a fresh draft dated today.
func NewForm(s Adder, gen ids.Generator, now func() time.Time, logger *log.Logger) *Form {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	f := &Form{
		store:  s,
		ids:    gen,
		now:    now,
		logger: logger.WithComponent(log.ComponentEntry),
	}
	f.resetLocked()
	return f
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Update edits the draft in place.
func (f *Form) Update(fn func(*Draft)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.draft)
}

// Reset clears the draft and dates it today. Pending photo requests will no
// longer attach to it.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Form) resetLocked() {
	f.gen++
	f.draft = Draft{Date: core.DateOf(f.now()).String()}
}

// Submit validates the draft, assigns a fresh id and adds the expense to the
// store. On a validation error the store and the draft are left untouched.
// On success the draft is reset.
func (f *Form) Submit() (core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, err := Validate(f.draft)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			f.logger.Info("Expense draft rejected",
				log.FieldOperation, log.OpValidate,
				log.FieldField, ve.Field,
				log.FieldError, ve.Err.Error())
		}
		return core.Expense{}, err
	}

	e.ID = f.ids.NewID()
	if err := e.Validate(); err != nil {
		f.logger.Error("Generated expense is invalid", log.NewFields().
			WithError(err).
			WithOperation(log.OpValidate).
			ToSlice()...)
		return core.Expense{}, fmt.Errorf("submit expense: %w", err)
	}
	if _, err := f.store.Add(e); err != nil {
		fields := log.NewFields().WithError(err).WithOperation(log.OpAdd)
		fields[log.FieldExpenseID] = e.ID
		f.logger.Error("Failed to add expense", fields.ToSlice()...)
		return core.Expense{}, fmt.Errorf("submit expense: %w", err)
	}

	f.logger.Info("Expense submitted", log.NewFields().
		WithExpense(e.ID, e.Amount.Cents, e.Category.String(), e.Date.String(), e.HasPhoto()).
		WithOperation(log.OpAdd).
		ToSlice()...)

	f.resetLocked()
	return e, nil
}

// RequestPhoto asks picker for a photo to attach to the current draft.
//
// Exactly one result is applied and delivered on the returned channel, which is
// then closed: the first of the picker's completions or, if ctx ends first,
// PhotoCancelled. A selected photo is attached only if the draft has not been
// reset or submitted in the meantime.
func (f *Form) RequestPhoto(ctx context.Context, picker PhotoPicker) <-chan PhotoResult {
	f.mu.Lock()
	gen := f.gen
	f.mu.Unlock()

	c := newCompletion(func(r PhotoResult) { f.applyPhoto(gen, r) })
	out := make(chan PhotoResult, 1)
	go func() {
		select {
		case <-c.done:
		case <-ctx.Done():
			f.logger.InfoContext(ctx, "Photo request ended before a choice was made",
				log.FieldOperation, log.OpPhoto,
				log.FieldError, ctx.Err().Error())
			c.complete(Cancelled())
		}
		out <- c.result
		close(out)
	}()

	picker.PickPhoto(ctx, c.complete)
	return out
}

func (f *Form) applyPhoto(gen uint64, r PhotoResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Outcome {
	case PhotoSelected:
		if gen != f.gen {
			f.logger.Info("Dropping photo for a draft that no longer exists", log.FieldOperation, log.OpPhoto)
			return
		}
		f.draft.Photo = r.Ref
		f.logger.Debug("Photo attached to draft", log.FieldOperation, log.OpPhoto)
	case PhotoCancelled:
		f.logger.Info("Photo selection canceled", log.FieldOperation, log.OpPhoto)
	case PhotoFailed:
		msg := "unknown error"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		f.logger.Error("Photo selection failed", log.FieldOperation, log.OpPhoto, log.FieldError, msg)
	}
}
