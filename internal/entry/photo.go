package entry

import (
	"context"
	"sync"
)

// PhotoOutcome is how a photo request finished.
type PhotoOutcome int

const (
	PhotoSelected PhotoOutcome = iota
	PhotoCancelled
	PhotoFailed
)

func (o PhotoOutcome) String() string {
	switch o {
	case PhotoSelected:
		return "selected"
	case PhotoCancelled:
		return "cancelled"
	case PhotoFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PhotoResult is the single completion of a photo request. Ref is set only for
// PhotoSelected, Err only for PhotoFailed.
type PhotoResult struct {
	Outcome PhotoOutcome
	Ref     string
	Err     error
}

func Selected(ref string) PhotoResult { return PhotoResult{Outcome: PhotoSelected, Ref: ref} }
func Cancelled() PhotoResult { return PhotoResult{Outcome: PhotoCancelled} }
func Failed(err error) PhotoResult { return PhotoResult{Outcome: PhotoFailed, Err: err} }

// PhotoPicker asks the platform for a photo. Implementations call done once
// the user picks, cancels or an error occurs, possibly on another goroutine
// and possibly after PickPhoto has returned.
type PhotoPicker interface {
	PickPhoto(ctx context.Context, done func(PhotoResult))
}

// PhotoPickerFunc adapts a function to PhotoPicker.
type PhotoPickerFunc func(ctx context.Context, done func(PhotoResult))

func (f PhotoPickerFunc) PickPhoto(ctx context.Context, done func(PhotoResult)) {
	f(ctx, done)
}

// completion records the first result it is given and drops the rest.
type completion struct {
	once   sync.Once
	done   chan struct{}
	result PhotoResult
	apply  func(PhotoResult)
}

func newCompletion(apply func(PhotoResult)) *completion {
	return &completion{done: make(chan struct{}), apply: apply}
}

func (c *completion) complete(r PhotoResult) {
	c.once.Do(func() {
		c.result = r
		c.apply(r)
		close(c.done)
	})
}
