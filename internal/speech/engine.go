package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrEmptyText is returned when there is nothing to read.
var ErrEmptyText = errors.New("speech: empty text")

// Handle tracks one utterance started by an Engine.
type Handle interface {
	// Done is closed when the utterance ends, naturally or by cancellation.
	Done() <-chan struct{}
	// Err reports why the utterance ended; nil for natural completion.
	Err() error
}

// Engine synthesises and plays speech. Speak must return once the utterance
// has started; completion is signalled through the Handle.
type Engine interface {
	Speak(ctx context.Context, text, locale string) (Handle, error)
	CancelActive()
}

// Failure wraps an engine error. The controller is Idle whenever it is reported.
type Failure struct {
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("speech: %v", f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Utterance is a Handle that engines complete exactly once.
type Utterance struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewUtterance creates an unfinished utterance handle
func NewUtterance() *Utterance {
	return &Utterance{done: make(chan struct{})}
}

// Finish records err and closes Done. Later calls are ignored.
func (u *Utterance) Finish(err error) {
	u.once.Do(func() {
		u.err = err
		close(u.done)
	})
}

// Done implements Handle.
func (u *Utterance) Done() <-chan struct{} {
	return u.done
}

// Err implements Handle. It is only meaningful after Done is closed.
func (u *Utterance) Err() error {
	<-u.done
	return u.err
}
