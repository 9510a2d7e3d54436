package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/lang"
)

// Kind says what an utterance reads.
type Kind int

const (
	// DocumentKind is whole-document readback.
	DocumentKind Kind = iota
	// WordKind is a single vocabulary entry.
	WordKind
)

// Playback is a snapshot of the speaking slot.
type Playback struct {
	Active    bool
	Utterance string // identity of the active utterance, empty when idle
	Kind      Kind
	Text      string
	Locale    string
}

// Controller serialises speech: at most one utterance is active at a time.
type Controller struct {
	engine Engine
	log    *slog.Logger

	mu       sync.Mutex
	active   Playback
	onChange func(Playback)
}

// NewController creates an idle controller
func NewController(engine Engine, logger *slog.Logger) *Controller {
	return &Controller{
		engine: engine,
		log:    logger.With("component", "speech"),
	}
}

// OnChange registers fn to be called after every state transition.
func (c *Controller) OnChange(fn func(Playback)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Playback returns the current state.
func (c *Controller) Playback() Playback {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Speak reads text in the locale of tag, cancelling any active utterance first.
func (c *Controller) Speak(ctx context.Context, text string, tag lang.Tag) (Playback, error) {
	return c.start(ctx, text, tag, WordKind)
}

// SpeakWord reads a vocabulary entry using its recorded language.
func (c *Controller) SpeakWord(ctx context.Context, w annotation.Word) (Playback, error) {
	return c.start(ctx, w.Word, w.Language, WordKind)
}

// Toggle stops any active utterance, or starts reading the whole document
// when idle.
func (c *Controller) Toggle(ctx context.Context, document string) (Playback, error) {
	if c.Playback().Active {
		c.Stop()
		return c.Playback(), nil
	}
	return c.start(ctx, document, lang.Detect(document), DocumentKind)
}

// Stop cancels the active utterance, if any.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.active.Active {
		c.mu.Unlock()
		return
	}
	c.engine.CancelActive()
	c.active = Playback{}
	notify := c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(Playback{})
	}
}

// StopDocument cancels the active utterance only if it is document readback.
func (c *Controller) StopDocument() {
	if c.Playback().Kind == DocumentKind {
		c.Stop()
	}
}

func (c *Controller) start(ctx context.Context, text string, tag lang.Tag, kind Kind) (Playback, error) {
	if strings.TrimSpace(text) == "" {
		return c.Playback(), ErrEmptyText
	}

	locale := lang.Locale(tag)

	c.mu.Lock()
	if c.active.Active {
		c.engine.CancelActive()
		c.active = Playback{}
	}

	handle, err := c.engine.Speak(ctx, text, locale)
	if err != nil {
		notify := c.onChange
		c.mu.Unlock()

		c.log.WarnContext(ctx, "speech failed to start",
			slog.String("locale", locale),
			slog.String("error", err.Error()),
		)
		if notify != nil {
			notify(Playback{})
		}
		return Playback{}, &Failure{Err: err}
	}

	state := Playback{
		Active:    true,
		Utterance: uuid.NewString(),
		Kind:      kind,
		Text:      text,
		Locale:    locale,
	}
	c.active = state
	notify := c.onChange
	c.mu.Unlock()

	c.log.DebugContext(ctx, "utterance started",
		slog.String("utterance", state.Utterance),
		slog.String("locale", locale),
	)
	if notify != nil {
		notify(state)
	}

	go c.watch(state.Utterance, handle)
	return state, nil
}

// watch ends the utterance when its handle completes, unless a newer
// utterance has taken the slot.
func (c *Controller) watch(id string, handle Handle) {
	<-handle.Done()

	c.mu.Lock()
	if c.active.Utterance != id {
		c.mu.Unlock()
		c.log.Debug("ignoring stale completion", slog.String("utterance", id))
		return
	}
	c.active = Playback{}
	notify := c.onChange
	c.mu.Unlock()

	if err := handle.Err(); err != nil {
		c.log.Warn("speech failed",
			slog.String("utterance", id),
			slog.String("error", err.Error()),
		)
	} else {
		c.log.Debug("utterance finished", slog.String("utterance", id))
	}
	if notify != nil {
		notify(Playback{})
	}
}
