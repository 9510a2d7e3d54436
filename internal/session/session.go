package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/dictionary"
	"codeberg.org/snonux/glossa/internal/export"
	"codeberg.org/snonux/glossa/internal/lang"
	"codeberg.org/snonux/glossa/internal/render"
	"codeberg.org/snonux/glossa/internal/resolver"
	"codeberg.org/snonux/glossa/internal/speech"
)

// ErrUnknownWord is returned for operations on text that has no entry.
var ErrUnknownWord = errors.New("session: word not in vocabulary")

// Deps are the ports a session drives.
type Deps struct {
	Dictionary dictionary.Dictionary
	Speech     speech.Engine     // nil disables readback
	Writer     export.Writer     // defaults to export.PDFWriter
	Rasterizer export.Rasterizer // defaults to a render.Rasterizer of the session
	FontPath   string            // font for the default rasterizer
	Export     *export.Config    // defaults to export.DefaultConfig
	Logger     *slog.Logger
}

// Session is the single owned state record of a reader.
type Session struct {
	id  string
	log *slog.Logger

	// edit is held by Export for the duration of the capture; document
	// replacement waits for it.
	edit sync.Mutex

	mu       sync.RWMutex
	document string
	language lang.Tag
	tokens   []lang.Token

	store    *annotation.Store
	resolver *resolver.Resolver
	speech   *speech.Controller
	pipeline *export.Pipeline
	layout   *render.Layout
}

// New creates an empty session
func New(deps Deps) (*Session, error) {
	if deps.Dictionary == nil {
		return nil, errors.New("session: dictionary is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		id:       uuid.NewString(),
		language: lang.Unknown,
		store:    annotation.NewStore(),
		layout:   render.NewLayout(nil),
	}
	s.log = logger.With("session", s.id)
	s.resolver = resolver.New(deps.Dictionary, s.store, s.log)

	engine := deps.Speech
	if engine == nil {
		engine = noEngine{}
	}
	s.speech = speech.NewController(engine, s.log)

	raster := deps.Rasterizer
	if raster == nil {
		r, err := render.NewRasterizer(s, deps.FontPath)
		if err != nil {
			return nil, err
		}
		raster = r
	}
	writer := deps.Writer
	if writer == nil {
		writer = export.PDFWriter{}
	}
	config := export.DefaultConfig()
	if deps.Export != nil {
		config = *deps.Export
	}
	s.pipeline = export.NewPipeline(raster, writer, config, s.log)

	return s, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// SetDocument replaces the document. Tokens are rebuilt and highlights
// cleared; the vocabulary is kept.
func (s *Session) SetDocument(text string) {
	s.edit.Lock()
	defer s.edit.Unlock()

	tag := lang.Detect(text)
	tokens := lang.Tokenize(text, tag)

	s.mu.Lock()
	s.document = text
	s.language = tag
	s.tokens = tokens
	s.mu.Unlock()

	s.store.ClearHighlights()
	s.speech.StopDocument()
	s.log.Debug("document replaced", slog.Int("bytes", len(text)), slog.String("language", string(tag)))
}

// Clear empties the document, the vocabulary and the highlights.
func (s *Session) Clear() {
	s.edit.Lock()
	defer s.edit.Unlock()

	s.mu.Lock()
	s.document = ""
	s.language = lang.Unknown
	s.tokens = nil
	s.mu.Unlock()

	s.store.ClearAll()
	s.speech.StopDocument()
	s.layout.SyncControls(nil)
}

// Document returns the current text.
func (s *Session) Document() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// Language returns the detected language of the whole document.
func (s *Session) Language() lang.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Tokens returns a copy of the display tokens.
func (s *Session) Tokens() []lang.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]lang.Token(nil), s.tokens...)
}

// Words returns the vocabulary, most recent first.
func (s *Session) Words() []annotation.Word {
	return s.store.Entries()
}

// Word returns the entry for text.
func (s *Session) Word(text string) (annotation.Word, bool) {
	return s.store.Get(text)
}

// IsHighlighted reports whether text is highlighted.
func (s *Session) IsHighlighted(text string) bool {
	return s.store.IsHighlighted(text)
}

// Highlights returns the highlighted texts in sorted order.
func (s *Session) Highlights() []string {
	return s.store.Highlights()
}

// Select resolves a selection.
func (s *Session) Select(ctx context.Context, raw string) resolver.Result {
	res := s.resolver.OnSelection(ctx, raw)
	if res.Outcome != resolver.Ignored {
		s.layout.SyncControls(s.store.Entries())
	}
	return res
}

// AddManual adds an entry typed by the reader without a lookup. It reports
// whether the entry was new.
func (s *Session) AddManual(text, meaning string) (annotation.Word, bool, error) {
	w, err := resolver.ManualWord(text, meaning)
	if err != nil {
		return annotation.Word{}, false, err
	}
	inserted := s.store.UpsertAndHighlight(w)
	if !inserted {
		w, _ = s.store.Get(w.Word)
	}
	s.layout.SyncControls(s.store.Entries())
	return w, inserted, nil
}

// Delete removes an entry and its highlight. It reports whether it existed.
func (s *Session) Delete(text string) bool {
	deleted := s.store.Delete(text)
	if deleted {
		s.layout.SyncControls(s.store.Entries())
	}
	return deleted
}

// ToggleReadAloud starts or stops whole-document readback.
func (s *Session) ToggleReadAloud(ctx context.Context) (speech.Playback, error) {
	return s.speech.Toggle(ctx, s.Document())
}

// SpeakWord reads an entry in its recorded language.
func (s *Session) SpeakWord(ctx context.Context, text string) (speech.Playback, error) {
	w, ok := s.store.Get(text)
	if !ok {
		return s.speech.Playback(), fmt.Errorf("%w: %q", ErrUnknownWord, text)
	}
	return s.speech.SpeakWord(ctx, w)
}

// StopSpeech cancels any readback.
func (s *Session) StopSpeech() {
	s.speech.Stop()
}

// Playback returns the speaking slot.
func (s *Session) Playback() speech.Playback {
	return s.speech.Playback()
}

// OnPlaybackChange registers fn for speaking slot transitions.
func (s *Session) OnPlaybackChange(fn func(speech.Playback)) {
	s.speech.OnChange(fn)
}

// View returns the session's headless export view.
func (s *Session) View() *render.Layout {
	s.layout.SyncControls(s.store.Entries())
	return s.layout
}

// Export writes view, or the session's own view when nil, to filename. The
// document cannot be replaced while the capture runs.
func (s *Session) Export(ctx context.Context, view export.View, filename string) (int, error) {
	if view == nil {
		view = s.View()
	}

	s.edit.Lock()
	defer s.edit.Unlock()

	return s.pipeline.Export(ctx, view, filename)
}

// noEngine is used when no speech engine is configured.
type noEngine struct{}

func (noEngine) Speak(context.Context, string, string) (speech.Handle, error) {
	return nil, errors.New("no speech engine configured")
}

func (noEngine) CancelActive() {}
