package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/dictionary"
	"codeberg.org/snonux/glossa/internal/lang"
)

const (
	// NoTranslation is the meaning of a successful lookup without any translation.
	NoTranslation = "no translation"
	// LookupFailed is the meaning of a placeholder entry.
	LookupFailed = "lookup failed"
)

// ErrEmptySelection reports a selection that is empty after trimming.
var ErrEmptySelection = errors.New("resolver: empty selection")

// Outcome describes what a selection did to the store.
type Outcome int

const (
	// Ignored means the selection was empty.
	Ignored Outcome = iota
	// Highlighted means the text was already annotated.
	Highlighted
	// Resolved means a lookup succeeded and the entry was added.
	Resolved
	// Failed means the lookup failed and a placeholder was added.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Highlighted:
		return "highlighted"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the effect of one selection.
type Result struct {
	Word    annotation.Word
	Outcome Outcome
	Err     error // lookup error behind a Failed outcome
}

// Resolver resolves selections against a Dictionary and records them in a Store.
type Resolver struct {
	dict    dictionary.Dictionary
	store   *annotation.Store
	log     *slog.Logger
	pending singleflight.Group
}

// New creates a resolver
func New(dict dictionary.Dictionary, store *annotation.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		dict:  dict,
		store: store,
		log:   logger.With("component", "resolver"),
	}
}

// OnSelection handles one raw selection. It never returns an error: failed
// lookups degrade to a placeholder entry reported through the Result.
func (r *Resolver) OnSelection(ctx context.Context, raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Result{Outcome: Ignored}
	}

	if r.store.Highlight(text) {
		w, _ := r.store.Get(text)
		return Result{Word: w, Outcome: Highlighted}
	}

	v, _, shared := r.pending.Do(text, func() (interface{}, error) {
		return r.resolve(ctx, text), nil
	})
	res := v.(Result)
	if shared {
		r.log.DebugContext(ctx, "joined pending lookup", slog.String("text", text))
	}
	return res
}

// resolve runs inside the pending group so the key is released only after
// the store holds the result.
func (r *Resolver) resolve(ctx context.Context, text string) Result {
	// Another path may have added the text while this call was queued.
	if r.store.Highlight(text) {
		w, _ := r.store.Get(text)
		return Result{Word: w, Outcome: Highlighted}
	}

	tag := lang.Detect(text)
	req := dictionary.Request{Text: text, From: lang.SourceCode(tag)}

	// Lookups are not cancelled with the selection that started them.
	resp, err := r.dict.Lookup(context.WithoutCancel(ctx), req)
	if err == nil {
		err = resp.Err()
	}

	if err != nil {
		r.log.WarnContext(ctx, "lookup failed",
			slog.String("text", text),
			slog.String("error", err.Error()),
		)
		w := annotation.Word{Word: text, Meaning: LookupFailed, Language: tag}
		return r.record(w, Failed, err)
	}

	meaning, ok := resp.Meaning()
	if !ok {
		meaning = NoTranslation
	}
	w := annotation.Word{
		Word:     text,
		Phonetic: resp.Phonetic(),
		Meaning:  meaning,
		Language: tag,
	}
	return r.record(w, Resolved, nil)
}

func (r *Resolver) record(w annotation.Word, outcome Outcome, err error) Result {
	if !r.store.UpsertAndHighlight(w) {
		// Late result for text that was added independently: keep the existing entry.
		existing, _ := r.store.Get(w.Word)
		r.log.Debug("skipping late lookup result", slog.String("text", w.Word))
		return Result{Word: existing, Outcome: Highlighted}
	}
	return Result{Word: w, Outcome: outcome, Err: err}
}

// ManualWord builds an entry for text the reader annotated by hand.
func ManualWord(text, meaning string) (annotation.Word, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return annotation.Word{}, ErrEmptySelection
	}
	return annotation.Word{
		Word:     text,
		Meaning:  strings.TrimSpace(meaning),
		Language: lang.Detect(text),
	}, nil
}
