package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"codeberg.org/snonux/glossa/internal/speech"
)

// Engine implements the speech engine port: it synthesises each utterance
// to temporary WAV files chunk by chunk and plays them in order.
type Engine struct {
	provider Provider
	player   Player
	tempDir  string
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewEngine creates a speech engine. An empty tempDir uses the system default.
func NewEngine(provider Provider, player Player, tempDir string, logger *slog.Logger) *Engine {
	return &Engine{
		provider: provider,
		player:   player,
		tempDir:  tempDir,
		log:      logger.With("component", "audio"),
	}
}

// Speak starts an utterance and returns without waiting for playback.
func (e *Engine) Speak(ctx context.Context, text, locale string) (speech.Handle, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}
	if err := e.provider.IsAvailable(); err != nil {
		return nil, fmt.Errorf("speech provider unavailable: %w", err)
	}
	if err := e.player.IsAvailable(); err != nil {
		return nil, err
	}

	// Utterances outlive the request that started them; only CancelActive stops them.
	uctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.cancel = cancel
	e.mu.Unlock()

	u := speech.NewUtterance()
	go func() {
		defer cancel()
		u.Finish(e.run(uctx, text, locale))
	}()
	return u, nil
}

// CancelActive stops synthesis and playback of the current utterance.
func (e *Engine) CancelActive() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) run(ctx context.Context, text, locale string) error {
	chunks := SplitText(text, MaxChunkRunes)
	e.log.DebugContext(ctx, "speaking",
		slog.String("provider", e.provider.Name()),
		slog.String("locale", locale),
		slog.Int("chunks", len(chunks)),
	)

	for _, chunk := range chunks {
		if err := e.speakChunk(ctx, chunk, locale); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
	return nil
}

func (e *Engine) speakChunk(ctx context.Context, chunk, locale string) error {
	f, err := os.CreateTemp(e.tempDir, "glossa-*.wav")
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	file := f.Name()
	f.Close()
	defer os.Remove(file)

	if err := e.provider.GenerateAudio(ctx, chunk, locale, file); err != nil {
		return err
	}
	return e.player.Play(ctx, file)
}
