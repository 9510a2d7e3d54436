package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerProvider stops calling a failing provider for a while so the
// fallback answers immediately instead of waiting on each timeout.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps next with a circuit breaker that opens after three
// consecutive failures for one minute
func NewBreakerProvider(next Provider, logger *slog.Logger) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:    "speech-" + next.Name(),
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// Cancelled utterances are not provider failures.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &BreakerProvider{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// GenerateAudio implements Provider
func (b *BreakerProvider) GenerateAudio(ctx context.Context, text, locale, outputFile string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		if err := b.next.GenerateAudio(ctx, text, locale, outputFile); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		return nil, nil
	})
	return err
}

// Name returns the provider name
func (b *BreakerProvider) Name() string {
	return b.next.Name()
}

// IsAvailable reports an open breaker as unavailable
func (b *BreakerProvider) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: circuit open", b.next.Name())
	}
	return b.next.IsAvailable()
}
