package dictionary

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes when the breaker opens and for how long.
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// DefaultBreakerConfig opens after five transport failures for thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// Breaker stops calling a failing provider for a while. Provider error codes
// are answers, not outages, so only transport errors count as failures.
type Breaker struct {
	next Dictionary
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next with a circuit breaker
func NewBreaker(next Dictionary, config BreakerConfig, logger *slog.Logger) *Breaker {
	if config.ConsecutiveFailures == 0 {
		config.ConsecutiveFailures = DefaultBreakerConfig().ConsecutiveFailures
	}
	settings := gobreaker.Settings{
		Name:    "dictionary",
		Timeout: config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Lookup implements Dictionary.
func (b *Breaker) Lookup(ctx context.Context, req Request) (*Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Lookup(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

// State reports the breaker state, mostly for diagnostics.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
