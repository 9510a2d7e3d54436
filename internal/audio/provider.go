package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio synthesises text in the given locale (zh-CN or en-US)
	// and saves it to outputFile
	GenerateAudio(ctx context.Context, text, locale, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // "openai", "espeak" or "auto"
	CacheDir string // Directory for cached OpenAI audio, empty disables caching

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed float64 // 0.25 to 4.0

	// espeak-ng settings
	ESpeak *ESpeakConfig
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "auto",
		OpenAIModel: "gpt-4o-mini-tts", // supports voice instructions
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
		ESpeak:      DefaultESpeakConfig(),
	}
}

// NewProvider creates the appropriate audio provider based on configuration.
// "auto" uses OpenAI behind a circuit breaker with espeak-ng as fallback, or
// espeak-ng alone when no OpenAI key is configured.
func NewProvider(config *Config, logger *slog.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config, logger)

	case "espeak":
		return NewESpeakProvider(config.ESpeak)

	case "auto", "":
		espeak, err := NewESpeakProvider(config.ESpeak)
		if err != nil {
			return nil, err
		}
		if config.OpenAIKey == "" {
			return espeak, nil
		}
		openai, err := NewOpenAIProvider(config, logger)
		if err != nil {
			return nil, err
		}
		return NewProviderWithFallback(NewBreakerProvider(openai, logger), espeak, logger), nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	log      *slog.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *slog.Logger) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		log:      logger,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text, locale, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, locale, outputFile)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.log.WarnContext(ctx, "primary speech provider failed, falling back",
			slog.String("primary", p.primary.Name()),
			slog.String("fallback", p.fallback.Name()),
			slog.String("error", err.Error()),
		)
		return p.fallback.GenerateAudio(ctx, text, locale, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
