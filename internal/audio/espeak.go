package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Speed     int // Speech speed in words per minute (default: 150)
	Pitch     int // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default espeak-ng settings
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// VoiceForLocale picks the espeak-ng voice for a speech locale
func VoiceForLocale(locale string) string {
	if locale == "zh-CN" {
		return "cmn" // Mandarin
	}
	return "en-us"
}

// ESpeakProvider implements Provider interface for espeak-ng. It writes WAV.
type ESpeakProvider struct {
	config *ESpeakConfig
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (Provider, error) {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	return &ESpeakProvider{config: config}, nil
}

// GenerateAudio generates a WAV file using espeak-ng
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text, locale, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	// Ensure output directory exists
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", p.args(text, locale, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

func (p *ESpeakProvider) args(text, locale, outputFile string) []string {
	args := []string{
		"-v", VoiceForLocale(locale),
		"-s", fmt.Sprintf("%d", clamp(p.config.Speed, 80, 450)),
		"-p", fmt.Sprintf("%d", clamp(p.config.Pitch, 0, 99)),
		"-a", fmt.Sprintf("%d", clamp(p.config.Amplitude, 0, 200)),
	}

	// Add word gap if specified
	if p.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", p.config.WordGap))
	}

	return append(args, "-w", outputFile, text)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
