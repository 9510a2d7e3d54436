package audio

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Player plays an audio file and returns when playback ends. Cancelling ctx
// stops playback.
type Player interface {
	Play(ctx context.Context, file string) error
	IsAvailable() error
}

// SystemPlayer plays audio through the platform's command line players
type SystemPlayer struct {
	goos     string
	lookPath func(string) (string, error)
}

// NewSystemPlayer creates a player for the running platform
func NewSystemPlayer() *SystemPlayer {
	return &SystemPlayer{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// Play runs the player command until it exits or ctx is cancelled
func (p *SystemPlayer) Play(ctx context.Context, file string) error {
	name, args, err := p.command(file)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// IsAvailable checks that some player exists
func (p *SystemPlayer) IsAvailable() error {
	_, _, err := p.command("probe.wav")
	return err
}

// command picks the player for file using platform-specific commands
func (p *SystemPlayer) command(file string) (string, []string, error) {
	switch p.goos {
	case "darwin": // macOS
		return "afplay", []string{file}, nil
	case "linux":
		// Try multiple commands in order of preference
		type candidate struct {
			name string
			args []string
		}
		candidates := []candidate{
			{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", file}},
			{"play", []string{"-q", file}}, // SoX
			{"paplay", []string{file}},
			{"aplay", []string{"-q", file}},
		}
		// mpg123 handles MP3 files best but cannot play WAV
		if strings.EqualFold(filepath.Ext(file), ".mp3") {
			candidates = append([]candidate{{"mpg123", []string{"-q", file}}}, candidates...)
		}
		for _, c := range candidates {
			if _, err := p.lookPath(c.name); err == nil {
				return c.name, c.args, nil
			}
		}
		return "", nil, fmt.Errorf("no audio player found. Install ffplay, sox, paplay, or aplay")
	case "windows":
		// SoundPlayer blocks until the WAV file has played
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", strings.ReplaceAll(file, "'", "''"))
		return "powershell", []string{"-NoProfile", "-Command", script}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}
