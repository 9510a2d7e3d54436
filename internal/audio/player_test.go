package audio

import (
	"errors"
	"reflect"
	"testing"
)

func lookPathFor(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestSystemPlayerCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		file      string
		wantName  string
		wantArgs  []string
		wantErr   bool
	}{
		{
			name:     "macOS",
			goos:     "darwin",
			file:     "a.wav",
			wantName: "afplay",
			wantArgs: []string{"a.wav"},
		},
		{
			name:      "linux prefers ffplay for wav",
			goos:      "linux",
			installed: []string{"mpg123", "ffplay", "aplay"},
			file:      "a.wav",
			wantName:  "ffplay",
			wantArgs:  []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "a.wav"},
		},
		{
			name:      "linux prefers mpg123 for mp3",
			goos:      "linux",
			installed: []string{"mpg123", "ffplay"},
			file:      "a.mp3",
			wantName:  "mpg123",
			wantArgs:  []string{"-q", "a.mp3"},
		},
		{
			name:      "linux skips mpg123 for wav",
			goos:      "linux",
			installed: []string{"mpg123", "aplay"},
			file:      "a.wav",
			wantName:  "aplay",
			wantArgs:  []string{"-q", "a.wav"},
		},
		{
			name:    "linux without players",
			goos:    "linux",
			file:    "a.wav",
			wantErr: true,
		},
		{
			name:    "unsupported platform",
			goos:    "plan9",
			file:    "a.wav",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &SystemPlayer{goos: tt.goos, lookPath: lookPathFor(tt.installed...)}
			name, args, err := p.command(tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if name != tt.wantName {
				t.Errorf("command() name = %q, want %q", name, tt.wantName)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("command() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestSystemPlayerIsAvailable(t *testing.T) {
	p := &SystemPlayer{goos: "linux", lookPath: lookPathFor()}
	if err := p.IsAvailable(); err == nil {
		t.Error("IsAvailable() expected error without players")
	}

	p = &SystemPlayer{goos: "linux", lookPath: lookPathFor("paplay")}
	if err := p.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}
}
