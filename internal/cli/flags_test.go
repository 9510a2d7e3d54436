package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "info"},
		{"LogFormat", flags.LogFormat, "text"},
		{"DictProvider", flags.DictProvider, "youdao"},
		{"DictTimeout", flags.DictTimeout, 10 * time.Second},
		{"SpeechProvider", flags.SpeechProvider, "auto"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "alloy"},
		{"OpenAISpeed", flags.OpenAISpeed, 1.0},
		{"Scale", flags.Scale, 2.0},
		{"DeckName", flags.DeckName, "Glossa Vocabulary"},
		{"ComposeProvider", flags.ComposeProvider, "openai"},
		{"Language", flags.Language, "en"},
		{"Style", flags.Style, "formal"},
		{"Length", flags.Length, "medium"},
		{"Addr", flags.Addr, ":3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Boolean defaults should be false
	boolTests := []struct {
		name  string
		value bool
	}{
		{"ListModels", flags.ListModels},
		{"ReadAloud", flags.ReadAloud},
		{"AnnotateDraft", flags.AnnotateDraft},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should be false by default", tt.name)
			}
		})
	}

	if flags.Selections != nil {
		t.Errorf("Selections should be empty, got %v", flags.Selections)
	}
}
