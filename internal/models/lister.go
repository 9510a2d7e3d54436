package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Catalog groups model IDs by what glossa uses them for
type Catalog struct {
	TTS  []string
	Chat []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the public API.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Fetch retrieves and categorizes the models visible to the API key
func (l *Lister) Fetch(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .glossa.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	catalog := Categorize(ids)
	return &catalog, nil
}

// Categorize sorts model IDs into TTS and chat models. Others are dropped.
func Categorize(ids []string) Catalog {
	var c Catalog
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.TTS = append(c.TTS, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime") || strings.Contains(id, "transcribe"):
			// Speech-to-text and realtime models cannot serve either role
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	sort.Strings(c.TTS)
	sort.Strings(c.Chat)
	return c
}

// Print writes the catalog in the CLI's listing format
func Print(w io.Writer, c *Catalog) {
	fmt.Fprintln(w, "Available OpenAI Models:")
	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models (for reading aloud):")
	if len(c.TTS) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range c.TTS {
		fmt.Fprintf(w, "  %s\n", model)
	}

	fmt.Fprintln(w, "\nChat Models (for compose and translation):")
	if len(c.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
		return
	}

	if len(c.Chat) <= 10 {
		for _, model := range c.Chat {
			fmt.Fprintf(w, "  %s\n", model)
		}
		return
	}

	// Show only the common families when the list is long
	shown := 0
	for _, model := range c.Chat {
		if strings.HasPrefix(model, "gpt-4") || strings.HasPrefix(model, "gpt-3.5") {
			fmt.Fprintf(w, "  %s\n", model)
			shown++
		}
	}
	fmt.Fprintf(w, "  ... and %d more models\n", len(c.Chat)-shown)
}

// ListAvailableModels fetches the catalog and prints it to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}
	Print(w, catalog)
	return nil
}
