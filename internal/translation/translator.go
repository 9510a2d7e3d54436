package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// TranslatorSystemPrompt sets up the model as an English to Chinese translator
const TranslatorSystemPrompt = "You are a professional translator who can translate English to Chinese naturally and accurately."

// Translator handles English to Chinese translation of longer texts
type Translator struct {
	chat  Chat
	cache *TranslationCache
	log   *slog.Logger
}

// NewTranslator creates a new translator instance
func NewTranslator(chat Chat, logger *slog.Logger) *Translator {
	return &Translator{
		chat:  chat,
		cache: NewTranslationCache(),
		log:   logger.With("component", "translation"),
	}
}

// TranslateToChinese translates an English text. Results are cached per text.
func (t *Translator) TranslateToChinese(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	if cached, ok := t.cache.Get(text); ok {
		return cached, nil
	}

	t.log.DebugContext(ctx, "translating", slog.String("provider", t.chat.Name()), slog.Int("runes", len([]rune(text))))

	translation, err := t.chat.Complete(ctx, Completion{
		System:      TranslatorSystemPrompt,
		Prompt:      "Please translate the following English speech to Chinese:\n\n" + text,
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	t.cache.Add(text, translation)
	return translation, nil
}

// TranslationCache stores translations in memory
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[text] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[text]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	// Return a copy to prevent external modification
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}
