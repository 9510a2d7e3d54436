// Package translation talks to chat completion providers (OpenAI or Gemini)
// and uses them to translate English speech drafts into Chinese. Translations
// are cached in memory per text.
package translation
