// Package compose drafts speeches on a topic with a chat model. English
// drafts come with a Chinese translation so they can be read side by side.
package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/snonux/glossa/internal/translation"
)

// SystemPrompt sets up the model as a bilingual speechwriter.
const SystemPrompt = "You are a professional speechwriter who can write engaging and natural speeches in both English and Chinese."

// ErrorMessage is shown to readers with every drafting failure.
const ErrorMessage = "生成演讲稿时出错"

// ErrEmptyTopic is returned when no topic is given.
var ErrEmptyTopic = errors.New("compose: topic is required")

// Request describes the speech to draft. Style and Length default to
// "formal" and "medium".
type Request struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
	Style    string `json:"style,omitempty"`
	Length   string `json:"length,omitempty"`
}

// Draft is a generated speech and, for English speeches, its translation.
type Draft struct {
	Speech      string `json:"speech"`
	Translation string `json:"translation,omitempty"`
}

// Translator turns an English text into Chinese.
type Translator interface {
	TranslateToChinese(ctx context.Context, text string) (string, error)
}

// Composer drafts speeches.
type Composer struct {
	chat       translation.Chat
	translator Translator
	log        *slog.Logger
}

// New creates a Composer. translator may be nil, in which case English
// drafts are returned untranslated.
func New(chat translation.Chat, translator Translator, logger *slog.Logger) *Composer {
	return &Composer{
		chat:       chat,
		translator: translator,
		log:        logger.With("component", "compose"),
	}
}

// Normalize fills in defaults.
func (r Request) Normalize() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Style == "" {
		r.Style = "formal"
	}
	if r.Length == "" {
		r.Length = "medium"
	}
	return r
}

// Prompt builds the user prompt. English gets an English prompt; every other
// language gets a Chinese one.
func Prompt(r Request) string {
	r = r.Normalize()
	if r.Language == "en" {
		return fmt.Sprintf("Write a %s speech about \"%s\". The speech should be %s in length and suitable for oral presentation. Include an introduction, main points, and a conclusion. Make it engaging and natural.",
			r.Style, r.Topic, r.Length)
	}

	style := "轻松"
	if r.Style == "formal" {
		style = "正式"
	}
	return fmt.Sprintf("用中文写一篇关于\"%s\"的%s演讲稿。演讲长度应该是%s，适合口头演讲。包括开场白、主要内容和结束语。要生动自然，易于理解。",
		r.Topic, style, duration(r.Length))
}

func duration(length string) string {
	switch length {
	case "short":
		return "3-5分钟"
	case "medium":
		return "5-8分钟"
	default:
		return "8-10分钟"
	}
}

// Compose drafts a speech for r.
func (c *Composer) Compose(ctx context.Context, r Request) (*Draft, error) {
	r = r.Normalize()
	if r.Topic == "" {
		return nil, ErrEmptyTopic
	}

	c.log.InfoContext(ctx, "drafting speech",
		slog.String("provider", c.chat.Name()),
		slog.String("language", r.Language),
		slog.String("style", r.Style),
		slog.String("length", r.Length),
	)

	speech, err := c.chat.Complete(ctx, translation.Completion{
		System:      SystemPrompt,
		Prompt:      Prompt(r),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	draft := &Draft{Speech: speech}
	if r.Language != "en" || c.translator == nil {
		return draft, nil
	}

	draft.Translation, err = c.translator.TranslateToChinese(ctx, speech)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	return draft, nil
}
