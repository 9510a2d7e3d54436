package anki

import (
	"encoding/csv"
	"fmt"
	"os"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/lang"
)

// Card represents a single vocabulary flashcard
type Card struct {
	Word     string // The selected word or phrase
	Phonetic string // Optional pronunciation
	Meaning  string // Dictionary meaning
	Language string // Display name of the source language
}

// CardFromWord converts an annotation entry into a card
func CardFromWord(w annotation.Word) Card {
	return Card{
		Word:     w.Word,
		Phonetic: w.Phonetic,
		Meaning:  w.Meaning,
		Language: LanguageName(w.Language),
	}
}

// LanguageName returns the field value used for a language tag
func LanguageName(tag lang.Tag) string {
	switch tag {
	case lang.Chinese:
		return "Chinese"
	case lang.English:
		return "English"
	default:
		return "Unknown"
	}
}

// GeneratorOptions configures the CSV export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "glossa_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddWords adds one card per entry, keeping the given order
func (g *Generator) AddWords(words []annotation.Word) {
	for _, w := range words {
		g.AddCard(CardFromWord(w))
	}
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Word", "Phonetic", "Meaning", "Language"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Word,
			formatPhonetic(card.Phonetic),
			card.Meaning,
			card.Language,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// formatPhonetic wraps a pronunciation in brackets the way it is shown on cards
func formatPhonetic(phonetic string) string {
	if phonetic == "" {
		return ""
	}
	return fmt.Sprintf("[%s]", phonetic)
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withPhonetic, chinese int) {
	totalCards = len(g.cards)

	for _, card := range g.cards {
		if card.Phonetic != "" {
			withPhonetic++
		}
		if card.Language == "Chinese" {
			chinese++
		}
	}

	return
}
