package anki

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/lang"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "glossa_import.csv" {
		t.Errorf("Expected output path 'glossa_import.csv', got '%s'", opts.OutputPath)
	}

	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func TestCardFromWord(t *testing.T) {
	tests := []struct {
		name string
		word annotation.Word
		want Card
	}{
		{
			name: "chinese",
			word: annotation.Word{Word: "苹果", Phonetic: "píng guǒ", Meaning: "apple", Language: lang.Chinese},
			want: Card{Word: "苹果", Phonetic: "píng guǒ", Meaning: "apple", Language: "Chinese"},
		},
		{
			name: "english",
			word: annotation.Word{Word: "fox", Meaning: "狐狸", Language: lang.English},
			want: Card{Word: "fox", Meaning: "狐狸", Language: "English"},
		},
		{
			name: "unknown",
			word: annotation.Word{Word: "123", Meaning: "lookup failed", Language: lang.Unknown},
			want: Card{Word: "123", Meaning: "lookup failed", Language: "Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CardFromWord(tt.word); got != tt.want {
				t.Errorf("CardFromWord() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAddWordsKeepsOrder(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddWords([]annotation.Word{
		{Word: "second", Language: lang.English},
		{Word: "first", Language: lang.English},
	})

	cards := gen.GetCards()
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[0].Word != "second" || cards[1].Word != "first" {
		t.Errorf("Cards out of order: %+v", cards)
	}
}

func TestGenerateCSV(t *testing.T) {
	tests := []struct {
		name           string
		includeHeaders bool
		cards          []Card
		wantRecords    [][]string
	}{
		{
			name:           "with headers",
			includeHeaders: true,
			cards: []Card{
				{Word: "fox", Phonetic: "fɒks", Meaning: "狐狸", Language: "English"},
			},
			wantRecords: [][]string{
				{"Word", "Phonetic", "Meaning", "Language"},
				{"fox", "[fɒks]", "狐狸", "English"},
			},
		},
		{
			name:           "without headers and multiline meaning",
			includeHeaders: false,
			cards: []Card{
				{Word: "run", Meaning: "v. 跑\nn. 跑步", Language: "English"},
			},
			wantRecords: [][]string{
				{"run", "", "v. 跑\nn. 跑步", "English"},
			},
		},
		{
			name:           "comma in meaning",
			includeHeaders: false,
			cards: []Card{
				{Word: "苹果", Meaning: "apple, apple tree", Language: "Chinese"},
			},
			wantRecords: [][]string{
				{"苹果", "", "apple, apple tree", "Chinese"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputPath := filepath.Join(t.TempDir(), "out.csv")
			gen := NewGenerator(&GeneratorOptions{
				OutputPath:     outputPath,
				IncludeHeaders: tt.includeHeaders,
			})
			for _, c := range tt.cards {
				gen.AddCard(c)
			}

			if err := gen.GenerateCSV(); err != nil {
				t.Fatalf("GenerateCSV() error = %v", err)
			}

			file, err := os.Open(outputPath)
			if err != nil {
				t.Fatalf("Failed to open CSV: %v", err)
			}
			defer file.Close()

			records, err := csv.NewReader(file).ReadAll()
			if err != nil {
				t.Fatalf("Failed to parse CSV: %v", err)
			}

			if len(records) != len(tt.wantRecords) {
				t.Fatalf("Expected %d records, got %d", len(tt.wantRecords), len(records))
			}
			for i := range records {
				for j := range records[i] {
					if records[i][j] != tt.wantRecords[i][j] {
						t.Errorf("Record %d field %d: expected %q, got %q", i, j, tt.wantRecords[i][j], records[i][j])
					}
				}
			}
		})
	}
}

func TestGenerateCSVBadPath(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{
		OutputPath: filepath.Join(t.TempDir(), "missing", "out.csv"),
	})
	if err := gen.GenerateCSV(); err == nil {
		t.Error("Expected error for unwritable path")
	}
}

func TestGeneratorGenerateAPKG(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "deck.apkg")

	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "fox", Meaning: "狐狸", Language: "English"})

	if err := gen.GenerateAPKG(outputPath, "Reading"); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("Expected package at %s: %v", outputPath, err)
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "猫", Phonetic: "māo", Language: "Chinese"})
	gen.AddCard(Card{Word: "狗", Language: "Chinese"})
	gen.AddCard(Card{Word: "fox", Phonetic: "fɒks", Language: "English"})

	total, withPhonetic, chinese := gen.Stats()
	if total != 3 {
		t.Errorf("Expected 3 cards, got %d", total)
	}
	if withPhonetic != 2 {
		t.Errorf("Expected 2 cards with phonetic, got %d", withPhonetic)
	}
	if chinese != 2 {
		t.Errorf("Expected 2 Chinese cards, got %d", chinese)
	}
}
