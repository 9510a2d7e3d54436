package anki

import (
	"archive/zip"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	if gen == nil {
		t.Fatal("NewAPKGGenerator returned nil")
	}

	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}

	if len(gen.cards) != 0 {
		t.Errorf("Expected empty cards slice, got %d cards", len(gen.cards))
	}

	if gen.modelID != gen.deckID+1 {
		t.Errorf("Expected model ID to follow deck ID, got %d and %d", gen.modelID, gen.deckID)
	}

	if NewAPKGGenerator("").deckName != "Glossa Vocabulary" {
		t.Error("Expected default deck name for empty input")
	}
}

func TestGenerateAPKGRejectsEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.apkg")

	if err := NewAPKGGenerator("Deck").GenerateAPKG(outputPath); err == nil {
		t.Fatal("Expected error for a deck without cards")
	}

	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("No package should be written for an empty deck")
	}
}

func TestGenerateAPKG(t *testing.T) {
	tempDir := t.TempDir()

	gen := NewAPKGGenerator("Test Vocabulary")
	gen.AddCard(Card{Word: "苹果", Phonetic: "píng guǒ", Meaning: "apple", Language: "Chinese"})
	gen.AddCard(Card{Word: "fox", Phonetic: "fɒks", Meaning: "狐狸", Language: "English"})

	outputPath := filepath.Join(tempDir, "test.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG as zip: %v", err)
	}
	defer reader.Close()

	requiredFiles := map[string]bool{
		"collection.anki2": false,
		"media":            false,
	}
	for _, file := range reader.File {
		if _, ok := requiredFiles[file.Name]; ok {
			requiredFiles[file.Name] = true
		}
	}
	for name, found := range requiredFiles {
		if !found {
			t.Errorf("Required file '%s' not found in APKG", name)
		}
	}
}

func TestCreateDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.anki2")

	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{Word: "newest", Meaning: "最新", Language: "English"})
	gen.AddCard(Card{Word: "猫", Phonetic: "māo", Meaning: "cat", Language: "Chinese"})

	if err := gen.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var noteCount, cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&noteCount); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cardCount); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if noteCount != 2 {
		t.Errorf("Expected 2 notes, got %d", noteCount)
	}
	if cardCount != 4 {
		t.Errorf("Expected 4 cards (forward + reverse), got %d", cardCount)
	}

	rows, err := db.Query("SELECT flds, sfld FROM notes ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query notes: %v", err)
	}
	defer rows.Close()

	var sortFields []string
	var flds []string
	for rows.Next() {
		var f, s string
		if err := rows.Scan(&f, &s); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		flds = append(flds, f)
		sortFields = append(sortFields, s)
	}

	if strings.Join(sortFields, ",") != "newest,猫" {
		t.Errorf("Expected notes in export order, got %v", sortFields)
	}

	want := strings.Join([]string{"猫", "māo", "cat", "Chinese"}, fieldSeparator)
	if len(flds) == 2 && flds[1] != want {
		t.Errorf("Expected fields %q, got %q", want, flds[1])
	}

	var dues []int
	dueRows, err := db.Query("SELECT due FROM cards ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query cards: %v", err)
	}
	defer dueRows.Close()
	for dueRows.Next() {
		var d int
		if err := dueRows.Scan(&d); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		dues = append(dues, d)
	}
	for i, d := range dues {
		if d != i+1 {
			t.Errorf("Expected due position %d, got %d", i+1, d)
		}
	}
}

func TestNoteTypeFields(t *testing.T) {
	gen := NewAPKGGenerator("Deck")
	config := gen.createNoteTypeConfig(0)

	flds, ok := config["flds"].([]map[string]interface{})
	if !ok {
		t.Fatal("flds has unexpected type")
	}

	expected := []string{"Word", "Phonetic", "Meaning", "Language"}
	if len(flds) != len(expected) {
		t.Fatalf("Expected %d fields, got %d", len(expected), len(flds))
	}
	for i, name := range expected {
		if flds[i]["name"] != name {
			t.Errorf("Field %d: expected %s, got %v", i, name, flds[i]["name"])
		}
	}

	tmpls, ok := config["tmpls"].([]map[string]interface{})
	if !ok || len(tmpls) != 2 {
		t.Fatal("Expected forward and reverse templates")
	}
	if !strings.Contains(tmpls[1]["qfmt"].(string), "{{Meaning}}") {
		t.Error("Reverse card should ask with the meaning")
	}
}

func TestNoteGUIDStable(t *testing.T) {
	if noteGUID("fox") != noteGUID("fox") {
		t.Error("GUID should be stable for the same word")
	}
	if noteGUID("fox") == noteGUID("dog") {
		t.Error("GUID should differ between words")
	}
	if !strings.HasPrefix(noteGUID("fox"), "gl_") {
		t.Errorf("Unexpected GUID prefix: %s", noteGUID("fox"))
	}
}

func TestFieldChecksum(t *testing.T) {
	// sha1("fox") = ff0f0a8b...
	if got := fieldChecksum("fox"); got != 0xff0f0a8b {
		t.Errorf("fieldChecksum(fox) = %x", got)
	}
}
