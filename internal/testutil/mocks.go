package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"codeberg.org/snonux/glossa/internal/dictionary"
)

// MockDictionary mocks the dictionary port
type MockDictionary struct {
	mu        sync.Mutex
	Responses map[string]*dictionary.Response
	Errors    map[string]error
	Calls     []string

	// Gate, when set, blocks every lookup until it is closed.
	Gate chan struct{}
	// Started receives the text of each lookup as it begins, if set.
	Started chan string
}

// NewMockDictionary creates a mock with empty response tables
func NewMockDictionary() *MockDictionary {
	return &MockDictionary{
		Responses: make(map[string]*dictionary.Response),
		Errors:    make(map[string]error),
	}
}

// Translate registers a successful lookup for text
func (m *MockDictionary) Translate(text string, translation ...string) *MockDictionary {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[text] = &dictionary.Response{ErrorCode: dictionary.SuccessCode, Translation: translation}
	return m
}

// Lookup implements dictionary.Dictionary
func (m *MockDictionary) Lookup(ctx context.Context, req dictionary.Request) (*dictionary.Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("%s (%s)", req.Text, req.From))
	gate, started := m.Gate, m.Started
	m.mu.Unlock()

	if started != nil {
		started <- req.Text
	}
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.Errors[req.Text]; ok {
		return nil, err
	}
	if resp, ok := m.Responses[req.Text]; ok {
		return resp, nil
	}

	// Default response
	return &dictionary.Response{ErrorCode: dictionary.SuccessCode, Translation: []string{"mock translation of " + req.Text}}, nil
}

// CallCount returns the number of lookups so far
func (m *MockDictionary) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// MixedDocument returns a short document with both scripts
func (g *TestDataGenerator) MixedDocument() string {
	return "Hello world. 你好世界。"
}

// EnglishDocument returns a short English paragraph
func (g *TestDataGenerator) EnglishDocument() string {
	return "The quick brown fox jumps over the lazy dog.\nIt was not amused!"
}

// GenerateAudioData generates mock audio data
func (g *TestDataGenerator) GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
