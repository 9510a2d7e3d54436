package annotation

import (
	"sort"
	"sync"

	"codeberg.org/snonux/glossa/internal/lang"
)

// Word is a resolved vocabulary entry keyed by its exact text.
type Word struct {
	Word     string
	Phonetic string
	Meaning  string
	Language lang.Tag
}

// Store maps word text to its annotation and tracks highlighted texts.
// Every highlighted text has an entry in the store.
type Store struct {
	mu         sync.RWMutex
	entries    []Word // most recent first
	index      map[string]struct{}
	highlights map[string]struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		index:      make(map[string]struct{}),
		highlights: make(map[string]struct{}),
	}
}

// Upsert inserts w at the front unless an entry with the same text exists.
// It reports whether w was inserted; an existing entry is never replaced.
func (s *Store) Upsert(w Word) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(w)
}

// UpsertAndHighlight inserts w if absent and highlights its text in one step.
// It reports whether w was inserted.
func (s *Store) UpsertAndHighlight(w Word) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := s.insertLocked(w)
	s.highlights[w.Word] = struct{}{}
	return inserted
}

func (s *Store) insertLocked(w Word) bool {
	if _, ok := s.index[w.Word]; ok {
		return false
	}
	s.entries = append([]Word{w}, s.entries...)
	s.index[w.Word] = struct{}{}
	return true
}

// Highlight adds text to the highlight set if it has an entry.
func (s *Store) Highlight(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[text]; !ok {
		return false
	}
	s.highlights[text] = struct{}{}
	return true
}

// Delete removes the entry and its highlight. Deleting an absent text is a no-op.
func (s *Store) Delete(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[text]; !ok {
		return false
	}
	for i, w := range s.entries {
		if w.Word == text {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			break
		}
	}
	delete(s.index, text)
	delete(s.highlights, text)
	return true
}

// ClearHighlights empties the highlight set and keeps the entries.
func (s *Store) ClearHighlights() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = make(map[string]struct{})
}

// ClearAll empties the entries and the highlight set together.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = make(map[string]struct{})
	s.highlights = make(map[string]struct{})
}

// Get returns the entry for text.
func (s *Store) Get(text string) (Word, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.index[text]; !ok {
		return Word{}, false
	}
	for _, w := range s.entries {
		if w.Word == text {
			return w, true
		}
	}
	return Word{}, false
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of the entries, most recent first.
func (s *Store) Entries() []Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Word(nil), s.entries...)
}

// IsHighlighted reports whether text is in the highlight set.
func (s *Store) IsHighlighted(text string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.highlights[text]
	return ok
}

// Highlights returns the highlighted texts in sorted order.
func (s *Store) Highlights() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.highlights))
	for text := range s.highlights {
		out = append(out, text)
	}
	sort.Strings(out)
	return out
}
