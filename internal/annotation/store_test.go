package annotation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/glossa/internal/lang"
)

func word(text, meaning string) Word {
	return Word{Word: text, Meaning: meaning, Language: lang.Detect(text)}
}

func TestStore_UpsertInsertsAtFront(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Upsert(word("one", "1")))
	assert.True(t, s.Upsert(word("two", "2")))
	assert.True(t, s.Upsert(word("three", "3")))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "three", entries[0].Word)
	assert.Equal(t, "two", entries[1].Word)
	assert.Equal(t, "one", entries[2].Word)
}

func TestStore_UpsertNeverOverwrites(t *testing.T) {
	s := NewStore()

	require.True(t, s.Upsert(word("world", "世界")))
	assert.False(t, s.Upsert(word("world", "something else")))

	got, ok := s.Get("world")
	require.True(t, ok)
	assert.Equal(t, "世界", got.Meaning)
	assert.Equal(t, 1, s.Len())
}

func TestStore_KeyIsExactText(t *testing.T) {
	s := NewStore()

	s.Upsert(word("World", "a"))
	s.Upsert(word("world", "b"))
	s.Upsert(word("world ", "c"))

	assert.Equal(t, 3, s.Len())
}

func TestStore_HighlightRequiresEntry(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Highlight("ghost"))
	assert.False(t, s.IsHighlighted("ghost"))

	s.Upsert(word("world", "世界"))
	assert.True(t, s.Highlight("world"))
	assert.True(t, s.IsHighlighted("world"))
	assert.Equal(t, []string{"world"}, s.Highlights())
}

func TestStore_UpsertAndHighlight(t *testing.T) {
	s := NewStore()

	assert.True(t, s.UpsertAndHighlight(word("world", "世界")))
	assert.False(t, s.UpsertAndHighlight(word("world", "other")))

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.IsHighlighted("world"))
}

func TestStore_DeleteCascadesToHighlights(t *testing.T) {
	s := NewStore()
	s.UpsertAndHighlight(word("world", "世界"))
	s.UpsertAndHighlight(word("hello", "你好"))

	assert.True(t, s.Delete("world"))

	_, ok := s.Get("world")
	assert.False(t, ok)
	assert.False(t, s.IsHighlighted("world"))
	assert.Equal(t, []string{"hello"}, s.Highlights())
	assert.Equal(t, 1, s.Len())
}

func TestStore_DeleteAbsentIsNoop(t *testing.T) {
	s := NewStore()
	s.UpsertAndHighlight(word("hello", "你好"))

	assert.False(t, s.Delete("world"))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []string{"hello"}, s.Highlights())
}

func TestStore_DeleteKeepsOrder(t *testing.T) {
	s := NewStore()
	for _, w := range []string{"a", "b", "c", "d"} {
		s.Upsert(word(w, w))
	}

	s.Delete("b")

	var texts []string
	for _, e := range s.Entries() {
		texts = append(texts, e.Word)
	}
	assert.Equal(t, []string{"d", "c", "a"}, texts)
}

func TestStore_ClearAll(t *testing.T) {
	s := NewStore()
	s.UpsertAndHighlight(word("world", "世界"))

	s.ClearAll()

	assert.Zero(t, s.Len())
	assert.Empty(t, s.Highlights())
	assert.True(t, s.Upsert(word("world", "again")))
}

func TestStore_ClearHighlightsKeepsEntries(t *testing.T) {
	s := NewStore()
	s.UpsertAndHighlight(word("world", "世界"))

	s.ClearHighlights()

	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Highlights())
}

func TestStore_EntriesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Upsert(word("world", "世界"))

	entries := s.Entries()
	entries[0].Meaning = "changed"

	got, _ := s.Get("world")
	assert.Equal(t, "世界", got.Meaning)
}

func TestStore_ConcurrentUpsertsKeepOneEntryPerText(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.UpsertAndHighlight(word(fmt.Sprintf("w%d", i%10), fmt.Sprint(i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
	seen := make(map[string]bool)
	for _, e := range s.Entries() {
		assert.False(t, seen[e.Word], "duplicate entry %q", e.Word)
		seen[e.Word] = true
	}
	for _, h := range s.Highlights() {
		_, ok := s.Get(h)
		assert.True(t, ok, h)
	}
}
