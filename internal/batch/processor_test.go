package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/resolver"
	"codeberg.org/snonux/glossa/internal/testutil"
)

func TestParseSelections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Entry
	}{
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
		{
			name:    "only whitespace",
			content: "   \n\t\r\n   ",
			want:    nil,
		},
		{
			name: "plain selections",
			content: `fox
苹果
lazy dog`,
			want: []Entry{
				{Text: "fox"},
				{Text: "苹果"},
				{Text: "lazy dog"},
			},
		},
		{
			name: "manual meanings",
			content: `苹果 = apple
fox = 狐狸`,
			want: []Entry{
				{Text: "苹果", Meaning: "apple", Manual: true},
				{Text: "fox", Meaning: "狐狸", Manual: true},
			},
		},
		{
			name:    "mixed with blank lines and CRLF",
			content: "\r\nfox\r\n\r\n  苹果 = apple  \r\n\r\n",
			want: []Entry{
				{Text: "fox"},
				{Text: "苹果", Meaning: "apple", Manual: true},
			},
		},
		{
			name: "empty sides",
			content: `= apple
dog =
=`,
			want: []Entry{
				{Text: "dog"},
			},
		},
		{
			name:    "only first equals splits",
			content: "a = b = c",
			want: []Entry{
				{Text: "a", Meaning: "b = c", Manual: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelections(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("ParseSelections() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSelections() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadSelectionsFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "selections.txt")
	if err := os.WriteFile(path, []byte("fox\n苹果 = apple\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	entries, err := ReadSelectionsFile(path)
	if err != nil {
		t.Fatalf("ReadSelectionsFile() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestReadSelectionsFile_NotFound(t *testing.T) {
	_, err := ReadSelectionsFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

type recordingTarget struct {
	selected  []string
	manual    []string
	results   map[string]resolver.Result
	existing  map[string]bool
	manualErr error
}

func (r *recordingTarget) Select(ctx context.Context, raw string) resolver.Result {
	r.selected = append(r.selected, raw)
	if res, ok := r.results[raw]; ok {
		return res
	}
	return resolver.Result{Outcome: resolver.Resolved}
}

func (r *recordingTarget) AddManual(text, meaning string) (annotation.Word, bool, error) {
	r.manual = append(r.manual, text+"="+meaning)
	if r.manualErr != nil {
		return annotation.Word{}, false, r.manualErr
	}
	return annotation.Word{Word: text, Meaning: meaning}, !r.existing[text], nil
}

func TestApply(t *testing.T) {
	target := &recordingTarget{
		results: map[string]resolver.Result{
			"seen":  {Outcome: resolver.Highlighted},
			"bad":   {Outcome: resolver.Failed},
			"blank": {Outcome: resolver.Ignored},
		},
		existing: map[string]bool{"old": true},
	}
	entries := []Entry{
		{Text: "fox"},
		{Text: "seen"},
		{Text: "bad"},
		{Text: "blank"},
		{Text: "苹果", Meaning: "apple", Manual: true},
		{Text: "old", Meaning: "ignored", Manual: true},
	}

	sum, err := Apply(context.Background(), target, entries, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := Summary{Resolved: 1, Highlighted: 2, Failed: 1, Manual: 1, Skipped: 1}
	if sum != want {
		t.Errorf("Apply() summary = %+v, want %+v", sum, want)
	}
	if !reflect.DeepEqual(target.selected, []string{"fox", "seen", "bad", "blank"}) {
		t.Errorf("Unexpected selections: %v", target.selected)
	}
	if !reflect.DeepEqual(target.manual, []string{"苹果=apple", "old=ignored"}) {
		t.Errorf("Unexpected manual entries: %v", target.manual)
	}
}

func TestApply_ManualError(t *testing.T) {
	target := &recordingTarget{manualErr: errors.New("empty")}

	sum, err := Apply(context.Background(), target, []Entry{{Text: "x", Meaning: "y", Manual: true}}, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if sum.Skipped != 1 {
		t.Errorf("Expected 1 skipped entry, got %+v", sum)
	}
}

func TestApply_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := &recordingTarget{}
	_, err := Apply(ctx, target, []Entry{{Text: "fox"}}, testutil.DiscardLogger())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(target.selected) != 0 {
		t.Error("No selection should run after cancellation")
	}
}

func TestApply_WithResolver(t *testing.T) {
	// The MockDictionary answers every lookup
	dict := testutil.NewMockDictionary()
	store := annotation.NewStore()
	res := resolver.New(dict, store, testutil.DiscardLogger())

	target := resolverTarget{res: res, store: store}
	sum, err := Apply(context.Background(), target, []Entry{{Text: "fox"}, {Text: "fox"}}, testutil.DiscardLogger())
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if sum.Resolved != 1 || sum.Highlighted != 1 {
		t.Errorf("Expected one lookup then a re-highlight, got %+v", sum)
	}
	if dict.CallCount() != 1 {
		t.Errorf("Expected 1 dictionary call, got %d", dict.CallCount())
	}
}

type resolverTarget struct {
	res   *resolver.Resolver
	store *annotation.Store
}

func (r resolverTarget) Select(ctx context.Context, raw string) resolver.Result {
	return r.res.OnSelection(ctx, raw)
}

func (r resolverTarget) AddManual(text, meaning string) (annotation.Word, bool, error) {
	w, err := resolver.ManualWord(text, meaning)
	if err != nil {
		return annotation.Word{}, false, err
	}
	return w, r.store.UpsertAndHighlight(w), nil
}
