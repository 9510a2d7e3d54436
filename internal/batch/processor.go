package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/resolver"
)

// Entry is one line of a selections file
type Entry struct {
	Text    string
	Meaning string
	// Manual entries carry their own meaning and skip the dictionary
	Manual bool
}

// ReadSelectionsFile reads selections from a file. Supported lines:
//   - a selection only: "apple" (looked up in the dictionary)
//   - with a meaning: "苹果 = apple" (inserted as a manual annotation)
//
// Blank lines and lines with an empty selection ("= apple") are skipped.
// "apple =" is treated as a plain selection.
func ReadSelectionsFile(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read selections file: %w", err)
	}
	defer file.Close()

	return ParseSelections(file)
}

// ParseSelections parses selections from r
func ParseSelections(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		text, meaning, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, Entry{Text: line})
			continue
		}

		text = strings.TrimSpace(text)
		meaning = strings.TrimSpace(meaning)
		switch {
		case text == "":
			continue
		case meaning == "":
			entries = append(entries, Entry{Text: text})
		default:
			entries = append(entries, Entry{Text: text, Meaning: meaning, Manual: true})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse selections: %w", err)
	}

	return entries, nil
}

// Target receives selections
type Target interface {
	Select(ctx context.Context, raw string) resolver.Result
	AddManual(text, meaning string) (annotation.Word, bool, error)
}

// Summary counts what happened to a batch
type Summary struct {
	Resolved    int
	Highlighted int
	Failed      int
	Manual      int
	Skipped     int
}

// Apply feeds entries to target in order. It stops early when ctx is done.
func Apply(ctx context.Context, target Target, entries []Entry, logger *slog.Logger) (Summary, error) {
	var sum Summary

	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if e.Manual {
			_, inserted, err := target.AddManual(e.Text, e.Meaning)
			if err != nil {
				logger.Warn("manual entry rejected", slog.Int("line", i+1), slog.String("error", err.Error()))
				sum.Skipped++
				continue
			}
			if inserted {
				sum.Manual++
			} else {
				// Existing entries win; the text is only highlighted
				sum.Highlighted++
			}
			continue
		}

		res := target.Select(ctx, e.Text)
		switch res.Outcome {
		case resolver.Resolved:
			sum.Resolved++
		case resolver.Highlighted:
			sum.Highlighted++
		case resolver.Failed:
			sum.Failed++
		default:
			sum.Skipped++
		}
	}

	return sum, nil
}
