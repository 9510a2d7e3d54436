// Package report writes the session vocabulary as a Word document.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/lang"
)

// ErrNoWords is returned when there is nothing to report.
var ErrNoWords = errors.New("report: no words")

const separator = "--------------------------------------------------"

// Options controls the report header.
type Options struct {
	Title string
	// Document is quoted as an excerpt under the title when set.
	Document string
	// ExcerptRunes bounds the quoted excerpt.
	ExcerptRunes int
	Now          func() time.Time
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Title:        "Vocabulary",
		ExcerptRunes: 280,
		Now:          time.Now,
	}
}

// DOCX writes words, in the order given, to path.
func DOCX(path string, words []annotation.Word, opts Options) error {
	if len(words) == 0 {
		return ErrNoWords
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	f := docx.NewFile()

	run := f.AddParagraph().AddText(opts.Title)
	run.Size(20)

	run = f.AddParagraph().AddText(fmt.Sprintf("%d words | %s", len(words), opts.Now().Format("2006-01-02 15:04")))
	run.Size(10)
	run.Color("808080")

	if excerpt := Excerpt(opts.Document, opts.ExcerptRunes); excerpt != "" {
		f.AddParagraph() // Spacer
		run = f.AddParagraph().AddText(excerpt)
		run.Size(11)
		run.Color("555555")
	}

	f.AddParagraph() // Spacer
	f.AddParagraph().AddText(separator)

	for _, w := range words {
		p := f.AddParagraph()
		run = p.AddText(w.Word)
		run.Size(16)
		run.Color(Hex(annotation.ColorFor(w.Word).Border))

		if w.Phonetic != "" {
			run = p.AddText("  [" + w.Phonetic + "]")
			run.Size(12)
			run.Color("808080")
		}

		for _, line := range strings.Split(w.Meaning, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				f.AddParagraph().AddText(line)
			}
		}

		run = f.AddParagraph().AddText(languageLabel(w.Language))
		run.Size(9)
		run.Color("95A5A6")

		f.AddParagraph() // Spacer
	}

	if err := f.Save(path); err != nil {
		os.Remove(path)
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// Hex renders c as the RRGGBB string used by run colours.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Excerpt collapses whitespace and cuts text to max runes with an ellipsis.
func Excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

func languageLabel(tag lang.Tag) string {
	switch tag {
	case lang.Chinese:
		return "Chinese"
	case lang.English:
		return "English"
	default:
		return "Unknown"
	}
}
