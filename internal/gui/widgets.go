package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/glossa/internal/annotation"
	"codeberg.org/snonux/glossa/internal/lang"
	"codeberg.org/snonux/glossa/internal/render"
)

// WordCard shows one vocabulary entry in its palette colour
type WordCard struct {
	widget.BaseWidget

	word      annotation.Word
	container *fyne.Container
	speakBtn  *ttwidget.Button
	deleteBtn *ttwidget.Button
}

// NewWordCard creates a card. onSpeak and onDelete receive the card's word.
func NewWordCard(w annotation.Word, onSpeak, onDelete func(string)) *WordCard {
	c := &WordCard{word: w}
	colour := annotation.ColorFor(w.Word)

	background := canvas.NewRectangle(colour.Background)
	background.StrokeColor = colour.Border
	background.StrokeWidth = 2
	background.CornerRadius = 6

	title := canvas.NewText(w.Word, theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = theme.TextSize() * 1.3

	header := container.NewHBox(title)
	if w.Phonetic != "" {
		phonetic := widget.NewLabel("[" + w.Phonetic + "]")
		phonetic.TextStyle = fyne.TextStyle{Italic: true}
		header.Add(phonetic)
	}

	meaning := widget.NewLabel(w.Meaning)
	meaning.Wrapping = fyne.TextWrapWord

	c.speakBtn = ttwidget.NewButtonWithIcon("", theme.VolumeUpIcon(), func() {
		if onSpeak != nil {
			onSpeak(w.Word)
		}
	})
	c.deleteBtn = ttwidget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if onDelete != nil {
			onDelete(w.Word)
		}
	})
	c.deleteBtn.Importance = widget.LowImportance

	actions := container.NewHBox(c.speakBtn, c.deleteBtn)

	c.container = container.NewStack(
		background,
		container.NewPadded(container.NewBorder(header, nil, nil, actions, meaning)),
	)

	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *WordCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.container)
}

// SetToolTips labels the card buttons. It must run after the window's
// tooltip layer exists.
func (c *WordCard) SetToolTips() {
	c.speakBtn.SetToolTip(speakToolTip(c.word.Language))
	c.deleteBtn.SetToolTip("Remove from vocabulary")
}

// Word returns the entry shown on the card
func (c *WordCard) Word() annotation.Word {
	return c.word
}

func speakToolTip(tag lang.Tag) string {
	switch tag {
	case lang.Chinese:
		return "Read aloud (Mandarin)"
	case lang.English:
		return "Read aloud (English)"
	default:
		return "Read aloud"
	}
}

// previewSegments renders the document with highlighted selections in bold
// primary colour
func previewSegments(doc string, highlights []render.Highlight) []widget.RichTextSegment {
	var segments []widget.RichTextSegment
	plain := func(text string) {
		if text != "" {
			segments = append(segments, &widget.TextSegment{Text: text, Style: widget.RichTextStyleInline})
		}
	}

	pos := 0
	for _, h := range highlights {
		plain(doc[pos:h.Start])
		segments = append(segments, &widget.TextSegment{
			Text: doc[h.Start:h.End],
			Style: widget.RichTextStyle{
				Inline:    true,
				ColorName: theme.ColorNamePrimary,
				TextStyle: fyne.TextStyle{Bold: true},
			},
		})
		pos = h.End
	}
	plain(doc[pos:])

	return segments
}
