package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// DocumentEntry is a multi-line entry that reports text selections made
// with the mouse or the keyboard
type DocumentEntry struct {
	widget.Entry
	onSelect func(string)
	onEscape func()
}

// NewDocumentEntry creates a new wrapping document entry
func NewDocumentEntry() *DocumentEntry {
	entry := &DocumentEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// MouseUp finishes a drag selection
func (e *DocumentEntry) MouseUp(ev *desktop.MouseEvent) {
	e.Entry.MouseUp(ev)
	e.emitSelection()
}

// TypedKey handles key events. Return looks up a keyboard selection
// instead of inserting a newline.
func (e *DocumentEntry) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyEscape:
		if e.onEscape != nil {
			e.onEscape()
			return
		}
	case fyne.KeyReturn, fyne.KeyEnter:
		if strings.TrimSpace(e.SelectedText()) != "" {
			e.emitSelection()
			return
		}
	}
	e.Entry.TypedKey(key)
}

// SetOnSelect sets the callback for a finished, non-blank selection
func (e *DocumentEntry) SetOnSelect(f func(string)) {
	e.onSelect = f
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *DocumentEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

func (e *DocumentEntry) emitSelection() {
	selected := e.SelectedText()
	if e.onSelect == nil || strings.TrimSpace(selected) == "" {
		return
	}
	e.onSelect(selected)
}

// CustomEntry extends widget.Entry to handle Escape key (single-line version)
type CustomEntry struct {
	widget.Entry
	onEscape func()
}

// NewCustomEntry creates a new custom single-line entry
func NewCustomEntry() *CustomEntry {
	entry := &CustomEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *CustomEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *CustomEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
