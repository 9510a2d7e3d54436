package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/glossa/internal"
	"codeberg.org/snonux/glossa/internal/anki"
	"codeberg.org/snonux/glossa/internal/compose"
	"codeberg.org/snonux/glossa/internal/render"
	"codeberg.org/snonux/glossa/internal/report"
	"codeberg.org/snonux/glossa/internal/resolver"
	"codeberg.org/snonux/glossa/internal/session"
	"codeberg.org/snonux/glossa/internal/speech"
)

// documentDelay is how long typing must pause before the edited text
// replaces the session document
const documentDelay = 700 * time.Millisecond

// Composer drafts speeches for the compose dialog
type Composer interface {
	Compose(ctx context.Context, r compose.Request) (*compose.Draft, error)
}

// Options holds GUI application configuration
type Options struct {
	ExportDir string
	DeckName  string
	Composer  Composer                     // nil hides the draft button
	NameFor   func(document string) string // default export file stem
}

// DefaultOptions returns default GUI configuration
func DefaultOptions() Options {
	return Options{
		ExportDir: ".",
		DeckName:  anki.DefaultDeckName,
		NameFor:   func(string) string { return "glossa" },
	}
}

// Application represents the main GUI application
type Application struct {
	app    fyne.App
	window fyne.Window

	documentEntry *DocumentEntry
	preview       *widget.RichText
	cards         *fyne.Container
	statusLabel   *widget.Label
	logViewer     *LogViewer

	readButton     *ttwidget.Button
	manualButton   *ttwidget.Button
	clearButton    *ttwidget.Button
	exportPDFBtn   *ttwidget.Button
	exportAnkiBtn  *ttwidget.Button
	exportDOCXBtn  *ttwidget.Button
	composeButton  *ttwidget.Button
	lastSelection  string
	documentTimer  *time.Timer
	pendingDocText string

	sess *session.Session
	opts Options
	log  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// New creates the reader window for sess
func New(sess *session.Session, opts Options, logger *slog.Logger) *Application {
	defaults := DefaultOptions()
	if opts.ExportDir == "" {
		opts.ExportDir = defaults.ExportDir
	}
	if opts.DeckName == "" {
		opts.DeckName = defaults.DeckName
	}
	if opts.NameFor == nil {
		opts.NameFor = defaults.NameFor
	}

	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.codeberg.snonux.glossa")
	myApp.SetIcon(GetAppIcon())

	a := &Application{
		app:    myApp,
		sess:   sess,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}

	a.logViewer = NewLogViewer()
	a.log = slog.New(NewLogHandler(a.logViewer, logger.Handler())).With("component", "gui")

	a.setupUI()
	a.sess.OnPlaybackChange(func(pb speech.Playback) {
		fyne.Do(func() { a.onPlaybackChange(pb) })
	})

	a.setDocumentText(sess.Document())

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Glossa v%s - Bilingual Reader", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(1100, 750))

	a.documentEntry = NewDocumentEntry()
	a.documentEntry.SetPlaceHolder("Paste an English or Chinese text, then select words or phrases to look them up...")
	a.documentEntry.OnChanged = a.onDocumentChanged
	a.documentEntry.SetOnSelect(a.onSelect)
	a.documentEntry.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.preview = widget.NewRichText()
	a.preview.Wrapping = fyne.TextWrapWord

	documentSection := container.NewVSplit(
		container.NewBorder(widget.NewLabel("Document:"), nil, nil, nil, a.documentEntry),
		container.NewBorder(widget.NewLabel("Highlighted:"), nil, nil, nil, container.NewVScroll(a.preview)),
	)
	documentSection.SetOffset(0.6)

	a.cards = container.NewVBox()
	vocabularySection := container.NewBorder(
		widget.NewLabel("Vocabulary:"), nil, nil, nil,
		container.NewVScroll(a.cards),
	)

	mainSection := container.NewHSplit(documentSection, vocabularySection)
	mainSection.SetOffset(0.6)

	// Tooltips are set after the tooltip layer exists.
	a.readButton = ttwidget.NewButtonWithIcon("", theme.MediaPlayIcon(), a.onToggleReadAloud)
	a.manualButton = ttwidget.NewButtonWithIcon("", theme.ContentAddIcon(), a.onAddManual)
	a.clearButton = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), a.onClear)
	a.clearButton.Importance = widget.DangerImportance
	a.exportPDFBtn = ttwidget.NewButtonWithIcon("", theme.DocumentPrintIcon(), a.onExportPDF)
	a.exportAnkiBtn = ttwidget.NewButtonWithIcon("", theme.UploadIcon(), a.onExportAnki)
	a.exportDOCXBtn = ttwidget.NewButtonWithIcon("", theme.DocumentSaveIcon(), a.onExportDOCX)
	helpButton := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	toolbar := container.NewHBox(
		a.readButton,
		a.manualButton,
		a.clearButton,
		widget.NewSeparator(),
		a.exportPDFBtn,
		a.exportAnkiBtn,
		a.exportDOCXBtn,
	)
	if a.opts.Composer != nil {
		a.composeButton = ttwidget.NewButtonWithIcon("", theme.DocumentCreateIcon(), a.onCompose)
		toolbar.Add(widget.NewSeparator())
		toolbar.Add(a.composeButton)
	}
	toolbar.Add(widget.NewSeparator())
	toolbar.Add(helpButton)

	a.statusLabel = widget.NewLabel("Ready")

	statusSection := container.NewVBox(
		a.statusLabel,
		widget.NewSeparator(),
		a.logViewer,
	)

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		statusSection,
		nil, nil,
		mainSection,
	)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.readButton.SetToolTip("Read document aloud (Ctrl+R)")
	a.manualButton.SetToolTip("Add a word with your own meaning (Ctrl+M)")
	a.clearButton.SetToolTip("Clear document and vocabulary")
	a.exportPDFBtn.SetToolTip("Export as PDF (Ctrl+E)")
	a.exportAnkiBtn.SetToolTip("Export vocabulary to Anki")
	a.exportDOCXBtn.SetToolTip("Export vocabulary as Word document")
	if a.composeButton != nil {
		a.composeButton.SetToolTip("Draft a speech")
	}
	helpButton.SetToolTip("Show hotkeys")

	a.window.SetOnClosed(func() {
		a.mu.Lock()
		if a.documentTimer != nil {
			a.documentTimer.Stop()
		}
		a.mu.Unlock()
		a.sess.StopSpeech()
		a.cancel()
		a.wg.Wait()
	})

	a.setupKeyboardShortcuts()
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

func (a *Application) setupKeyboardShortcuts() {
	canvas := a.window.Canvas()
	add := func(key fyne.KeyName, fn func()) {
		canvas.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: fyne.KeyModifierShortcutDefault},
			func(fyne.Shortcut) { fn() })
	}
	add(fyne.KeyR, a.onToggleReadAloud)
	add(fyne.KeyM, a.onAddManual)
	add(fyne.KeyE, a.onExportPDF)
}

// onDocumentChanged replaces the session document once typing pauses
func (a *Application) onDocumentChanged(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pendingDocText = text
	if a.documentTimer != nil {
		a.documentTimer.Stop()
	}
	a.documentTimer = time.AfterFunc(documentDelay, func() {
		fyne.Do(func() { a.applyDocument() })
	})
}

// takeDocument stops the typing-pause timer and returns the text the
// session should hold
func (a *Application) takeDocument() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.documentTimer != nil {
		a.documentTimer.Stop()
		a.documentTimer = nil
	}
	return a.pendingDocText
}

// commitDocument replaces the session document when text differs. It waits
// for a running export, so it must not run on the UI goroutine.
func (a *Application) commitDocument(text string) bool {
	if text == a.sess.Document() {
		return false
	}
	a.sess.SetDocument(text)
	a.log.Debug("document updated", slog.Int("runes", len([]rune(text))))
	return true
}

// applyDocument pushes pending edits into the session in the background and
// returns the text being applied
func (a *Application) applyDocument() string {
	text := a.takeDocument()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if a.commitDocument(text) {
			fyne.Do(a.refresh)
		}
	}()
	return text
}

// setDocumentText shows text in the entry and makes it the session document
// without waiting for the typing pause
func (a *Application) setDocumentText(text string) {
	a.documentEntry.OnChanged = nil
	a.documentEntry.SetText(text)
	a.documentEntry.OnChanged = a.onDocumentChanged

	a.mu.Lock()
	a.pendingDocText = text
	a.mu.Unlock()
	a.applyDocument()
	a.refresh()
}

// onSelect resolves a selection in the background
func (a *Application) onSelect(raw string) {
	text := a.takeDocument()
	a.lastSelection = strings.TrimSpace(raw)
	a.statusLabel.SetText(fmt.Sprintf("Looking up %q...", a.lastSelection))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		a.commitDocument(text)
		res := a.sess.Select(a.ctx, raw)

		fyne.Do(func() {
			a.statusLabel.SetText(selectionStatus(res))
			a.refresh()
		})
		if res.Outcome == resolver.Failed {
			a.log.Warn("lookup failed", slog.String("text", res.Word.Word), slog.Any("error", res.Err))
		} else if res.Outcome == resolver.Resolved {
			a.log.Info("looked up", slog.String("text", res.Word.Word))
		}
	}()
}

func selectionStatus(res resolver.Result) string {
	switch res.Outcome {
	case resolver.Resolved:
		return fmt.Sprintf("%s: %s", res.Word.Word, firstLine(res.Word.Meaning))
	case resolver.Highlighted:
		return fmt.Sprintf("%s is already in your vocabulary", res.Word.Word)
	case resolver.Failed:
		return fmt.Sprintf("Lookup failed for %s, add a meaning by hand", res.Word.Word)
	default:
		return "Ready"
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// refresh redraws the preview and the vocabulary from the session
func (a *Application) refresh() {
	doc := a.sess.Document()
	words := a.sess.Words()

	a.preview.Segments = previewSegments(doc, render.Highlights(doc, words, a.sess.IsHighlighted))
	a.preview.Refresh()

	a.cards.RemoveAll()
	for _, w := range words {
		card := NewWordCard(w, a.onSpeakWord, a.onDeleteWord)
		card.SetToolTips()
		a.cards.Add(card)
	}
	a.cards.Refresh()

	if len(words) == 0 {
		a.exportAnkiBtn.Disable()
		a.exportDOCXBtn.Disable()
	} else {
		a.exportAnkiBtn.Enable()
		a.exportDOCXBtn.Enable()
	}
	if strings.TrimSpace(doc) == "" {
		a.readButton.Disable()
		a.exportPDFBtn.Disable()
	} else {
		a.readButton.Enable()
		a.exportPDFBtn.Enable()
	}
}

func (a *Application) onSpeakWord(word string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if _, err := a.sess.SpeakWord(a.ctx, word); err != nil {
			a.showError(fmt.Errorf("cannot read %q: %w", word, err))
		}
	}()
}

func (a *Application) onDeleteWord(word string) {
	if a.sess.Delete(word) {
		a.log.Info("removed", slog.String("text", word))
		a.statusLabel.SetText(fmt.Sprintf("Removed %s", word))
	}
	a.refresh()
}

func (a *Application) onToggleReadAloud() {
	text := a.takeDocument()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if a.commitDocument(text) {
			fyne.Do(a.refresh)
		}
		if _, err := a.sess.ToggleReadAloud(a.ctx); err != nil {
			a.showError(fmt.Errorf("read aloud: %w", err))
		}
	}()
}

func (a *Application) onPlaybackChange(pb speech.Playback) {
	if pb.Active && pb.Kind == speech.DocumentKind {
		a.readButton.SetIcon(theme.MediaStopIcon())
		a.readButton.SetToolTip("Stop reading (Ctrl+R)")
		a.statusLabel.SetText(fmt.Sprintf("Reading aloud (%s)...", pb.Locale))
		return
	}
	a.readButton.SetIcon(theme.MediaPlayIcon())
	a.readButton.SetToolTip("Read document aloud (Ctrl+R)")
	if pb.Active {
		a.statusLabel.SetText(fmt.Sprintf("Reading %s...", pb.Text))
	} else {
		a.statusLabel.SetText("Ready")
	}
}

func (a *Application) onClear() {
	dialog.ShowConfirm("Clear", "Remove the document and the whole vocabulary?", func(ok bool) {
		if !ok {
			return
		}
		a.sess.Clear()
		a.setDocumentText("")
		a.log.Info("cleared")
	}, a.window)
}

// onAddManual asks for a word and its meaning, prefilled with the last
// selection
func (a *Application) onAddManual() {
	wordEntry := NewCustomEntry()
	wordEntry.SetText(a.lastSelection)
	meaningEntry := widget.NewMultiLineEntry()
	meaningEntry.Wrapping = fyne.TextWrapWord
	meaningEntry.SetMinRowsVisible(3)
	if w, ok := a.sess.Word(a.lastSelection); ok && w.Meaning != resolver.LookupFailed {
		meaningEntry.SetText(w.Meaning)
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Word", wordEntry),
		widget.NewFormItem("Meaning", meaningEntry),
	}

	d := dialog.NewForm("Add to vocabulary", "Add", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		w, inserted, err := a.sess.AddManual(wordEntry.Text, meaningEntry.Text)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if !inserted {
			a.statusLabel.SetText(fmt.Sprintf("%s is already in your vocabulary", w.Word))
		} else {
			a.log.Info("added by hand", slog.String("text", w.Word))
		}
		a.refresh()
	}, a.window)
	wordEntry.SetOnEscape(d.Hide)
	d.Resize(fyne.NewSize(420, 260))
	d.Show()
	a.window.Canvas().Focus(wordEntry)
}

func (a *Application) onExportPDF() {
	text := a.applyDocument()
	a.saveAs(".pdf", "PDF", func(path string) (string, error) {
		a.commitDocument(text)
		pages, err := a.sess.Export(a.ctx, nil, path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Exported %d pages to %s", pages, filepath.Base(path)), nil
	})
}

// onExportAnki writes an APKG, or a CSV when the chosen name ends in .csv
func (a *Application) onExportAnki() {
	words := a.sess.Words()
	a.saveAs(".apkg", "Anki", func(path string) (string, error) {
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			gen := anki.NewGenerator(&anki.GeneratorOptions{OutputPath: path, IncludeHeaders: true})
			gen.AddWords(words)
			if err := gen.GenerateCSV(); err != nil {
				return "", err
			}
		} else {
			gen := anki.NewGenerator(nil)
			gen.AddWords(words)
			if err := gen.GenerateAPKG(path, a.opts.DeckName); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Exported %d cards to %s", len(words), filepath.Base(path)), nil
	})
}

func (a *Application) onExportDOCX() {
	words := a.sess.Words()
	opts := report.DefaultOptions()
	opts.Document = a.sess.Document()
	a.saveAs(".docx", "Word", func(path string) (string, error) {
		if err := report.DOCX(path, words, opts); err != nil {
			return "", err
		}
		return fmt.Sprintf("Exported %d words to %s", len(words), filepath.Base(path)), nil
	})
}

// saveAs asks for a file name and runs export in the background
func (a *Application) saveAs(ext, kind string, export func(path string) (string, error)) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		// The exporters create the file themselves.
		writer.Close()

		a.statusLabel.SetText(fmt.Sprintf("Exporting %s...", kind))
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			msg, err := export(path)
			if err != nil {
				a.log.Error("export failed", slog.String("kind", kind), slog.Any("error", err))
				a.showError(fmt.Errorf("%s export failed: %w", kind, err))
				return
			}
			a.log.Info("exported", slog.String("kind", kind), slog.String("path", path))
			fyne.Do(func() { a.statusLabel.SetText(msg) })
		}()
	}, a.window)
	d.SetFileName(a.opts.NameFor(a.sess.Document()) + ext)
	if dir, err := storage.ListerForURI(storage.NewFileURI(a.opts.ExportDir)); err == nil {
		d.SetLocation(dir)
	}
	d.Show()
}

// onCompose drafts a speech and loads it as the document
func (a *Application) onCompose() {
	topicEntry := NewCustomEntry()
	topicEntry.SetPlaceHolder("Topic of the speech")
	language := widget.NewRadioGroup([]string{"en", "zh"}, nil)
	language.Horizontal = true
	language.SetSelected("en")
	style := widget.NewSelect([]string{"formal", "casual", "inspiring", "humorous"}, nil)
	style.SetSelected("formal")
	length := widget.NewSelect([]string{"short", "medium", "long"}, nil)
	length.SetSelected("medium")

	items := []*widget.FormItem{
		widget.NewFormItem("Topic", topicEntry),
		widget.NewFormItem("Language", language),
		widget.NewFormItem("Style", style),
		widget.NewFormItem("Length", length),
	}

	d := dialog.NewForm("Draft a speech", "Draft", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		req := compose.Request{
			Topic:    topicEntry.Text,
			Language: language.Selected,
			Style:    style.Selected,
			Length:   length.Selected,
		}
		a.statusLabel.SetText("Drafting speech...")
		a.composeButton.Disable()

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			draft, err := a.opts.Composer.Compose(a.ctx, req)
			fyne.Do(func() {
				a.composeButton.Enable()
				if err != nil {
					a.statusLabel.SetText("Ready")
					if errors.Is(err, compose.ErrEmptyTopic) {
						dialog.ShowInformation("Draft a speech", "Please enter a topic.", a.window)
						return
					}
					dialog.ShowError(fmt.Errorf("%s: %w", compose.ErrorMessage, err), a.window)
					return
				}
				a.loadDraft(draft)
			})
		}()
	}, a.window)
	topicEntry.SetOnEscape(d.Hide)
	d.Resize(fyne.NewSize(420, 300))
	d.Show()
	a.window.Canvas().Focus(topicEntry)
}

func (a *Application) loadDraft(draft *compose.Draft) {
	a.setDocumentText(draft.Speech)
	a.statusLabel.SetText("Speech drafted, select words to annotate it")
	a.log.Info("speech drafted", slog.Int("runes", len([]rune(draft.Speech))))

	if draft.Translation == "" {
		return
	}
	translation := widget.NewLabel(draft.Translation)
	translation.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(translation)
	scroll.SetMinSize(fyne.NewSize(480, 320))
	dialog.ShowCustom("中文翻译", "Close", scroll, a.window)
}

func (a *Application) onShowHotkeys() {
	hotkeys := widget.NewRichTextFromMarkdown(`
**Selection**

- Drag over text, or select with Shift+arrows and press Return, to look it up
- Escape leaves the document

**Shortcuts**

- Ctrl+R: read the document aloud, or stop
- Ctrl+M: add the last selection with your own meaning
- Ctrl+E: export the reader as PDF
`)
	dialog.ShowCustom("Keyboard Shortcuts", "Close", hotkeys, a.window)
}

// showError reports err from a background goroutine
func (a *Application) showError(err error) {
	fyne.Do(func() {
		a.statusLabel.SetText("Ready")
		dialog.ShowError(err, a.window)
	})
}
