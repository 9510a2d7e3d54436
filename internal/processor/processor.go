package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/glossa/internal"
	"codeberg.org/snonux/glossa/internal/anki"
	"codeberg.org/snonux/glossa/internal/audio"
	"codeberg.org/snonux/glossa/internal/batch"
	"codeberg.org/snonux/glossa/internal/cli"
	"codeberg.org/snonux/glossa/internal/compose"
	"codeberg.org/snonux/glossa/internal/dictionary"
	"codeberg.org/snonux/glossa/internal/export"
	"codeberg.org/snonux/glossa/internal/gui"
	"codeberg.org/snonux/glossa/internal/models"
	"codeberg.org/snonux/glossa/internal/proxy"
	"codeberg.org/snonux/glossa/internal/report"
	"codeberg.org/snonux/glossa/internal/resolver"
	"codeberg.org/snonux/glossa/internal/session"
	"codeberg.org/snonux/glossa/internal/speech"
	"codeberg.org/snonux/glossa/internal/translation"
)

// Processor runs glossa commands against the resolved configuration
type Processor struct {
	flags  *cli.Flags
	config cli.Config
	log    *slog.Logger
	out    io.Writer
}

// NewProcessor creates a new processor writing user output to stdout
func NewProcessor(flags *cli.Flags, config cli.Config, logger *slog.Logger) *Processor {
	return &Processor{
		flags:  flags,
		config: config,
		log:    logger,
		out:    os.Stdout,
	}
}

// SetOutput redirects user-facing output
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// NewDictionary builds the configured dictionary behind a circuit breaker
func (p *Processor) NewDictionary() (dictionary.Dictionary, error) {
	cfg := p.config.Dictionary

	var dict dictionary.Dictionary
	switch cfg.Provider {
	case "youdao":
		if cfg.AppKey == "" || cfg.AppSecret == "" {
			p.log.Warn("youdao credentials missing, every lookup will fail",
				slog.String("hint", "set YOUDAO_APP_KEY and YOUDAO_APP_SECRET or use --dictionary=proxy"))
		}
		dict = dictionary.NewYoudao(dictionary.YoudaoConfig{
			AppKey:    cfg.AppKey,
			AppSecret: cfg.AppSecret,
			Timeout:   cfg.Timeout,
		}, p.log)
	case "proxy":
		if cfg.ProxyURL == "" {
			return nil, fmt.Errorf("dictionary provider proxy needs --proxy-url")
		}
		dict = dictionary.NewProxyClient(cfg.ProxyURL, cfg.Timeout, p.log)
	default:
		return nil, fmt.Errorf("unknown dictionary provider: %s", cfg.Provider)
	}

	return dictionary.NewBreaker(dict, dictionary.DefaultBreakerConfig(), p.log), nil
}

// NewSpeechEngine builds the speech engine. A nil engine with a nil error
// means readback is unavailable on this machine.
func (p *Processor) NewSpeechEngine() (speech.Engine, error) {
	cfg := p.config.Speech

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(dir, "glossa", "speech")
		}
	}

	provider, err := audio.NewProvider(&audio.Config{
		Provider:    cfg.Provider,
		CacheDir:    cacheDir,
		OpenAIKey:   cfg.OpenAIKey,
		OpenAIModel: cfg.OpenAIModel,
		OpenAIVoice: cfg.OpenAIVoice,
		OpenAISpeed: cfg.OpenAISpeed,
		ESpeak:      audio.DefaultESpeakConfig(),
	}, p.log)
	if err != nil {
		return nil, fmt.Errorf("speech provider: %w", err)
	}

	player := audio.NewSystemPlayer()
	if err := player.IsAvailable(); err != nil {
		p.log.Warn("no audio player found, read aloud disabled", slog.String("error", err.Error()))
		return nil, nil
	}

	p.log.Debug("speech engine ready", slog.String("provider", provider.Name()))
	return audio.NewEngine(provider, player, "", p.log), nil
}

// NewSession creates a reading session with all configured adapters
func (p *Processor) NewSession() (*session.Session, error) {
	dict, err := p.NewDictionary()
	if err != nil {
		return nil, err
	}

	deps := session.Deps{
		Dictionary: dict,
		FontPath:   p.config.Export.Font,
		Logger:     p.log,
	}

	engine, err := p.NewSpeechEngine()
	if err != nil {
		p.log.Warn("speech unavailable", slog.String("error", err.Error()))
	} else if engine != nil {
		deps.Speech = engine
	}

	exportConfig := export.DefaultConfig()
	if p.config.Export.Scale > 0 {
		exportConfig.Scale = p.config.Export.Scale
	}
	deps.Export = &exportConfig

	return session.New(deps)
}

// NewChat builds the configured chat provider
func (p *Processor) NewChat(ctx context.Context) (translation.Chat, error) {
	cfg := p.config.Compose
	switch cfg.Provider {
	case "openai":
		chat, err := translation.NewOpenAIChat(cfg.OpenAIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return chat, nil
	case "gemini":
		chat, err := translation.NewGeminiChat(ctx, cfg.GeminiKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return chat, nil
	default:
		return nil, fmt.Errorf("unknown compose provider: %s", cfg.Provider)
	}
}

// NewComposer builds a speech composer using the configured chat provider
// for both drafting and translation
func (p *Processor) NewComposer(ctx context.Context) (*compose.Composer, error) {
	chat, err := p.NewChat(ctx)
	if err != nil {
		return nil, err
	}
	return compose.New(chat, translation.NewTranslator(chat, p.log), p.log), nil
}

// Lookup resolves one selection and prints the annotation
func (p *Processor) Lookup(ctx context.Context, text string) error {
	sess, err := p.NewSession()
	if err != nil {
		return err
	}

	res := sess.Select(ctx, text)
	if res.Outcome == resolver.Ignored {
		return resolver.ErrEmptySelection
	}

	w := res.Word
	fmt.Fprintf(p.out, "%s%s\n", w.Word, phoneticSuffix(w.Phonetic))
	for _, line := range strings.Split(w.Meaning, "\n") {
		fmt.Fprintf(p.out, "  %s\n", line)
	}
	if res.Outcome == resolver.Failed {
		fmt.Fprintf(p.out, "  (%s: %v)\n", res.Outcome, res.Err)
	}
	return nil
}

// Annotate loads file as the document, applies selections and exports
func (p *Processor) Annotate(ctx context.Context, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	sess, err := p.NewSession()
	if err != nil {
		return err
	}
	sess.SetDocument(string(data))
	fmt.Fprintf(p.out, "Loaded %s (%s, %d tokens)\n", file, anki.LanguageName(sess.Language()), len(sess.Tokens()))

	var entries []batch.Entry
	for _, s := range p.flags.Selections {
		entries = append(entries, batch.Entry{Text: s})
	}
	if p.flags.SelectionsFile != "" {
		fromFile, err := batch.ReadSelectionsFile(p.flags.SelectionsFile)
		if err != nil {
			return err
		}
		entries = append(entries, fromFile...)
	}

	if len(entries) > 0 {
		sum, err := batch.Apply(ctx, sess, entries, p.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "\n=== Selection Summary ===\n")
		fmt.Fprintf(p.out, "Total selections: %d\n", len(entries))
		fmt.Fprintf(p.out, "Looked up: %d\n", sum.Resolved)
		fmt.Fprintf(p.out, "Manual: %d\n", sum.Manual)
		fmt.Fprintf(p.out, "Already known: %d\n", sum.Highlighted)
		if sum.Failed > 0 {
			fmt.Fprintf(p.out, "Lookup failed: %d\n", sum.Failed)
		}
		if sum.Skipped > 0 {
			fmt.Fprintf(p.out, "Skipped: %d\n", sum.Skipped)
		}
	}

	if err := p.exportAll(ctx, sess); err != nil {
		return err
	}

	if p.flags.ReadAloud {
		return p.readAloud(ctx, sess)
	}
	return nil
}

func (p *Processor) exportAll(ctx context.Context, sess *session.Session) error {
	var errs []error
	words := sess.Words()

	if p.flags.PDFFile != "" {
		pages, err := sess.Export(ctx, nil, p.flags.PDFFile)
		if err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(p.out, "PDF created: %s (%d pages)\n", p.flags.PDFFile, pages)
		}
	}

	if p.flags.AnkiFile != "" || p.flags.CSVFile != "" {
		gen := anki.NewGenerator(&anki.GeneratorOptions{
			OutputPath:     p.flags.CSVFile,
			IncludeHeaders: true,
		})
		gen.AddWords(words)

		if p.flags.AnkiFile != "" {
			if err := gen.GenerateAPKG(p.flags.AnkiFile, p.flags.DeckName); err != nil {
				errs = append(errs, fmt.Errorf("anki: %w", err))
			} else {
				fmt.Fprintf(p.out, "Anki package created: %s (%d cards)\n", p.flags.AnkiFile, len(words))
			}
		}
		if p.flags.CSVFile != "" {
			if err := gen.GenerateCSV(); err != nil {
				errs = append(errs, fmt.Errorf("csv: %w", err))
			} else {
				fmt.Fprintf(p.out, "CSV created: %s\n", p.flags.CSVFile)
			}
		}
	}

	if p.flags.DOCXFile != "" {
		opts := report.DefaultOptions()
		opts.Document = sess.Document()
		if err := report.DOCX(p.flags.DOCXFile, words, opts); err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(p.out, "Word document created: %s\n", p.flags.DOCXFile)
		}
	}

	return errors.Join(errs...)
}

// readAloud reads the document and waits for it to finish or ctx to end
func (p *Processor) readAloud(ctx context.Context, sess *session.Session) error {
	done := make(chan struct{}, 1)
	sess.OnPlaybackChange(func(pb speech.Playback) {
		if !pb.Active {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})

	pb, err := sess.ToggleReadAloud(ctx)
	if err != nil {
		return err
	}
	if !pb.Active {
		return nil
	}
	fmt.Fprintf(p.out, "Reading aloud (%s)...\n", pb.Locale)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		sess.StopSpeech()
		return ctx.Err()
	}
}

// Compose drafts a speech and prints it
func (p *Processor) Compose(ctx context.Context, topic string) error {
	composer, err := p.NewComposer(ctx)
	if err != nil {
		return err
	}

	draft, err := composer.Compose(ctx, compose.Request{
		Topic:    topic,
		Language: p.flags.Language,
		Style:    p.flags.Style,
		Length:   p.flags.Length,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, draft.Speech)
	if draft.Translation != "" {
		fmt.Fprintf(p.out, "\n--- 中文翻译 ---\n%s\n", draft.Translation)
	}

	if p.flags.Output != "" {
		content := draft.Speech + "\n"
		if draft.Translation != "" {
			content += "\n" + draft.Translation + "\n"
		}
		if err := os.WriteFile(p.flags.Output, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write draft: %w", err)
		}
	}

	if p.flags.AnnotateDraft {
		return p.RunGUIMode(ctx, draft.Speech)
	}
	return nil
}

// Serve runs the translation proxy until ctx is cancelled
func (p *Processor) Serve(ctx context.Context) error {
	cfg := p.config.Dictionary
	if cfg.AppKey == "" || cfg.AppSecret == "" {
		p.log.Warn("youdao credentials missing, /api/translate will answer 500")
	}
	dict := dictionary.NewYoudao(dictionary.YoudaoConfig{
		AppKey:    cfg.AppKey,
		AppSecret: cfg.AppSecret,
		Timeout:   cfg.Timeout,
	}, p.log)

	var composer proxy.Composer
	if c, err := p.NewComposer(ctx); err != nil {
		p.log.Warn("speech drafting disabled", slog.String("error", err.Error()))
	} else {
		composer = c
	}

	fmt.Fprintf(p.out, "Translation proxy listening on %s\n", p.config.ServeAddr)
	return proxy.NewServer(dict, composer, internal.Version, p.log).ListenAndServe(ctx, p.config.ServeAddr)
}

// ListModels prints the OpenAI models available to the configured key
func (p *Processor) ListModels(ctx context.Context) error {
	return models.NewLister(p.config.Speech.OpenAIKey, "").ListAvailableModels(ctx, p.out)
}

// RunGUIMode launches the desktop reader with an optional initial document
func (p *Processor) RunGUIMode(ctx context.Context, document string) error {
	sess, err := p.NewSession()
	if err != nil {
		return err
	}
	if document != "" {
		sess.SetDocument(document)
	}

	opts := gui.DefaultOptions()
	if dir, err := filepath.Abs(filepath.Dir(p.config.Export.Output)); err == nil {
		opts.ExportDir = dir
	}
	opts.DeckName = p.flags.DeckName
	opts.NameFor = DefaultExportName
	if composer, err := p.NewComposer(ctx); err == nil {
		opts.Composer = composer
	}

	app := gui.New(sess, opts, p.log)
	app.Run()
	return nil
}

// DefaultExportName derives a file stem from the first line of a document
func DefaultExportName(document string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(document), "\n")
	if utf8.RuneCountInString(line) > 32 {
		line = string([]rune(line)[:32])
	}
	name := strings.Trim(internal.SanitizeFilename(line), "_")
	if name == "" {
		return "glossa"
	}
	return name
}

func phoneticSuffix(phonetic string) string {
	if phonetic == "" {
		return ""
	}
	return " [" + phonetic + "]"
}
