package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/glossa/internal"
)

// Commands is the glossa command tree. The caller sets each RunE.
type Commands struct {
	Root     *cobra.Command
	Lookup   *cobra.Command
	Annotate *cobra.Command
	Compose  *cobra.Command
	Serve    *cobra.Command
}

// CreateCommands creates and configures the cobra command tree
func CreateCommands(flags *Flags) *Commands {
	c := &Commands{
		Root: &cobra.Command{
			Use:   "glossa",
			Short: "Bilingual reading assistant for English and Chinese",
			Long: `glossa helps you read English and Chinese texts.

Select a word or phrase to look it up; it is highlighted in the text and
added to your vocabulary. Read the text aloud, then export the annotated
page to PDF or your vocabulary to Anki.

Examples:
  glossa                                   # Launch the desktop reader (default)
  glossa lookup 苹果                        # Look up a single selection
  glossa annotate story.txt --select fox --pdf story.pdf
  glossa compose "climate change" --language en
  glossa serve --addr :3000                # Run the translation proxy`,
			Args:    cobra.NoArgs,
			Version: internal.Version,
		},
		Lookup: &cobra.Command{
			Use:   "lookup <text>",
			Short: "Look up a selection and print its annotation",
			Args:  cobra.MinimumNArgs(1),
		},
		Annotate: &cobra.Command{
			Use:   "annotate <file>",
			Short: "Annotate a text file headlessly and export the results",
			Long: `annotate loads a text file as the document, applies selections from
--select and --selections, then exports to the requested formats.

Selections file format, one per line:
  fox            # looked up in the dictionary
  苹果 = apple    # added with the given meaning, no lookup`,
			Args: cobra.ExactArgs(1),
		},
		Compose: &cobra.Command{
			Use:   "compose <topic>",
			Short: "Draft a speech on a topic",
			Args:  cobra.MinimumNArgs(1),
		},
		Serve: &cobra.Command{
			Use:   "serve",
			Short: "Run the translation proxy server",
			Args:  cobra.NoArgs,
		},
	}

	setupFlags(c, flags)
	c.Root.AddCommand(c.Lookup, c.Annotate, c.Compose, c.Serve)

	return c
}

func setupFlags(c *Commands, flags *Flags) {
	pf := c.Root.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.glossa.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	// Dictionary flags
	pf.StringVar(&flags.DictProvider, "dictionary", flags.DictProvider, "Dictionary provider: youdao or proxy")
	pf.StringVar(&flags.ProxyURL, "proxy-url", "", "Translate endpoint when --dictionary=proxy (e.g. http://localhost:3000/api/translate)")
	pf.DurationVar(&flags.DictTimeout, "dictionary-timeout", flags.DictTimeout, "Dictionary request timeout")

	// Speech flags
	pf.StringVar(&flags.SpeechProvider, "speech", flags.SpeechProvider, "Speech provider: openai, espeak or auto")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	pf.StringVar(&flags.CacheDir, "cache-dir", "", "Directory for cached speech audio (default: user cache dir)")

	// Export flags
	pf.Float64Var(&flags.Scale, "scale", flags.Scale, "Export capture scale (at least 2)")
	pf.StringVar(&flags.FontPath, "font", "", "TTF/OTF font used for export, needed for Chinese glyphs")

	// Compose flags
	pf.StringVar(&flags.ComposeProvider, "compose-provider", flags.ComposeProvider, "Chat provider for compose: openai or gemini")
	pf.StringVar(&flags.ComposeModel, "compose-model", "", "Chat model for compose (default depends on provider)")

	c.Root.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	// Annotate flags
	af := c.Annotate.Flags()
	af.StringVar(&flags.SelectionsFile, "selections", "", "Apply selections from file (one per line, 'text = meaning' for manual entries)")
	af.StringArrayVar(&flags.Selections, "select", nil, "Select text (repeatable)")
	af.StringVar(&flags.PDFFile, "pdf", "", "Export the annotated page to this PDF file")
	af.StringVar(&flags.AnkiFile, "anki", "", "Export vocabulary to this Anki package (.apkg)")
	af.StringVar(&flags.CSVFile, "csv", "", "Export vocabulary to this CSV file")
	af.StringVar(&flags.DOCXFile, "docx", "", "Export vocabulary to this Word document")
	af.StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	af.BoolVar(&flags.ReadAloud, "read", false, "Read the document aloud and wait until done")

	// Compose flags
	cf := c.Compose.Flags()
	cf.StringVar(&flags.Language, "language", flags.Language, "Speech language: en or zh")
	cf.StringVar(&flags.Style, "style", flags.Style, "Speech style: formal or casual")
	cf.StringVar(&flags.Length, "length", flags.Length, "Speech length: short, medium or long")
	cf.BoolVar(&flags.AnnotateDraft, "annotate", false, "Open the draft in the desktop reader")
	cf.StringVar(&flags.Output, "output", "", "Also write the draft to this file")

	// Serve flags
	c.Serve.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")

	bindFlagsToViper(c)
}

// configKeys maps persistent flag names to viper keys
var configKeys = map[string]string{
	"log-level":          "log.level",
	"log-format":         "log.format",
	"dictionary":         "dictionary.provider",
	"proxy-url":          "dictionary.proxy_url",
	"dictionary-timeout": "dictionary.timeout",
	"speech":             "speech.provider",
	"openai-model":       "speech.openai_model",
	"openai-voice":       "speech.openai_voice",
	"openai-speed":       "speech.openai_speed",
	"cache-dir":          "speech.cache_dir",
	"scale":              "export.scale",
	"font":               "export.font",
	"compose-provider":   "compose.provider",
	"compose-model":      "compose.model",
}

func bindFlagsToViper(c *Commands) {
	bindFlagSet(c.Root.PersistentFlags(), configKeys)
	bindFlagSet(c.Serve.Flags(), map[string]string{"addr": "serve.addr"})
}

func bindFlagSet(fs *pflag.FlagSet, keys map[string]string) {
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := keys[f.Name]; ok {
			viper.BindPFlag(key, f)
		}
	})
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".glossa" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".glossa")
	}

	// Environment variables, e.g. GLOSSA_DICTIONARY_PROVIDER
	viper.SetEnvPrefix("GLOSSA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Config is the resolved configuration after flags, environment and config
// file have been merged.
type Config struct {
	Dictionary DictionaryConfig
	Speech     SpeechConfig
	Export     ExportConfig
	Compose    ComposeConfig
	ServeAddr  string
	LogLevel   string
	LogFormat  string
}

// DictionaryConfig selects and configures the dictionary adapter
type DictionaryConfig struct {
	Provider  string
	AppKey    string
	AppSecret string
	ProxyURL  string
	Timeout   time.Duration
}

// SpeechConfig configures speech synthesis
type SpeechConfig struct {
	Provider    string
	OpenAIKey   string
	OpenAIModel string
	OpenAIVoice string
	OpenAISpeed float64
	CacheDir    string
}

// ExportConfig configures PDF export
type ExportConfig struct {
	Output string
	Scale  float64
	Font   string
}

// ComposeConfig configures speech drafting
type ComposeConfig struct {
	Provider  string
	Model     string
	OpenAIKey string
	GeminiKey string
	BaseURL   string // overrides the provider endpoint, for gateways and tests
}

// LoadConfig reads the merged configuration from viper
func LoadConfig() Config {
	appKey, appSecret := GetYoudaoCredentials()
	openAIKey := GetOpenAIKey()

	return Config{
		Dictionary: DictionaryConfig{
			Provider:  stringOr("dictionary.provider", "youdao"),
			AppKey:    appKey,
			AppSecret: appSecret,
			ProxyURL:  viper.GetString("dictionary.proxy_url"),
			Timeout:   durationOr("dictionary.timeout", 10*time.Second),
		},
		Speech: SpeechConfig{
			Provider:    stringOr("speech.provider", "auto"),
			OpenAIKey:   openAIKey,
			OpenAIModel: stringOr("speech.openai_model", "gpt-4o-mini-tts"),
			OpenAIVoice: stringOr("speech.openai_voice", "alloy"),
			OpenAISpeed: floatOr("speech.openai_speed", 1.0),
			CacheDir:    viper.GetString("speech.cache_dir"),
		},
		Export: ExportConfig{
			Output: stringOr("export.output", "glossa.pdf"),
			Scale:  floatOr("export.scale", 2),
			Font:   viper.GetString("export.font"),
		},
		Compose: ComposeConfig{
			Provider:  stringOr("compose.provider", "openai"),
			Model:     viper.GetString("compose.model"),
			OpenAIKey: openAIKey,
			GeminiKey: GetGeminiKey(),
			BaseURL:   viper.GetString("compose.base_url"),
		},
		ServeAddr: stringOr("serve.addr", ":3000"),
		LogLevel:  stringOr("log.level", "info"),
		LogFormat: stringOr("log.format", "text"),
	}
}

func stringOr(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func floatOr(key string, def float64) float64 {
	if v := viper.GetFloat64(key); v != 0 {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	if v := viper.GetDuration(key); v > 0 {
		return v
	}
	return def
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("speech.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("compose.gemini_key")
}

// GetYoudaoCredentials retrieves the Youdao app key and secret from
// environment or config. Each value is resolved independently.
func GetYoudaoCredentials() (appKey, appSecret string) {
	appKey = os.Getenv("YOUDAO_APP_KEY")
	if appKey == "" {
		appKey = viper.GetString("dictionary.app_key")
	}
	appSecret = os.Getenv("YOUDAO_APP_SECRET")
	if appSecret == "" {
		appSecret = viper.GetString("dictionary.app_secret")
	}
	return appKey, appSecret
}
