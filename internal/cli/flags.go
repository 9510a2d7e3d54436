package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	LogLevel   string
	LogFormat  string
	ListModels bool

	// Dictionary flags
	DictProvider string
	ProxyURL     string
	DictTimeout  time.Duration

	// Speech flags
	SpeechProvider string
	OpenAIModel    string
	OpenAIVoice    string
	OpenAISpeed    float64
	CacheDir       string

	// Export flags
	Output   string
	Scale    float64
	FontPath string

	// Annotate flags
	SelectionsFile string
	Selections     []string
	PDFFile        string
	AnkiFile       string
	CSVFile        string
	DOCXFile       string
	DeckName       string
	ReadAloud      bool

	// Compose flags
	ComposeProvider string
	ComposeModel    string
	Language        string
	Style           string
	Length          string
	AnnotateDraft   bool

	// Serve flags
	Addr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:        "info",
		LogFormat:       "text",
		DictProvider:    "youdao",
		DictTimeout:     10 * time.Second,
		SpeechProvider:  "auto",
		OpenAIModel:     "gpt-4o-mini-tts",
		OpenAIVoice:     "alloy",
		OpenAISpeed:     1.0,
		Output:          "glossa.pdf",
		Scale:           2,
		DeckName:        "Glossa Vocabulary",
		ComposeProvider: "openai",
		Language:        "en",
		Style:           "formal",
		Length:          "medium",
		Addr:            ":3000",
	}
}
