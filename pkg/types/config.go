// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Stage identifies one of the four pipeline phases.
type Stage string

const (
	StageCollect     Stage = "collect"
	StageSummarize   Stage = "summarize"
	StageInsights    Stage = "insights"
	StageRelatedWork Stage = "related-work"
)

// AllStages lists the stages in execution order.
var AllStages = []Stage{StageCollect, StageSummarize, StageInsights, StageRelatedWork}

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholarbot/0.1").
	UserAgent string `mapstructure:"user_agent" json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the paper retrieval stage.
type SearchConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	// BaseURL is the Semantic Scholar Graph API root.
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url" validate:"required,url"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `mapstructure:"api_key" json:"-" yaml:"-"`

	// MaxResults is the number of papers to request (default 20).
	MaxResults int `mapstructure:"max_results" json:"max_results" yaml:"max_results" validate:"gte=1,lte=100"`
}

// SummarizerBackend selects the condensation implementation.
type SummarizerBackend string

const (
	// SummarizerExtractive condenses in-process by sentence selection.
	SummarizerExtractive SummarizerBackend = "extractive"

	// SummarizerHuggingFace calls a Hugging Face summarization endpoint.
	SummarizerHuggingFace SummarizerBackend = "huggingface"
)

// HuggingFaceConfig holds settings for the Hugging Face inference backend.
type HuggingFaceConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	// BaseURL is the inference API root; the model name is appended.
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Model is the summarization model (e.g. "sshleifer/distilbart-cnn-12-6").
	Model string `mapstructure:"model" json:"model" yaml:"model"`

	// APIKey is the bearer token for the inference API.
	APIKey string `mapstructure:"api_key" json:"-" yaml:"-"`
}

// SummarizerConfig holds settings for the summarize stage.
type SummarizerConfig struct {
	// Backend selects the condenser: extractive or huggingface.
	Backend SummarizerBackend `mapstructure:"backend" json:"backend" yaml:"backend" validate:"oneof=extractive huggingface"`

	// Workers bounds the number of abstracts condensed at once.
	// Zero means one worker per available CPU.
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" validate:"gte=0"`

	// MaxInputChars truncates each abstract before condensation (default 2000).
	MaxInputChars int `mapstructure:"max_input_chars" json:"max_input_chars" yaml:"max_input_chars" validate:"gt=0"`

	// MinLength and MaxLength bound the summary length in tokens (default 50-60).
	MinLength int `mapstructure:"min_length" json:"min_length" yaml:"min_length" validate:"gt=0"`
	MaxLength int `mapstructure:"max_length" json:"max_length" yaml:"max_length" validate:"gtefield=MinLength"`

	HuggingFace HuggingFaceConfig `mapstructure:"huggingface" json:"huggingface" yaml:"huggingface"`
}

// CompletionConfig holds settings for the remote text-generation client
// shared by the insights and related-work stages.
type CompletionConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	// BaseURL is the chat-completions API root (e.g. "https://openrouter.ai/api/v1").
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url" validate:"required,url"`

	// Model is the model identifier sent with every request.
	Model string `mapstructure:"model" json:"model" yaml:"model" validate:"required"`

	// APIKey is the bearer token for the completion API.
	APIKey string `mapstructure:"api_key" json:"-" yaml:"-"`

	// MaxAttempts caps the number of calls made for one prompt when the
	// service keeps answering 429 (default 5).
	MaxAttempts int `mapstructure:"max_attempts" json:"max_attempts" yaml:"max_attempts" validate:"gte=1"`

	// RetryDelay is the fixed wait after a 429 before the next attempt (default 10s).
	RetryDelay time.Duration `mapstructure:"retry_delay" json:"retry_delay" yaml:"retry_delay" validate:"gte=0"`

	// RequestsPerMinute paces outbound calls client-side. Zero disables pacing.
	RequestsPerMinute float64 `mapstructure:"requests_per_minute" json:"requests_per_minute" yaml:"requests_per_minute" validate:"gte=0"`
}

// InsightsConfig holds settings for the insights stage.
type InsightsConfig struct {
	// SkipPlaceholderSummaries treats rows whose summary is the
	// "no abstract" placeholder as empty, so no completion call is made.
	SkipPlaceholderSummaries bool `mapstructure:"skip_placeholder_summaries" json:"skip_placeholder_summaries" yaml:"skip_placeholder_summaries"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	// Dir is the directory holding the CSV artifacts (default ".").
	Dir string `mapstructure:"dir" json:"dir" yaml:"dir" validate:"required"`

	// RelatedWorkFile is the document artifact name (default "related_work.md").
	RelatedWorkFile string `mapstructure:"related_work_file" json:"related_work_file" yaml:"related_work_file" validate:"required"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `mapstructure:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn warning error"`

	// Format is json or console.
	Format string `mapstructure:"format" json:"format" yaml:"format" validate:"oneof=json console pretty"`

	// Output is stdout or stderr.
	Output string `mapstructure:"output" json:"output" yaml:"output" validate:"oneof=stdout stderr"`
}

// LibraryConfig holds settings for the local paper library index.
type LibraryConfig struct {
	// Dir is the directory for the library database and exports.
	Dir string `mapstructure:"dir" json:"dir" yaml:"dir" validate:"required"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `mapstructure:"max_results" json:"max_results" yaml:"max_results" validate:"gte=1"`
}

// Config groups all pipeline settings. It is built once at startup and
// passed explicitly into each client constructor.
type Config struct {
	Search     SearchConfig     `mapstructure:"search" json:"search" yaml:"search"`
	Summarizer SummarizerConfig `mapstructure:"summarizer" json:"summarizer" yaml:"summarizer"`
	Completion CompletionConfig `mapstructure:"completion" json:"completion" yaml:"completion"`
	Insights   InsightsConfig   `mapstructure:"insights" json:"insights" yaml:"insights"`
	Output     OutputConfig     `mapstructure:"output" json:"output" yaml:"output"`
	Logging    LoggingConfig    `mapstructure:"logging" json:"logging" yaml:"logging"`
	Library    LibraryConfig    `mapstructure:"library" json:"library" yaml:"library"`
}

const defaultUserAgent = "scholarbot/0.1"

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: defaultUserAgent},
			BaseURL:    "https://api.semanticscholar.org/graph/v1",
			MaxResults: 20,
		},
		Summarizer: SummarizerConfig{
			Backend:       SummarizerExtractive,
			MaxInputChars: 2000,
			MinLength:     50,
			MaxLength:     60,
			HuggingFace: HuggingFaceConfig{
				HTTPConfig: HTTPConfig{Timeout: 120 * time.Second, UserAgent: defaultUserAgent},
				BaseURL:    "https://api-inference.huggingface.co/models",
				Model:      "sshleifer/distilbart-cnn-12-6",
			},
		},
		Completion: CompletionConfig{
			HTTPConfig:  HTTPConfig{Timeout: 120 * time.Second, UserAgent: defaultUserAgent},
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "mistralai/mistral-7b-instruct:free",
			MaxAttempts: 5,
			RetryDelay:  10 * time.Second,
		},
		Output: OutputConfig{
			Dir:             ".",
			RelatedWorkFile: "related_work.md",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Library: LibraryConfig{
			Dir:        "library",
			MaxResults: 20,
		},
	}
}
