// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the pipeline configuration from defaults, an optional
// config file, environment variables, and the .secrets/ directory, and
// validates it before any client is constructed.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholarbot/pkg/types"
)

// EnvPrefix is the prefix for environment overrides (e.g. SCHOLARBOT_SEARCH_MAX_RESULTS).
const EnvPrefix = "SCHOLARBOT"

// Secret file names looked up in the .secrets/ directory.
const (
	SecretSemanticScholar = "semantic-scholar-api-key"
	SecretOpenRouter      = "openrouter-api-key"
	SecretHuggingFace     = "huggingface-api-key"
)

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Load applies defaults and environment bindings to v, unmarshals the result,
// and fills empty API keys from secrets. Config files must already have been
// read into v by the caller.
func Load(v *viper.Viper, secrets map[string]string) (*types.Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Legacy variable names accepted alongside the prefixed ones.
	bindings := map[string][]string{
		"search.api_key":                 {EnvPrefix + "_SEARCH_API_KEY", "SEMANTIC_SCHOLAR_API_KEY"},
		"completion.api_key":             {EnvPrefix + "_COMPLETION_API_KEY", "OPENROUTER_API_KEY"},
		"summarizer.huggingface.api_key": {EnvPrefix + "_SUMMARIZER_HUGGINGFACE_API_KEY", "HUGGINGFACE_API_KEY", "HF_TOKEN"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applySecrets(&cfg, secrets)
	return &cfg, nil
}

func applySecrets(cfg *types.Config, secrets map[string]string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = secrets[key]
		}
	}
	fill(&cfg.Search.APIKey, SecretSemanticScholar)
	fill(&cfg.Completion.APIKey, SecretOpenRouter)
	fill(&cfg.Summarizer.HuggingFace.APIKey, SecretHuggingFace)
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("search.base_url", d.Search.BaseURL)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", d.Search.MaxResults)

	v.SetDefault("summarizer.backend", string(d.Summarizer.Backend))
	v.SetDefault("summarizer.workers", d.Summarizer.Workers)
	v.SetDefault("summarizer.max_input_chars", d.Summarizer.MaxInputChars)
	v.SetDefault("summarizer.min_length", d.Summarizer.MinLength)
	v.SetDefault("summarizer.max_length", d.Summarizer.MaxLength)
	v.SetDefault("summarizer.huggingface.timeout", d.Summarizer.HuggingFace.Timeout)
	v.SetDefault("summarizer.huggingface.user_agent", d.Summarizer.HuggingFace.UserAgent)
	v.SetDefault("summarizer.huggingface.base_url", d.Summarizer.HuggingFace.BaseURL)
	v.SetDefault("summarizer.huggingface.model", d.Summarizer.HuggingFace.Model)
	v.SetDefault("summarizer.huggingface.api_key", "")

	v.SetDefault("completion.timeout", d.Completion.Timeout)
	v.SetDefault("completion.user_agent", d.Completion.UserAgent)
	v.SetDefault("completion.base_url", d.Completion.BaseURL)
	v.SetDefault("completion.model", d.Completion.Model)
	v.SetDefault("completion.api_key", "")
	v.SetDefault("completion.max_attempts", d.Completion.MaxAttempts)
	v.SetDefault("completion.retry_delay", d.Completion.RetryDelay)
	v.SetDefault("completion.requests_per_minute", d.Completion.RequestsPerMinute)

	v.SetDefault("insights.skip_placeholder_summaries", d.Insights.SkipPlaceholderSummaries)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.related_work_file", d.Output.RelatedWorkFile)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("library.dir", d.Library.Dir)
	v.SetDefault("library.max_results", d.Library.MaxResults)
}

// Validate checks struct constraints and the requirements of the stages
// about to run. It fails on the first problem found so that a missing key
// is reported at startup, not halfway through a batch.
func Validate(cfg *types.Config, stages ...types.Stage) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q (value %v)", ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for _, s := range stages {
		switch s {
		case types.StageSummarize:
			if cfg.Summarizer.Backend == types.SummarizerHuggingFace {
				if cfg.Summarizer.HuggingFace.BaseURL == "" || cfg.Summarizer.HuggingFace.Model == "" {
					return fmt.Errorf("%w: huggingface backend requires summarizer.huggingface.base_url and model", ErrInvalidConfig)
				}
			}
		case types.StageInsights, types.StageRelatedWork:
			if cfg.Completion.APIKey == "" {
				return fmt.Errorf("%w: stage %s requires a completion API key (OPENROUTER_API_KEY, %s_COMPLETION_API_KEY, or .secrets/%s)",
					ErrInvalidConfig, s, EnvPrefix, SecretOpenRouter)
			}
		case types.StageCollect:
			// The Semantic Scholar key is optional.
		default:
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidConfig, s)
		}
	}
	return nil
}
