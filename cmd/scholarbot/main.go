// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholarbot CLI. Each pipeline
// stage is a subcommand (collect, summarize, insights, related-work); run
// chains all four, show renders existing artifacts, and library manages the
// local index of past results.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/pdiddy/scholarbot/internal/config"
	"github.com/pdiddy/scholarbot/internal/observability"
	"github.com/pdiddy/scholarbot/internal/secrets"
	"github.com/pdiddy/scholarbot/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Set by the root command before any subcommand runs.
var (
	cfg    *types.Config
	logger zerolog.Logger
)

// rootCmd is the base command for the scholarbot CLI.
var rootCmd = &cobra.Command{
	Use:   "scholarbot",
	Short: "Literature review assistant: papers, summaries, insights, related work",
	Long: `scholarbot turns a research topic into a draft "Related Work" section.

The pipeline has four stages, each a subcommand that reads the previous
stage's CSV artifact and writes its own:

  collect       search Semantic Scholar and write <topic>_papers.csv
  summarize     condense each abstract into <topic>_papers_summarized.csv
  insights      derive insights and a hypothesis per paper
  related-work  synthesize related_work.md from all insights

Use run to execute all four in order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		boot := observability.NewLogger(types.DefaultConfig().Logging)

		if err := gotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(secrets.DefaultDir, boot)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			boot.Debug().Strs("keys", s.Names()).Msg("loaded secrets")
		}

		c, err := config.Load(viper.GetViper(), s)
		if err != nil {
			return err
		}
		if err := config.Validate(c); err != nil {
			return err
		}
		cfg = c
		logger = observability.NewLogger(cfg.Logging)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug().Str("file", f).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholarbot.yaml or ~/.config/scholarbot/scholarbot.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for pipeline artifacts (default \".\")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")

	_ = viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output-dir"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholarbot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholarbot"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
