// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarbot/internal/config"
	"github.com/pdiddy/scholarbot/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration after defaults, the config file, and
environment overrides have been applied. API keys are never printed; use
--check to validate that every stage has what it needs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if check, _ := cmd.Flags().GetBool("check"); check {
			if err := config.Validate(cfg, types.AllStages...); err != nil {
				return err
			}
			fmt.Println("configuration OK for stages:", types.AllStages)
			return nil
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("check", false, "validate the configuration for all stages")
	rootCmd.AddCommand(configCmd)
}
