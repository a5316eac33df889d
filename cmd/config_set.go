package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yakschuss/dialkit-rails/internal/config"
)

var configSetCmd = &cobra.Command{
	Use:   "config:set <key> <value>",
	Short: "Set a value in the dialkit config file",
	Long: `Set a dotted key in the config file in use, creating it when missing.
Comments and the order of other keys are kept.

Examples:
  dialkit config:set position top-left
  dialkit config:set tracing.enabled true
  dialkit config:set theme.accent "#ff5500"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configSetCmd)
}
