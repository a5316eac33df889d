package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yakschuss/dialkit-rails/internal/controlspec"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [payload]",
	Short: "Expand a shorthand dial_kit config into explicit form",
	Long: `Read a shorthand dial_kit config (the marker payload) and print the
canonical explicit form of every control.

The payload is taken from the argument, or from stdin when omitted.

Examples:
  dialkit normalize '{"blur":[24,0,100],"dark":false}'
  echo '{"accent":"#ff5500"}' | dialkit normalize`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload string
		if len(args) == 1 {
			payload = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading payload: %w", err)
			}
			payload = string(data)
		}
		return normalizePayload(cmd.OutOrStdout(), payload)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func normalizePayload(w io.Writer, payload string) error {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return errors.New("empty payload")
	}
	m, err := controlspec.NormalizeJSON(payload)
	if err != nil {
		return err
	}
	out, err := controlspec.Encode(m)
	if err != nil {
		return fmt.Errorf("encoding normalized config: %w", err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
