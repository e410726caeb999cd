package cli

import (
	"fmt"
	"strings"

	"github.com/morozRed/linkshere/internal/output"
	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, fallback bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return fallback, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func ParseOutputFormat(cmd *cobra.Command) (output.Format, error) {
	value, err := OptionalStringFlag(cmd, "format")
	if err != nil {
		return "", err
	}
	return output.ParseFormat(value)
}

// runFlags are the switches shared by every command that builds the graph.
type runFlags struct {
	configPath string
	dryRun     bool
	verbose    bool
	prune      bool
	asJSON     bool
}

func parseRunFlags(cmd *cobra.Command) (runFlags, error) {
	var flags runFlags
	var err error
	if flags.configPath, err = OptionalStringFlag(cmd, "config"); err != nil {
		return flags, err
	}
	if flags.dryRun, err = OptionalBoolFlag(cmd, "dry-run", false); err != nil {
		return flags, err
	}
	if flags.verbose, err = OptionalBoolFlag(cmd, "verbose", false); err != nil {
		return flags, err
	}
	if flags.prune, err = OptionalBoolFlag(cmd, "prune", false); err != nil {
		return flags, err
	}
	if flags.asJSON, err = OptionalBoolFlag(cmd, "json", false); err != nil {
		return flags, err
	}
	return flags, nil
}
