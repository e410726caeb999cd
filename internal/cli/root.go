package cli

import (
	"fmt"

	"github.com/morozRed/linkshere/internal/output"
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "links-here [path]",
		Short: "Generate backlink lists for a static site content tree",
		Long: `links-here scans a content tree for documents, collects the
{{< ref name >}} and {{< note name >}} references between them, and
writes a links-here.md and indexed-by.md file next to every backlinked
document listing the pages that point at it.

Running without a subcommand is the same as "links-here generate".
Nothing is written when any reference is broken.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         RunGenerate,
	}
	addRunFlags(rootCmd)

	// Build Commands
	generateCmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Validate references and write backlink files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunGenerate,
	}
	addRunFlags(generateCmd)

	checkCmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Fail when backlink files are missing or out of date",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunCheck,
	}
	addRunFlags(checkCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Regenerate backlink files whenever the content tree changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunWatch,
	}
	addRunFlags(watchCmd)

	// Inspect Commands
	graphCmd := &cobra.Command{
		Use:   "graph [path]",
		Short: "Print the validated reference graph",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunGraph,
	}
	graphCmd.Flags().String("config", "", "Path to a config file (default: <path>/.links-here.yaml)")
	graphCmd.Flags().BoolP("verbose", "v", false, "Log each parsed document")
	graphCmd.Flags().String("format", string(output.FormatText), "Output format: text|jsonl")
	graphCmd.Flags().Int("top", 0, "Only print the N most referenced documents")

	// Additional Commands
	installHookCmd := &cobra.Command{
		Use:   "install-hook [path]",
		Short: "Install git pre-commit hook that runs links-here check",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunInstallHook,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "links-here %s\n", version)
		},
	}

	rootCmd.AddCommand(
		generateCmd,
		checkCmd,
		watchCmd,
		graphCmd,
		installHookCmd,
		versionCmd,
	)

	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to a config file (default: <path>/.links-here.yaml)")
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolP("verbose", "v", false, "Echo generated lists and log each parsed document")
	cmd.Flags().Bool("prune", false, "Delete generated files whose list became empty")
	cmd.Flags().Bool("json", false, "Print machine-readable run summary")
}
