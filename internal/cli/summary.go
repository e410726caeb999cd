package cli

import (
	"fmt"
	"io"

	"github.com/morozRed/linkshere/internal/fileutil"
	"github.com/morozRed/linkshere/internal/graph"
	"github.com/morozRed/linkshere/internal/output"
)

type RunSummary struct {
	Mode       string          `json:"mode"`
	RootPath   string          `json:"root_path"`
	ConfigPath string          `json:"config_path,omitempty"`
	DryRun     bool            `json:"dry_run"`
	Documents  int             `json:"documents"`
	Edges      int             `json:"edges"`
	Eligible   int             `json:"eligible"`
	Written    []string        `json:"written,omitempty"`
	Unchanged  int             `json:"unchanged"`
	Removed    []string        `json:"removed,omitempty"`
	Pending    []string        `json:"pending,omitempty"`
	Issues     int             `json:"issues"`
	Failures   []graph.Failure `json:"failures,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}

func newRunSummary(mode, rootPath, configPath string, result buildResult) RunSummary {
	summary := RunSummary{
		Mode:       mode,
		RootPath:   rootPath,
		ConfigPath: configPath,
		Documents:  result.docs,
		Eligible:   result.emitted.Eligible,
		Written:    result.emitted.Written,
		Unchanged:  len(result.emitted.Unchanged),
		Removed:    result.emitted.Removed,
		Issues:     len(result.issues) + len(result.emitted.Issues),
		Failures:   result.failures,
	}
	if result.graph != nil {
		summary.Edges = result.graph.EdgeCount()
	}
	return summary
}

// markDryRun reports the paths a dry-run sink recorded as pending instead of
// written or removed.
func (s *RunSummary) markDryRun(rootPath string, sink *output.DryRunSink) {
	s.DryRun = true
	s.Written = nil
	s.Removed = nil
	s.Pending = relativePaths(rootPath, sink.Pending)
}

func PrintRunSummary(w io.Writer, summary RunSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}

	mode := summary.Mode
	if summary.DryRun {
		mode += " (dry-run)"
	}
	fmt.Fprintf(w, "%s complete in %dms\n", mode, summary.DurationMS)
	fmt.Fprintf(w, "documents: found=%d edges=%d eligible=%d\n", summary.Documents, summary.Edges, summary.Eligible)
	if len(summary.Failures) > 0 {
		fmt.Fprintf(w, "broken references: %d\n", len(summary.Failures))
		return nil
	}
	fmt.Fprintf(w, "files: written=%d unchanged=%d removed=%d issues=%d\n",
		len(summary.Written), summary.Unchanged, len(summary.Removed), summary.Issues)
	if len(summary.Written) > 0 {
		fmt.Fprintf(w, "written files (%d): %s\n", len(summary.Written), fileutil.SummarizePaths(summary.Written, 8))
	}
	if len(summary.Removed) > 0 {
		fmt.Fprintf(w, "removed files (%d): %s\n", len(summary.Removed), fileutil.SummarizePaths(summary.Removed, 8))
	}
	if len(summary.Pending) > 0 {
		label := "would change"
		if summary.Mode == "check" {
			label = "out of date"
		}
		fmt.Fprintf(w, "%s (%d): %s\n", label, len(summary.Pending), fileutil.SummarizePaths(summary.Pending, 8))
	}
	return nil
}
