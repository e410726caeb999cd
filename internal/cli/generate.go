package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/morozRed/linkshere/internal/config"
	"github.com/morozRed/linkshere/internal/output"
	"github.com/spf13/cobra"
)

// ErrOutOfDate is returned by check when generated files differ from what a
// fresh build would produce.
var ErrOutOfDate = errors.New("generated files are out of date")

// runContext is the resolved input shared by the graph-building commands.
type runContext struct {
	rootPath    string
	cfg         *config.Config
	configPath  string
	ignoreRules []string
	flags       runFlags
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
}

func loadRunContext(cmd *cobra.Command, args []string) (*runContext, error) {
	flags, err := parseRunFlags(cmd)
	if err != nil {
		return nil, err
	}
	rootPath, err := resolveRootPath(args)
	if err != nil {
		return nil, err
	}

	rc := &runContext{
		rootPath: rootPath,
		flags:    flags,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
	}
	rc.logger = newLogger(rc.stderr, flags.verbose)

	cfg, configPath, err := config.Load(rootPath, flags.configPath)
	if err != nil {
		return nil, err
	}
	rc.cfg = cfg
	rc.configPath = configPath
	if configPath != "" {
		rc.logger.Debug("loaded config", slog.String("path", configPath))
	}

	rc.ignoreRules, err = LoadIgnoreRules(rootPath)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (rc *runContext) request(sink output.Sink) buildRequest {
	req := buildRequest{
		rootPath:    rc.rootPath,
		cfg:         rc.cfg,
		ignoreRules: rc.ignoreRules,
		sink:        sink,
		prune:       rc.flags.prune,
		stderr:      rc.stderr,
		logger:      rc.logger,
		progress:    newParseProgressReporter("links-here", rc.flags.verbose || rc.flags.asJSON),
	}
	if rc.flags.verbose {
		req.echo = rc.stdout
		if rc.flags.asJSON {
			req.echo = rc.stderr
		}
	}
	return req
}

// newSink returns a fresh sink for one build. The dry-run sink is also
// returned on its own so callers can read what it recorded.
func (rc *runContext) newSink() (output.Sink, *output.DryRunSink) {
	if rc.flags.dryRun {
		sink := &output.DryRunSink{}
		return sink, sink
	}
	return output.FileSink{}, nil
}

func RunGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rc, err := loadRunContext(cmd, args)
	if err != nil {
		return err
	}

	sink, dryRun := rc.newSink()
	result, buildErr := runBuild(rc.request(sink))
	summary := newRunSummary("generate", rc.rootPath, rc.configPath, result)
	if dryRun != nil {
		summary.markDryRun(rc.rootPath, dryRun)
	}
	summary.DurationMS = time.Since(start).Milliseconds()
	if err := PrintRunSummary(rc.stdout, summary, rc.flags.asJSON); err != nil {
		return err
	}
	if buildErr != nil {
		return fmt.Errorf("no files written: %w", buildErr)
	}
	return nil
}

// RunCheck builds the graph without touching the disk and fails when any
// generated file is missing, stale, or (with --prune) obsolete.
func RunCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rc, err := loadRunContext(cmd, args)
	if err != nil {
		return err
	}

	sink := &output.DryRunSink{}
	result, buildErr := runBuild(rc.request(sink))
	summary := newRunSummary("check", rc.rootPath, rc.configPath, result)
	summary.markDryRun(rc.rootPath, sink)
	summary.DurationMS = time.Since(start).Milliseconds()
	if err := PrintRunSummary(rc.stdout, summary, rc.flags.asJSON); err != nil {
		return err
	}
	if buildErr != nil {
		return buildErr
	}
	if len(summary.Pending) > 0 {
		return fmt.Errorf("%w: %d file(s) need regeneration", ErrOutOfDate, len(summary.Pending))
	}
	return nil
}

func relativePaths(rootPath string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			rel = path
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
