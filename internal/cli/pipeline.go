package cli

import (
	"io"
	"log/slog"

	"github.com/morozRed/linkshere/internal/backlinks"
	"github.com/morozRed/linkshere/internal/config"
	"github.com/morozRed/linkshere/internal/document"
	"github.com/morozRed/linkshere/internal/graph"
	"github.com/morozRed/linkshere/internal/ignore"
	"github.com/morozRed/linkshere/internal/output"
)

// buildRequest carries everything one stateless rebuild needs. A fresh graph
// is assembled for every request.
type buildRequest struct {
	rootPath    string
	cfg         *config.Config
	ignoreRules []string
	// sink is nil when the caller only wants the validated graph.
	sink     output.Sink
	prune    bool
	echo     io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	progress *parseProgressReporter
}

type buildResult struct {
	graph    *graph.Graph
	docs     int
	issues   []document.Issue
	failures []graph.Failure
	emitted  backlinks.Result
}

// runBuild locates and parses every document, assembles the graph and, when
// every reference resolves and a sink is set, emits the backlink lists.
// A non-nil error means no output was produced.
func runBuild(req buildRequest) (buildResult, error) {
	var result buildResult

	matcherRules := make([]string, 0, len(req.cfg.Ignore)+len(req.ignoreRules))
	matcherRules = append(matcherRules, req.cfg.Ignore...)
	matcherRules = append(matcherRules, req.ignoreRules...)

	locateOpts := req.cfg.LocateOptions()
	locateOpts.Ignore = ignore.NewMatcher(matcherRules)

	parsed := 0
	docs, issues := document.Load(req.rootPath, locateOpts, req.cfg.Parser(), func(doc *document.Document) {
		parsed++
		req.logger.Debug("parsed document", slog.String("id", doc.ID), slog.String("path", doc.Path), slog.Int("refs", len(doc.Refs)))
		if req.progress != nil {
			req.progress.Update(doc.Path, parsed)
		}
	})
	if req.progress != nil {
		req.progress.Done(parsed)
	}
	result.docs = len(docs)
	result.issues = issues
	ReportIssues(req.stderr, issues)

	g, failures := graph.Build(docs, req.cfg.IndexFile)
	result.graph = g
	result.failures = failures
	req.logger.Debug("assembled graph", slog.Int("documents", len(g.Nodes)), slog.Int("edges", g.EdgeCount()))
	if err := graph.Validate(failures); err != nil {
		ReportFailures(req.stderr, failures)
		return result, err
	}

	if req.sink == nil {
		return result, nil
	}

	emitOpts := req.cfg.BacklinkOptions()
	emitOpts.Prune = req.prune
	emitOpts.Echo = req.echo
	result.emitted = backlinks.Emit(req.rootPath, g, req.sink, emitOpts)
	ReportIssues(req.stderr, result.emitted.Issues)

	return result, nil
}
