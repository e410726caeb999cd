package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/morozRed/linkshere/internal/document"
	"github.com/morozRed/linkshere/internal/graph"
	"github.com/morozRed/linkshere/internal/ignore"
)

// resolveRootPath turns the optional positional argument into an absolute
// content root that must be a directory.
func resolveRootPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	rootPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %q: %w", rootPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", rootPath)
	}
	return rootPath, nil
}

func LoadIgnoreRules(rootPath string) ([]string, error) {
	ignorePath := filepath.Join(rootPath, ignore.IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ignore.IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ignore.IgnoreFile, err)
	}

	return rules, nil
}

func ReportIssues(w io.Writer, issues []document.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(w, "[%s] %s: %s\n", issue.Severity, issue.File, issue.Message)
	}
}

func ReportFailures(w io.Writer, failures []graph.Failure) {
	for _, failure := range failures {
		fmt.Fprintf(w, "[%s] %s: %s\n", document.SeverityError, failure.File, failure.Message)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
