package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/morozRed/linkshere/internal/config"
	"github.com/morozRed/linkshere/internal/ignore"
	"github.com/spf13/cobra"
)

type dirWatcher interface {
	Add(name string) error
}

// RunWatch regenerates backlink files whenever the content tree changes.
// Every rebuild is a full stateless run.
func RunWatch(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	matcher := ignore.NewMatcher(append(append([]string{}, rc.cfg.Ignore...), rc.ignoreRules...))
	if err := addWatchDirs(watcher, rc.rootPath, "", rc.cfg.Depth, matcher); err != nil {
		return err
	}

	rebuild := func() {
		start := time.Now()
		sink, dryRun := rc.newSink()
		result, buildErr := runBuild(rc.request(sink))
		summary := newRunSummary("watch", rc.rootPath, rc.configPath, result)
		if dryRun != nil {
			summary.markDryRun(rc.rootPath, dryRun)
		}
		summary.DurationMS = time.Since(start).Milliseconds()
		_ = PrintRunSummary(rc.stdout, summary, rc.flags.asJSON)
		if buildErr != nil {
			fmt.Fprintf(rc.stderr, "[error] %s: %v (no files written)\n", rc.rootPath, buildErr)
		}
	}

	rebuild()
	fmt.Fprintf(rc.stderr, "watching %s (ctrl-c to stop)\n", rc.rootPath)

	loop := watchLoop{
		debounce: rc.cfg.Watch.Debounce,
		relevant: func(event fsnotify.Event) bool {
			return relevantEvent(event, rc.cfg)
		},
		onEvent: func(event fsnotify.Event) {
			trackNewDirectory(watcher, rc.rootPath, event, rc.cfg.Depth, matcher, rc.stderr)
		},
		rebuild: rebuild,
	}
	return loop.run(ctx, watcher.Events, watcher.Errors, rc.stderr)
}

// addWatchDirs registers dir and every directory below it down to the leaf
// depth. Unreadable directories are skipped.
func addWatchDirs(w dirWatcher, dir, rel string, remaining int, matcher *ignore.Matcher) error {
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if remaining <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		childRel := path.Join(rel, entry.Name())
		if matcher != nil && matcher.ShouldIgnore(childRel, true) {
			continue
		}
		if err := addWatchDirs(w, filepath.Join(dir, entry.Name()), childRel, remaining-1, matcher); err != nil {
			return err
		}
	}
	return nil
}

func trackNewDirectory(w dirWatcher, rootPath string, event fsnotify.Event, depth int, matcher *ignore.Matcher, errOut io.Writer) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	rel, err := filepath.Rel(rootPath, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	level := strings.Count(rel, "/") + 1
	if level > depth || matcher.ShouldIgnore(rel, true) {
		return
	}
	if err := addWatchDirs(w, event.Name, rel, depth-level, matcher); err != nil {
		fmt.Fprintf(errOut, "[warning] %s: %v\n", rel, err)
	}
}

// relevantEvent filters out permission changes, editor scratch files and the
// files this tool writes itself.
func relevantEvent(event fsnotify.Event, cfg *config.Config) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return base != cfg.LinksHereFile && base != cfg.IndexedByFile
}

// watchLoop coalesces bursts of relevant events into one rebuild.
type watchLoop struct {
	debounce time.Duration
	relevant func(fsnotify.Event) bool
	onEvent  func(fsnotify.Event)
	rebuild  func()
}

func (l watchLoop) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, errOut io.Writer) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if l.onEvent != nil {
				l.onEvent(event)
			}
			if !l.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(l.debounce)
			} else {
				timer.Reset(l.debounce)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "[warning] watch: %v\n", err)
		case <-fire:
			fire = nil
			l.rebuild()
		}
	}
}
