package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

type parseProgressReporter struct {
	enabled bool
	label   string
	start   time.Time
	spinner int
	lastLen int
}

// newParseProgressReporter draws a spinner on stderr, but only when stderr is
// an interactive terminal and nothing else is being streamed.
func newParseProgressReporter(label string, quiet bool) *parseProgressReporter {
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &parseProgressReporter{
		enabled: tty && !quiet,
		label:   label,
		start:   time.Now(),
	}
}

func (r *parseProgressReporter) Update(doc string, count int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	doc = strings.TrimSpace(doc)
	if len(doc) > 88 {
		doc = "..." + doc[len(doc)-85:]
	}

	r.printStatus(fmt.Sprintf("%s %s %d parsing %s", frame, r.label, count, doc))
}

func (r *parseProgressReporter) Done(count int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d documents in %s)", r.label, count, elapsed))
	fmt.Fprintln(os.Stderr)
}

func (r *parseProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(os.Stderr, "\r%s", status)
}
