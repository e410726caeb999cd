// Package backlinks turns a validated reference graph into per-document
// "links here" and "indexed by" lists.
package backlinks

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/morozRed/linkshere/internal/document"
	"github.com/morozRed/linkshere/internal/graph"
	"github.com/morozRed/linkshere/internal/output"
)

const (
	DefaultBacklinkedPrefix = "concepts/"
	DefaultIndexPrefix      = "index/"
	DefaultLinksHereFile    = "links-here.md"
	DefaultIndexedByFile    = "indexed-by.md"
)

// Options controls classification and emission.
type Options struct {
	// BacklinkedPrefix selects the documents that receive generated lists.
	// Empty means every document.
	BacklinkedPrefix string
	// IndexPrefix marks referring documents whose links go to the
	// indexed-by list.
	IndexPrefix   string
	LinksHereFile string
	IndexedByFile string
	// Prune removes a previously generated file whose list is now empty.
	Prune bool
	// Echo receives every rendered file when non-nil.
	Echo io.Writer
}

func (o Options) withDefaults() Options {
	if o.IndexPrefix == "" {
		o.IndexPrefix = DefaultIndexPrefix
	}
	if o.LinksHereFile == "" {
		o.LinksHereFile = DefaultLinksHereFile
	}
	if o.IndexedByFile == "" {
		o.IndexedByFile = DefaultIndexedByFile
	}
	o.BacklinkedPrefix = NormalizePrefix(o.BacklinkedPrefix)
	o.IndexPrefix = NormalizePrefix(o.IndexPrefix)
	return o
}

// Lists holds the referring documents of one target, already filtered and
// partitioned.
type Lists struct {
	LinksHere []*document.Document
	IndexedBy []*document.Document
}

// Result summarizes one emission pass. Paths are relative to the root.
type Result struct {
	Eligible  int
	Written   []string
	Unchanged []string
	Removed   []string
	Issues    []document.Issue
}

// Eligible reports whether doc lives under the backlinked category.
func Eligible(doc *document.Document, opts Options) bool {
	opts = opts.withDefaults()
	return strings.HasPrefix(doc.Path, opts.BacklinkedPrefix)
}

// Classify partitions the inbound references of doc. A referrer that doc
// itself links to is dropped; referrers under the index category go to
// IndexedBy, everything else to LinksHere. Inbound order is preserved.
func Classify(g *graph.Graph, doc *document.Document, opts Options) Lists {
	opts = opts.withDefaults()
	var lists Lists
	for _, id := range doc.Inbound {
		if doc.HasRef(id) {
			continue
		}
		referrer, ok := g.Get(id)
		if !ok {
			continue
		}
		if strings.HasPrefix(referrer.Path, opts.IndexPrefix) {
			lists.IndexedBy = append(lists.IndexedBy, referrer)
			continue
		}
		lists.LinksHere = append(lists.LinksHere, referrer)
	}
	return lists
}

// RenderLine renders one referring document as a bullet link.
func RenderLine(doc *document.Document) string {
	return fmt.Sprintf("* [%s](/%s)\n", doc.Title, doc.Path)
}

// Render renders a list of referring documents, followed by a blank line.
// An empty list renders to nil.
func Render(docs []*document.Document) []byte {
	if len(docs) == 0 {
		return nil
	}
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(RenderLine(doc))
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// Emit renders the lists of every eligible document in identifier order and
// hands them to sink. Write failures are recorded and do not stop the batch.
func Emit(root string, g *graph.Graph, sink output.Sink, opts Options) Result {
	opts = opts.withDefaults()
	result := Result{}

	for _, doc := range g.Documents() {
		if !Eligible(doc, opts) {
			continue
		}
		result.Eligible++

		lists := Classify(g, doc, opts)
		emitOne(root, doc, opts.LinksHereFile, Render(lists.LinksHere), sink, opts, &result)
		emitOne(root, doc, opts.IndexedByFile, Render(lists.IndexedBy), sink, opts, &result)
	}

	return result
}

func emitOne(root string, doc *document.Document, name string, content []byte, sink output.Sink, opts Options, result *Result) {
	rel := path.Join(doc.Path, name)
	target := filepath.Join(root, filepath.FromSlash(rel))

	if len(content) == 0 {
		if !opts.Prune {
			return
		}
		removed, err := sink.Remove(target)
		if err != nil {
			result.Issues = append(result.Issues, document.Issue{
				File:     rel,
				Severity: document.SeverityError,
				Message:  fmt.Sprintf("cannot remove stale file: %v", err),
			})
			return
		}
		if removed {
			result.Removed = append(result.Removed, rel)
		}
		return
	}

	if opts.Echo != nil {
		fmt.Fprintf(opts.Echo, "==> %s <==\n%s", rel, content)
	}

	changed, err := sink.Write(target, content)
	if err != nil {
		result.Issues = append(result.Issues, document.Issue{
			File:     rel,
			Severity: document.SeverityError,
			Message:  fmt.Sprintf("cannot write: %v", err),
		})
		return
	}
	if changed {
		result.Written = append(result.Written, rel)
	} else {
		result.Unchanged = append(result.Unchanged, rel)
	}
}

// NormalizePrefix turns a category name such as "concepts" or "/concepts/"
// into the "concepts/" form used for prefix matching.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(filepath.ToSlash(strings.TrimSpace(prefix)), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
