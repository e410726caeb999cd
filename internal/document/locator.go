package document

import (
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"

	"github.com/morozRed/linkshere/internal/ignore"
)

const (
	DefaultIndexFile = "index.md"
	DefaultDepth     = 2
)

// LocateOptions controls the directory walk.
type LocateOptions struct {
	// IndexFile is the file whose presence marks a leaf directory as a document.
	IndexFile string
	// Depth is the level below the root at which leaf directories live.
	// The publishing convention is root/category/leaf, i.e. depth 2.
	Depth int
	// Ignore excludes directories by their relative path. Nil ignores nothing.
	Ignore *ignore.Matcher
	// OnIssue receives unreadable-directory reports. Nil drops them.
	OnIssue func(Issue)
}

func (o LocateOptions) withDefaults() LocateOptions {
	if o.IndexFile == "" {
		o.IndexFile = DefaultIndexFile
	}
	if o.Depth <= 0 {
		o.Depth = DefaultDepth
	}
	if o.OnIssue == nil {
		o.OnIssue = func(Issue) {}
	}
	return o
}

// Locate lazily yields every directory exactly opts.Depth levels below root
// that directly contains the index file as a regular file. Directories that
// cannot be read are reported and skipped; the walk never follows symlinked
// directories.
func Locate(root string, opts LocateOptions) iter.Seq[Location] {
	opts = opts.withDefaults()
	return func(yield func(Location) bool) {
		walkLevel(root, "", opts.Depth, opts, yield)
	}
}

func walkLevel(dir, rel string, remaining int, opts LocateOptions, yield func(Location) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		opts.OnIssue(Issue{
			File:     displayPath(rel),
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("unable to open directory: %v", err),
		})
		return true
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." || !entry.IsDir() {
			continue
		}

		childRel := path.Join(rel, name)
		if opts.Ignore != nil && opts.Ignore.ShouldIgnore(childRel, true) {
			continue
		}
		childDir := filepath.Join(dir, name)

		if remaining > 1 {
			if !walkLevel(childDir, childRel, remaining-1, opts, yield) {
				return false
			}
			continue
		}

		loc, ok := leafDocument(childDir, childRel, name, opts)
		if !ok {
			continue
		}
		if !yield(loc) {
			return false
		}
	}
	return true
}

func leafDocument(dir, rel, name string, opts LocateOptions) (Location, bool) {
	indexPath := filepath.Join(dir, opts.IndexFile)
	info, err := os.Stat(indexPath)
	if err != nil {
		if !os.IsNotExist(err) {
			opts.OnIssue(Issue{
				File:     path.Join(rel, opts.IndexFile),
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("unable to stat index file: %v", err),
			})
		}
		return Location{}, false
	}
	if !info.Mode().IsRegular() {
		return Location{}, false
	}

	return Location{
		ID:        name,
		Path:      rel,
		IndexPath: indexPath,
	}, true
}

// Load locates every document under root and parses its index file.
// Unreadable index files are reported and yield an empty document that still
// occupies its identifier. onDocument, when non-nil, sees each document once
// it is parsed.
func Load(root string, opts LocateOptions, parser Parser, onDocument func(*Document)) ([]*Document, []Issue) {
	issues := make([]Issue, 0)
	userIssue := opts.OnIssue
	opts.OnIssue = func(issue Issue) {
		issues = append(issues, issue)
		if userIssue != nil {
			userIssue(issue)
		}
	}
	opts = opts.withDefaults()

	docs := make([]*Document, 0)
	for loc := range Locate(root, opts) {
		doc := New(loc)
		parsed, err := parser.ParseFile(loc.IndexPath)
		if err != nil {
			opts.OnIssue(Issue{
				File:     path.Join(loc.Path, opts.IndexFile),
				Severity: SeverityError,
				Message:  fmt.Sprintf("cannot read document: %v", err),
			})
		} else {
			doc.Title = parsed.Title
			doc.Refs = parsed.Refs
		}
		docs = append(docs, doc)
		if onDocument != nil {
			onDocument(doc)
		}
	}
	return docs, issues
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
