package document

import "github.com/morozRed/linkshere/internal/fileutil"

// Document is one leaf content unit of the tree.
type Document struct {
	ID      string          // leaf directory name, unique within a run
	Path    string          // slash-separated directory path relative to the root
	Title   string          // from the metadata block, empty when absent
	Refs    map[string]bool // outbound reference targets
	Inbound []string        // referring document IDs, filled by graph assembly
}

// Location is a directory the locator identified as a document.
type Location struct {
	ID        string
	Path      string // relative, slash separated
	IndexPath string // absolute path of the index file
}

// Issue captures a non-fatal problem found while locating or parsing documents.
type Issue struct {
	File     string `json:"file"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}

const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// New creates an empty document for a location.
func New(loc Location) *Document {
	return &Document{
		ID:   loc.ID,
		Path: loc.Path,
		Refs: make(map[string]bool),
	}
}

// HasRef reports whether the document declares a reference to id.
func (d *Document) HasRef(id string) bool {
	return d.Refs[id]
}

// SortedRefs returns the outbound references in lexicographic order.
func (d *Document) SortedRefs() []string {
	return fileutil.MapKeysSorted(d.Refs)
}
