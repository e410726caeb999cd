package graph

import (
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/morozRed/linkshere/internal/document"
)

// ErrUnresolvedReferences marks a run in which at least one reference did not
// resolve to a known document.
var ErrUnresolvedReferences = errors.New("unresolved references")

// Graph maps document identifiers to documents for a single run.
type Graph struct {
	Nodes map[string]*document.Document // ID -> document
	order []string
}

// Failure describes one validation problem found during assembly.
type Failure struct {
	File    string `json:"file"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*document.Document),
	}
}

// Build keys documents by identifier and resolves every outbound reference
// into an inbound edge on its target. Failures accumulate; callers must not
// emit output when any are returned.
func Build(docs []*document.Document, indexFile string) (*Graph, []Failure) {
	g := NewGraph()
	failures := make([]Failure, 0)

	// First pass: claim identifiers. Sorting by path makes the owner of a
	// duplicate identifier deterministic.
	byPath := make([]*document.Document, len(docs))
	copy(byPath, docs)
	sort.Slice(byPath, func(i, j int) bool {
		return byPath[i].Path < byPath[j].Path
	})
	duplicates := make([]*document.Document, 0)
	for _, doc := range byPath {
		if existing, ok := g.Nodes[doc.ID]; ok {
			failures = append(failures, Failure{
				File:    path.Join(doc.Path, indexFile),
				Message: fmt.Sprintf("duplicate document id '%s' (already defined by %s)", doc.ID, existing.Path),
			})
			duplicates = append(duplicates, doc)
			continue
		}
		doc.Inbound = make([]string, 0)
		g.Nodes[doc.ID] = doc
	}
	g.order = sortedKeys(g.Nodes)

	// Second pass: edges. Sources are visited in identifier order so every
	// inbound list comes out sorted.
	for _, id := range g.order {
		src := g.Nodes[id]
		for _, target := range src.SortedRefs() {
			dst, ok := g.Nodes[target]
			if !ok {
				failures = append(failures, Failure{
					File:    path.Join(src.Path, indexFile),
					Target:  target,
					Message: fmt.Sprintf("ref '%s' not found", target),
				})
				continue
			}
			dst.Inbound = append(dst.Inbound, src.ID)
		}
	}

	// Documents that lost their identifier still get their references checked
	// so one run reports every broken link.
	for _, doc := range duplicates {
		for _, target := range doc.SortedRefs() {
			if _, ok := g.Nodes[target]; ok {
				continue
			}
			failures = append(failures, Failure{
				File:    path.Join(doc.Path, indexFile),
				Target:  target,
				Message: fmt.Sprintf("ref '%s' not found", target),
			})
		}
	}

	return g, failures
}

// IDs returns the document identifiers in lexicographic order.
func (g *Graph) IDs() []string {
	if len(g.order) != len(g.Nodes) {
		g.order = sortedKeys(g.Nodes)
	}
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Documents returns the documents in identifier order.
func (g *Graph) Documents() []*document.Document {
	ids := g.IDs()
	out := make([]*document.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Nodes[id])
	}
	return out
}

// Get returns the document with the given identifier.
func (g *Graph) Get(id string) (*document.Document, bool) {
	doc, ok := g.Nodes[id]
	return doc, ok
}

// EdgeCount returns the number of resolved edges in the graph.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, doc := range g.Nodes {
		total += len(doc.Inbound)
	}
	return total
}

// Validate turns accumulated failures into an error wrapping
// ErrUnresolvedReferences.
func Validate(failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d broken reference(s)", ErrUnresolvedReferences, len(failures))
}

func sortedKeys(nodes map[string]*document.Document) []string {
	keys := make([]string, 0, len(nodes))
	for id := range nodes {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

// MostReferenced returns the n documents with the most inbound edges, ties
// broken by identifier.
func (g *Graph) MostReferenced(n int) []*document.Document {
	docs := g.Documents()
	sort.SliceStable(docs, func(i, j int) bool {
		return len(docs[i].Inbound) > len(docs[j].Inbound)
	})

	if n > len(docs) {
		n = len(docs)
	}
	if n < 0 {
		n = 0
	}
	return docs[:n]
}
