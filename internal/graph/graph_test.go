package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morozRed/linkshere/internal/document"
)

func newDoc(id, dir, title string, refs ...string) *document.Document {
	doc := document.New(document.Location{ID: id, Path: dir})
	doc.Title = title
	for _, ref := range refs {
		doc.Refs[ref] = true
	}
	return doc
}

func TestBuildRecordsInboundEdgesInIdentifierOrder(t *testing.T) {
	docs := []*document.Document{
		newDoc("zeta", "concepts/zeta", "Zeta", "target"),
		newDoc("alpha", "concepts/alpha", "Alpha", "target"),
		newDoc("target", "concepts/target", "Target"),
		newDoc("mid", "index/mid", "Mid", "target", "alpha"),
	}

	g, failures := Build(docs, "index.md")
	require.Empty(t, failures)
	require.NoError(t, Validate(failures))

	target, ok := g.Get("target")
	require.True(t, ok)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, target.Inbound)

	alpha, _ := g.Get("alpha")
	assert.Equal(t, []string{"mid"}, alpha.Inbound)
	assert.Equal(t, []string{"alpha", "mid", "target", "zeta"}, g.IDs())
	assert.Equal(t, 4, g.EdgeCount())
}

func TestBuildKeysMatchDocumentIdentifiers(t *testing.T) {
	g, _ := Build([]*document.Document{
		newDoc("a", "concepts/a", "A"),
		newDoc("b", "notes/b", "B", "a"),
	}, "index.md")

	for id, doc := range g.Nodes {
		assert.Equal(t, id, doc.ID)
	}
}

func TestBuildCollapsesDuplicateReferences(t *testing.T) {
	// Refs is a set; the parser collapses repeated markers before assembly.
	src := newDoc("src", "concepts/src", "Src", "dst", "dst")
	g, failures := Build([]*document.Document{src, newDoc("dst", "concepts/dst", "Dst")}, "index.md")
	require.Empty(t, failures)

	dst, _ := g.Get("dst")
	assert.Equal(t, []string{"src"}, dst.Inbound)
}

func TestBuildAccumulatesUnresolvedReferences(t *testing.T) {
	docs := []*document.Document{
		newDoc("bar", "concepts/bar", "Bar", "missing", "foo"),
		newDoc("baz", "concepts/baz", "Baz", "gone"),
		newDoc("foo", "concepts/foo", "Foo"),
	}

	g, failures := Build(docs, "index.md")
	require.Len(t, failures, 2)
	assert.Equal(t, Failure{File: "concepts/bar/index.md", Target: "missing", Message: "ref 'missing' not found"}, failures[0])
	assert.Equal(t, "gone", failures[1].Target)

	foo, _ := g.Get("foo")
	assert.Equal(t, []string{"bar"}, foo.Inbound, "resolvable refs are still recorded")

	err := Validate(failures)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedReferences))
}

func TestBuildNeverRewritesOutboundRefs(t *testing.T) {
	src := newDoc("src", "concepts/src", "Src", "missing", "dst")
	_, _ = Build([]*document.Document{src, newDoc("dst", "concepts/dst", "Dst")}, "index.md")
	assert.Equal(t, map[string]bool{"missing": true, "dst": true}, src.Refs)
}

func TestBuildFlagsDuplicateIdentifiers(t *testing.T) {
	docs := []*document.Document{
		newDoc("shared", "notes/shared", "Second", "nowhere"),
		newDoc("shared", "concepts/shared", "First"),
	}

	g, failures := Build(docs, "index.md")
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Message, "duplicate document id 'shared'")
	assert.Equal(t, "notes/shared/index.md", failures[0].File)
	assert.Equal(t, "nowhere", failures[1].Target)

	owner, _ := g.Get("shared")
	assert.Equal(t, "concepts/shared", owner.Path)
}

func TestBuildSelfReferenceLandsOnOwnInboundList(t *testing.T) {
	g, failures := Build([]*document.Document{newDoc("loop", "concepts/loop", "Loop", "loop")}, "index.md")
	require.Empty(t, failures)

	loop, _ := g.Get("loop")
	assert.Equal(t, []string{"loop"}, loop.Inbound)
}

func TestMostReferencedOrdersByInboundCount(t *testing.T) {
	g, failures := Build([]*document.Document{
		newDoc("a", "concepts/a", "A", "hub", "b"),
		newDoc("b", "concepts/b", "B", "hub"),
		newDoc("c", "concepts/c", "C", "hub", "b"),
		newDoc("hub", "concepts/hub", "Hub"),
	}, "index.md")
	require.Empty(t, failures)

	top := g.MostReferenced(3)
	require.Len(t, top, 3)
	assert.Equal(t, "hub", top[0].ID)
	assert.Equal(t, "b", top[1].ID)
	assert.Equal(t, "a", top[2].ID, "ties keep identifier order")

	assert.Len(t, g.MostReferenced(10), 4)
	assert.Empty(t, g.MostReferenced(-1))
}
