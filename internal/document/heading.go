package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// firstHeading returns the text of the first top-level heading in a markdown
// body, or "" when there is none.
func firstHeading(src []byte) string {
	if len(src) == 0 {
		return ""
	}
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if heading, ok := n.(*ast.Heading); ok {
			return strings.TrimSpace(string(heading.Text(src)))
		}
	}
	return ""
}
