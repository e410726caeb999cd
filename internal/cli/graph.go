package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/morozRed/linkshere/internal/document"
	"github.com/morozRed/linkshere/internal/fileutil"
	"github.com/morozRed/linkshere/internal/graph"
	"github.com/morozRed/linkshere/internal/output"
	"github.com/spf13/cobra"
)

type documentRecord struct {
	ID      string   `json:"id"`
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Refs    []string `json:"refs"`
	Inbound []string `json:"inbound"`
}

// RunGraph prints the validated reference graph. Nothing is written to the
// content tree.
func RunGraph(cmd *cobra.Command, args []string) error {
	rc, err := loadRunContext(cmd, args)
	if err != nil {
		return err
	}
	format, err := ParseOutputFormat(cmd)
	if err != nil {
		return err
	}
	top := 0
	if cmd.Flags().Lookup("top") != nil {
		if top, err = cmd.Flags().GetInt("top"); err != nil {
			return fmt.Errorf("failed to read --top flag: %w", err)
		}
	}

	req := rc.request(nil)
	req.progress = nil
	result, err := runBuild(req)
	if err != nil {
		return err
	}

	docs := result.graph.Documents()
	if top > 0 {
		docs = result.graph.MostReferenced(top)
	}

	switch format {
	case output.FormatJSONL:
		records := make([]documentRecord, 0, len(docs))
		for _, doc := range docs {
			records = append(records, documentRecord{
				ID:      doc.ID,
				Path:    doc.Path,
				Title:   doc.Title,
				Refs:    doc.SortedRefs(),
				Inbound: doc.Inbound,
			})
		}
		data, err := fileutil.EncodeJSONL(records)
		if err != nil {
			return fmt.Errorf("failed to encode graph: %w", err)
		}
		_, err = rc.stdout.Write(data)
		return err
	default:
		return printGraphText(rc.stdout, result.graph, docs)
	}
}

func printGraphText(w io.Writer, g *graph.Graph, docs []*document.Document) error {
	for _, doc := range docs {
		if _, err := fmt.Fprintf(w, "Page: %s [%s]: %s\n", doc.ID, doc.Title, strings.Join(doc.Inbound, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d documents, %d references\n", len(g.Nodes), g.EdgeCount())
	return err
}
