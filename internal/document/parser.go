package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	delimiterLine = "---"
	titlePrefix   = "title: "
	openToken     = "{{<"
	closeToken    = ">}}"

	maxLineBytes = 16 * 1024 * 1024
)

// referenceKeywords are the marker names that declare an outbound reference.
var referenceKeywords = []string{"ref", "note"}

// Parsed is what a document's index file contributes to the graph.
type Parsed struct {
	Title string
	Refs  map[string]bool
}

// Parser extracts the title and reference targets from index documents.
type Parser struct {
	// LegacyMarkerScan stops scanning a line at the first marker that is not a
	// reference instead of moving on to the next marker.
	LegacyMarkerScan bool
	// TitleFromHeading falls back to the first markdown heading of the body
	// when the metadata block sets no title.
	TitleFromHeading bool
}

type phase int

const (
	phasePreamble phase = iota
	phaseMetadata
	phaseBody
)

// ParseFile opens and parses the document at path.
func (p Parser) ParseFile(path string) (Parsed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Parsed{Refs: make(map[string]bool)}, err
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads a document line by line. The metadata block sits between the
// first two lines that are exactly "---"; everything after it is body.
func (p Parser) Parse(r io.Reader) (Parsed, error) {
	out := Parsed{Refs: make(map[string]bool)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var body bytes.Buffer
	current := phasePreamble
	for scanner.Scan() {
		line := scanner.Text()
		switch current {
		case phasePreamble:
			if line == delimiterLine {
				current = phaseMetadata
			}
		case phaseMetadata:
			if line == delimiterLine {
				current = phaseBody
				continue
			}
			if title, ok := titleFromLine(line); ok {
				out.Title = title
			}
		case phaseBody:
			p.scanBodyLine(line, out.Refs)
			if p.TitleFromHeading {
				body.WriteString(line)
				body.WriteByte('\n')
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("failed to read document: %w", err)
	}

	if out.Title == "" && p.TitleFromHeading {
		out.Title = firstHeading(body.Bytes())
	}

	return out, nil
}

func titleFromLine(line string) (string, bool) {
	if !strings.HasPrefix(line, titlePrefix) {
		return "", false
	}
	value := line[len(titlePrefix):]
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return value, true
}

func (p Parser) scanBodyLine(line string, refs map[string]bool) {
	start := 0
	for start < len(line) {
		open := strings.Index(line[start:], openToken)
		if open < 0 {
			return
		}
		payloadStart := start + open + len(openToken)

		end := strings.Index(line[payloadStart:], closeToken)
		if end < 0 {
			return
		}
		payloadEnd := payloadStart + end
		start = payloadEnd + len(closeToken)

		target, ok := ReferenceTarget(line[payloadStart:payloadEnd])
		if !ok {
			if p.LegacyMarkerScan {
				return
			}
			continue
		}
		refs[target] = true
	}
}

// ReferenceTarget returns the target of a marker payload such as " ref foo ".
// The keyword must be followed by at least one space; the target is trimmed of
// spaces and tabs only.
func ReferenceTarget(payload string) (string, bool) {
	payload = strings.TrimLeft(payload, " \t")
	for _, keyword := range referenceKeywords {
		if !strings.HasPrefix(payload, keyword+" ") {
			continue
		}
		target := strings.Trim(payload[len(keyword):], " \t")
		if target == "" {
			return "", false
		}
		return target, true
	}
	return "", false
}
