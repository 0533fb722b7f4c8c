package extractor

import "strings"

// Word is a positioned token from a PDF page, used by the spatial
// fallback strategy. X0 is the left edge; Top increases down the page.
type Word struct {
	Text string
	X0   float64
	Top  float64
}

// Page is one document page: plain text plus optional word positions.
type Page struct {
	Text  string
	Words []Word
}

// Lines splits the page text into trimmed, non-empty lines.
func (p Page) Lines() []string {
	var lines []string
	for _, l := range strings.Split(p.Text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Document is an ordered sequence of pages. Pages must be processed in
// order: extraction state (carried section, last date, open record)
// flows across page boundaries.
type Document struct {
	Pages []Page
}
