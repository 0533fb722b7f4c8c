package extractor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrNoTextLayer reports a document with no extractable text layer.
// Callers should suggest OCR or a different input; this is distinct from
// a readable statement that simply contains no transactions.
var ErrNoTextLayer = errors.New("no extractable text layer (document may be scanned or image-based)")

// Open reads a PDF file and returns its pages as text plus word positions.
// Returns ErrNoTextLayer (wrapped) when no readable text can be decoded.
func Open(filePath string) (*Document, error) {
	doc, err := extractWithLibrary(filePath)
	if err != nil {
		return nil, fmt.Errorf("pdf extraction: %w", err)
	}
	if !isReadableText(doc) {
		return nil, fmt.Errorf("%s: %w", filePath, ErrNoTextLayer)
	}
	return doc, nil
}

func extractWithLibrary(filePath string) (doc *Document, err error) {
	// The pdf library panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, errors.New("pdf has no pages")
	}

	doc = &Document{}
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		p := Page{
			Text:  pageText(page),
			Words: pageWords(page),
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc, nil
}

// pageText reconstructs line-oriented text using row extraction,
// falling back to plain text when row grouping fails.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// pageWords returns positioned words for the spatial fallback strategy.
// PDF y coordinates grow upward, so Top is the negated baseline: sorting
// by ascending Top reads the page top to bottom.
func pageWords(page pdf.Page) []Word {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}
	words := make([]Word, 0, len(content.Text))
	for _, t := range content.Text {
		s := strings.TrimSpace(t.S)
		if s == "" {
			continue
		}
		words = append(words, Word{Text: s, X0: t.X, Top: -t.Y})
	}
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].Top != words[j].Top {
			return words[i].Top < words[j].Top
		}
		return words[i].X0 < words[j].X0
	})
	return words
}

// commonWords appear in virtually all US bank statements. If the decoded
// text contains none of them, the extraction produced garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "statement", "total",
	"amount", "deposit", "withdrawal", "check", "transaction",
	"fee", "page", "period", "number", "summary",
}

// isReadableText gates extraction output: enough characters, mostly
// readable ASCII, and at least one recognizable statement word. Identity-
// encoded fonts otherwise produce accented garbage that regex passes
// would silently chew through.
func isReadableText(doc *Document) bool {
	total, readable := 0, 0
	var combined strings.Builder
	for _, p := range doc.Pages {
		combined.WriteString(p.Text)
		combined.WriteByte(' ')
		for _, r := range p.Text {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"$%&@#!?+=*`, r) {
				readable++
			}
		}
	}
	if total <= 50 {
		return false
	}
	if float64(readable)/float64(total) <= 0.6 {
		return false
	}
	lower := strings.ToLower(combined.String())
	for _, w := range commonWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
