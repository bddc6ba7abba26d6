// Package extractor turns a staged statement PDF into per-page text.
package extractor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text with the ledongthuc/pdf library. It tries
// several extraction methods per page because bank PDFs vary wildly in
// how they encode text.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// PageTexts returns the text of each page, in document order. Pages that
// yield no decodable text are returned as empty strings so page indices
// and counts stay faithful to the document. Extraction is best-effort per
// page; only a document that cannot be opened at all is an error.
func (e *PDFExtractor) PageTexts(filePath string) (pages []string, err error) {
	// The library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, extractPage(r.Page(i)))
	}

	if !isReadableText(pages) {
		return nil, fmt.Errorf("no readable text could be extracted; the document may be image-based or use font encodings that cannot be decoded")
	}
	return pages, nil
}

// extractPage tries the row-based method first (best layout preservation),
// then coordinate reconstruction, then the plain-text stream.
func extractPage(page pdf.Page) string {
	if page.V.IsNull() {
		return ""
	}
	if text := extractByRow(page); isReadableText([]string{text}) {
		return text
	}
	if text := extractByContent(page); isReadableText([]string{text}) {
		return text
	}
	return extractByPlainText(page)
}

func extractByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
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

// extractByContent reconstructs rows from raw text objects: group by Y
// coordinate, then order each row left to right.
func extractByContent(page pdf.Page) string {
	content := page.Content()
	if len(content.Text) == 0 {
		return ""
	}

	type textItem struct {
		x float64
		s string
	}
	rowMap := make(map[int][]textItem)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
	}

	// PDF Y runs bottom-to-top, so rows sort descending.
	yKeys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		yKeys = append(yKeys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var lines []string
	for _, y := range yKeys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool {
			return items[a].x < items[b].x
		})

		var parts []string
		var prevX float64
		for j, item := range items {
			if j > 0 && item.x-prevX > 15 {
				// Large horizontal gap marks a column boundary.
				parts = append(parts, "  ")
			}
			parts = append(parts, item.s)
			prevX = item.x
		}
		line := strings.TrimSpace(strings.Join(parts, ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func extractByPlainText(page pdf.Page) string {
	fontNames := page.Fonts()
	fonts := make(map[string]*pdf.Font)
	for _, name := range fontNames {
		f := page.Font(name)
		fonts[name] = &f
	}

	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// textQuality returns the ratio of readable characters to total
// characters. The character set is deliberately narrow: identity-encoded
// fonts produce garbage that unicode.IsLetter would happily accept, but
// Swiss statements still need the umlauts and accents.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"äöüÄÖÜéèàç$€%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every bank statement, German or English.
// Extracted text containing none of them is likely garbage.
var commonWords = []string{
	"konto", "kontoauszug", "saldo", "betrag", "buchung", "datum",
	"zahlung", "gutschrift", "belastung", "bank", "periode",
	"account", "statement", "balance", "date", "payment", "amount",
	"credit", "debit", "transaction", "total", "page", "seite",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText checks that pages contain enough text, that it is mostly
// readable characters, and that at least one statement word appears.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
