// Package parser turns the extracted text of a staged statement document
// into discrete transactions. The pipeline is a single synchronous pass:
// pages are joined in order, split into lines, noise lines are dropped,
// and every surviving line gets one silent parse attempt.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zueribudget/statement-importer/internal/categorizer"
	"github.com/zueribudget/statement-importer/internal/models"
)

// Extractor yields the per-page plain text of a staged document. Page
// order is preserved; a page that carries no extractable text is an empty
// string, not an error.
type Extractor interface {
	PageTexts(path string) ([]string, error)
}

// Fatal parse errors. Any of these short-circuits the invocation with an
// empty result and a single descriptive error.
var (
	ErrDocumentLoadFailed = errors.New("document could not be loaded")
	ErrPageLimitExceeded  = errors.New("page limit exceeded")
	ErrContentTooLarge    = errors.New("page content too large")
)

// noTransactionsWarning is the one soft, non-fatal parse error: the
// document was readable but no line survived noise filtering and parsing.
const noTransactionsWarning = "no transactions found in the document; the statement layout may not be supported"

// Coordinator runs the full parse pipeline over a staged document.
// Instances are stateless between invocations and safe to reuse.
type Coordinator struct {
	extractor   Extractor
	categorizer *categorizer.Categorizer
}

// NewCoordinator wires a Coordinator from its collaborators.
func NewCoordinator(extractor Extractor, cat *categorizer.Categorizer) *Coordinator {
	return &Coordinator{extractor: extractor, categorizer: cat}
}

// ParseStatement parses the staged document at stagedPath and returns the
// aggregated result. There are exactly two terminal outcomes: a structural
// failure (empty transactions, one fatal error, returned immediately) or a
// completed parse (zero or more transactions, at most one soft warning).
// Per-line extraction failures are silent omissions, never errors.
func (c *Coordinator) ParseStatement(stagedPath, sourceName string) *models.ParseResult {
	pages, err := c.extractor.PageTexts(stagedPath)
	if err != nil {
		return fatalResult(sourceName, fmt.Errorf("%w: %v", ErrDocumentLoadFailed, err))
	}
	if len(pages) > maxPages {
		return fatalResult(sourceName, fmt.Errorf("%w: document has %d pages, limit is %d",
			ErrPageLimitExceeded, len(pages), maxPages))
	}
	if len(pages) > 0 && utf8.RuneCountInString(pages[0]) >= maxFirstPageChars {
		return fatalResult(sourceName, fmt.Errorf("%w: first page text exceeds %d characters",
			ErrContentTooLarge, maxFirstPageChars))
	}

	rawLines := strings.Split(strings.Join(pages, "\n"), "\n")

	result := &models.ParseResult{
		Transactions: []models.Transaction{},
		RawLines:     rawLines,
		SourceName:   sourceName,
	}

	for _, line := range rawLines {
		if IsNoise(line) {
			continue
		}
		tx, ok := ParseLine(line)
		if !ok {
			continue
		}
		tx.Category = c.categorizer.Categorize(tx.Details)
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) == 0 {
		result.ParseErrors = append(result.ParseErrors, noTransactionsWarning)
	}
	return result
}

func fatalResult(sourceName string, err error) *models.ParseResult {
	return &models.ParseResult{
		Transactions: []models.Transaction{},
		ParseErrors:  []string{err.Error()},
		SourceName:   sourceName,
	}
}
