package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Hard limits re-enforced on every full parse, independent of any earlier
// gateway-side checks.
const (
	maxPages          = 100
	maxFirstPageChars = 1_000_000
)

// statementMarkers identify a document as a bank statement. The first page
// must contain at least one of them (case-insensitive) to pass validation.
var statementMarkers = []string{
	"kontoauszug",
	"account statement",
	"bank statement",
	"zürcher kantonalbank",
	"konto",
}

// Validator is the cheap pre-check run before (and independently of) a
// full parse. It is stateless apart from the extractor it reads through.
type Validator struct {
	extractor Extractor
}

// NewValidator creates a Validator backed by the given text extractor.
func NewValidator(extractor Extractor) *Validator {
	return &Validator{extractor: extractor}
}

// Validate checks the document at path against the statement limits,
// short-circuiting on the first failure. It returns ok=true with an empty
// reason, or ok=false with the first failing reason. Calling it twice on
// the same unmodified document returns identical results.
func (v *Validator) Validate(path string) (bool, string) {
	pages, err := v.extractor.PageTexts(path)
	if err != nil {
		return false, fmt.Sprintf("document could not be loaded: %v", err)
	}
	if len(pages) > maxPages {
		return false, fmt.Sprintf("document has %d pages, limit is %d", len(pages), maxPages)
	}
	if len(pages) == 0 {
		return false, "document contains no pages"
	}
	// Characters, not bytes: umlaut-heavy German text must not trip the
	// limit early.
	if utf8.RuneCountInString(pages[0]) >= maxFirstPageChars {
		return false, fmt.Sprintf("first page text exceeds %d characters", maxFirstPageChars)
	}

	firstPage := strings.ToLower(pages[0])
	for _, marker := range statementMarkers {
		if strings.Contains(firstPage, marker) {
			return true, ""
		}
	}
	return false, "document does not look like a bank statement"
}
