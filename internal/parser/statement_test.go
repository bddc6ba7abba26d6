package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zueribudget/statement-importer/internal/categorizer"
	"github.com/zueribudget/statement-importer/internal/models"
)

func newCoordinator(ex Extractor) *Coordinator {
	return NewCoordinator(ex, categorizer.New())
}

func TestParseStatement(t *testing.T) {
	pages := []string{
		`Zürcher Kantonalbank
Kontoauszug / Account Statement
Konto / Account: CH93 0070 0110 0012 3456 7
Datum Buchungstext Betrag CHF
-----
15.01.2026 COOP Zürich, Kaufvertrag CHF 45.80
14.01.2026 EWZ Stromrechnung 145.00`,
		`Seite 2
13.01.2026 Lohnzahlung Januar 2026 -7'500.00
Saldo / Balance: CHF 5'000.00`,
	}

	result := newCoordinator(&fakeExtractor{pages: pages}).ParseStatement("staged.pdf", "ZKB_Januar_2026.pdf")

	assert.Equal(t, "ZKB_Januar_2026.pdf", result.SourceName)
	assert.Empty(t, result.ParseErrors)
	require.Len(t, result.Transactions, 3)

	// Document line order is preserved.
	assert.Equal(t, "COOP Zürich, Kaufvertrag", result.Transactions[0].Details)
	assert.Equal(t, "EWZ Stromrechnung", result.Transactions[1].Details)
	assert.Equal(t, "Lohnzahlung Januar 2026", result.Transactions[2].Details)

	// Categories are assigned at construction.
	assert.Equal(t, models.CategoryGroceries, result.Transactions[0].Category)
	assert.Equal(t, models.CategoryUtilities, result.Transactions[1].Category)
	assert.Equal(t, models.CategorySalary, result.Transactions[2].Category)

	// Direction follows sign presence on the amount token.
	assert.Equal(t, models.DirectionCredit, result.Transactions[0].Direction)
	assert.Equal(t, models.DirectionDebit, result.Transactions[2].Direction)
	assert.True(t, result.Transactions[2].Amount.Equal(decimal.RequireFromString("7500.00")))

	// RawLines keeps the full extracted line sequence, noise included.
	assert.Contains(t, result.RawLines, "Seite 2")
	assert.Contains(t, result.RawLines, "-----")
}

// A merchant description naming the bank's street must survive the noise
// filter: only the standalone address header line is layout noise.
func TestParseStatementKeepsStreetNameTransactions(t *testing.T) {
	pages := []string{`Zürcher Kantonalbank
Bahnhofstrasse 9
8001 Zürich
19.01.2026 COOP Zürich Bahnhofstrasse 56.30`,
	}

	result := newCoordinator(&fakeExtractor{pages: pages}).ParseStatement("staged.pdf", "s.pdf")

	assert.Empty(t, result.ParseErrors)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "COOP Zürich Bahnhofstrasse", result.Transactions[0].Details)
	assert.True(t, result.Transactions[0].Amount.Equal(decimal.RequireFromString("56.30")))
	assert.Equal(t, models.CategoryGroceries, result.Transactions[0].Category)
}

func TestParseStatementNoTransactionsIsSoftWarning(t *testing.T) {
	pages := []string{
		`Zürcher Kantonalbank
Kontoauszug / Account Statement
Seite 1
-----`,
	}

	result := newCoordinator(&fakeExtractor{pages: pages}).ParseStatement("staged.pdf", "empty.pdf")

	assert.Empty(t, result.Transactions)
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0], "no transactions found")
}

func TestParseStatementLoadFailureIsFatal(t *testing.T) {
	ex := &fakeExtractor{err: errors.New("not a PDF")}

	result := newCoordinator(ex).ParseStatement("staged.pdf", "broken.pdf")

	assert.Empty(t, result.Transactions)
	assert.Empty(t, result.RawLines)
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0], ErrDocumentLoadFailed.Error())
}

func TestParseStatementPageLimit(t *testing.T) {
	// Exactly 100 pages completes; 101 pages is a structural failure.
	result := newCoordinator(&fakeExtractor{pages: manyPages(maxPages)}).ParseStatement("staged.pdf", "s.pdf")
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0], "no transactions found")

	result = newCoordinator(&fakeExtractor{pages: manyPages(maxPages + 1)}).ParseStatement("staged.pdf", "s.pdf")
	assert.Empty(t, result.Transactions)
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0], ErrPageLimitExceeded.Error())
}

func TestParseStatementContentTooLargeIsFatal(t *testing.T) {
	ex := &fakeExtractor{pages: []string{strings.Repeat("x", maxFirstPageChars)}}

	result := newCoordinator(ex).ParseStatement("staged.pdf", "huge.pdf")

	assert.Empty(t, result.Transactions)
	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0], ErrContentTooLarge.Error())
}

func TestParseStatementContentLimitCountsRunes(t *testing.T) {
	// Multibyte text just under the character limit is not a structural
	// failure, even though it exceeds the limit in bytes.
	ex := &fakeExtractor{pages: []string{strings.Repeat("ü", maxFirstPageChars - 1)}}

	result := newCoordinator(ex).ParseStatement("staged.pdf", "s.pdf")

	require.Len(t, result.ParseErrors, 1)
	assert.Contains(t, result.ParseErrors[0], "no transactions found")
}

// Pages that yield no text are skipped without error.
func TestParseStatementEmptyPagesAreBestEffort(t *testing.T) {
	pages := []string{
		"",
		"15.01.2026 COOP Zürich, Kaufvertrag CHF 45.80",
		"",
	}

	result := newCoordinator(&fakeExtractor{pages: pages}).ParseStatement("staged.pdf", "s.pdf")

	assert.Empty(t, result.ParseErrors)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "COOP Zürich, Kaufvertrag", result.Transactions[0].Details)
}
