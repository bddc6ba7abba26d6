package writer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zueribudget/statement-importer/internal/models"
)

func sampleResult() *models.ParseResult {
	return &models.ParseResult{
		SourceName: "ZKB_Januar_2026.pdf",
		Transactions: []models.Transaction{
			{
				Date:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
				Details:   "COOP Zürich, Kaufvertrag",
				Amount:    decimal.RequireFromString("45.80"),
				Direction: models.DirectionCredit,
				Category:  models.CategoryGroceries,
			},
			{
				Date:      time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC),
				Details:   "Lohnzahlung Januar 2026",
				Amount:    decimal.RequireFromString("7500"),
				Direction: models.DirectionDebit,
				Category:  models.CategorySalary,
			},
		},
	}
}

func TestCSVWriterWrite(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeSource: true}
	require.NoError(t, w.Write(&buf, sampleResult()))

	output := buf.String()
	assert.Contains(t, output, "# Source,ZKB_Januar_2026.pdf")
	assert.Contains(t, output, "Date,Details,Direction,Amount,Category")
	assert.Contains(t, output, `15.01.2026,"COOP Zürich, Kaufvertrag",credit,45.80,groceries`)
	assert.Contains(t, output, "13.01.2026,Lohnzahlung Januar 2026,debit,7500.00,salary")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Len(t, lines, 4)
}

func TestCSVWriterWriteNoSource(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleResult()))

	output := buf.String()
	assert.NotContains(t, output, "# Source")
	assert.True(t, strings.HasPrefix(output, "Date,Details,Direction,Amount,Category"))
}

func TestCSVWriterEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, &models.ParseResult{SourceName: "empty.pdf"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}
