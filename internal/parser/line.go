package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zueribudget/statement-importer/internal/models"
)

// Token patterns for Swiss-style statement lines.
var (
	// DD.MM.YYYY or DD.MM.YY
	datePattern = regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.(?:\d{4}|\d{2}))\b`)
	// Optional currency code, optional minus, digit groups with apostrophe
	// thousands separators, optional two-digit fraction after '.' or ','.
	// Example matches: "45.80", "-7'500.00", "CHF 1'234.56", "110"
	amountPattern = regexp.MustCompile(`(?:[A-Z]{3}\s+)?-?(?:\d{1,3}(?:'\d{3})+|\d+)(?:[.,]\d{2})?\b`)
	// Leading currency code inside a matched amount token.
	currencyPrefixPattern = regexp.MustCompile(`^[A-Z]{3}\s+`)
)

// ParseLine extracts one transaction from a candidate statement line.
// A false return is a normal, silent outcome: lines without a date token,
// without an amount token, or with an unparseable date are simply not
// transactions. No per-line failure is ever reported as an error.
//
// When several amount-shaped tokens follow the date, the last one is the
// transaction amount; the trailing numeric token is conventionally the
// ledger amount, while earlier ones tend to belong to the description
// (addresses, zone numbers, references).
func ParseLine(line string) (models.Transaction, bool) {
	dateLoc := datePattern.FindStringIndex(line)
	if dateLoc == nil {
		return models.Transaction{}, false
	}

	rest := line[dateLoc[1]:]
	amountLocs := amountPattern.FindAllStringIndex(rest, -1)
	if len(amountLocs) == 0 {
		return models.Transaction{}, false
	}
	last := amountLocs[len(amountLocs)-1]

	date, ok := parseDayMonthYear(line[dateLoc[0]:dateLoc[1]])
	if !ok {
		return models.Transaction{}, false
	}

	token := currencyPrefixPattern.ReplaceAllString(rest[last[0]:last[1]], "")
	negative := strings.HasPrefix(token, "-")
	amount, ok := normalizeAmount(strings.TrimPrefix(token, "-"))
	if !ok {
		return models.Transaction{}, false
	}

	details := strings.TrimSpace(rest[:last[0]])
	if details == "" {
		details = models.UnknownTransactionDetails
	}

	// Direction is derived solely from sign presence on the amount token:
	// unsigned means credit, a leading minus means debit. Sample ZKB data
	// reads counter-intuitively under this rule (salary carries a minus),
	// but the rule is the contract and is kept as is.
	direction := models.DirectionCredit
	if negative {
		direction = models.DirectionDebit
	}

	return models.Transaction{
		Date:      date,
		Details:   details,
		Amount:    amount,
		Direction: direction,
	}, true
}

// parseDayMonthYear parses a day-month-year token, trying the four-digit
// year form first, then the two-digit form.
func parseDayMonthYear(token string) (time.Time, bool) {
	for _, layout := range []string{"2.1.2006", "2.1.06"} {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeAmount converts an unsigned amount token to an exact decimal:
// thousands apostrophes are stripped and a comma decimal separator is
// normalized to a period.
func normalizeAmount(token string) (decimal.Decimal, bool) {
	token = strings.ReplaceAll(token, "'", "")
	token = strings.ReplaceAll(token, ",", ".")
	d, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
