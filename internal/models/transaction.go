package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction marks whether money left the account (debit) or entered it (credit).
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Category is one of a fixed set of spending categories plus a catch-all.
// The keyword rules that map a description to a category live in the
// categorizer package; the type itself carries no logic.
type Category string

const (
	CategoryGroceries     Category = "groceries"
	CategoryTransport     Category = "transport"
	CategoryRent          Category = "rent"
	CategoryUtilities     Category = "utilities"
	CategoryHealthcare    Category = "healthcare"
	CategoryDining        Category = "dining"
	CategoryShopping      Category = "shopping"
	CategoryInsurance     Category = "insurance"
	CategorySalary        Category = "salary"
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategorySavings       Category = "savings"
	CategoryOther         Category = "other"
)

// UnknownTransactionDetails is substituted when a transaction line yields
// no description text between the date and the amount.
const UnknownTransactionDetails = "Unknown Transaction"

// Transaction represents a single parsed statement transaction.
// Amount is always a non-negative magnitude; the sign of the source token
// is consumed to pick Direction and never stored.
type Transaction struct {
	Date      time.Time       `json:"date"`
	Details   string          `json:"details"`
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
	Category  Category        `json:"category"`
}

// ParseResult is the aggregate outcome of one parse invocation.
// It is constructed once, owned by the caller for the duration of a
// dry-run review, and never mutated by the parser afterwards.
type ParseResult struct {
	Transactions []Transaction `json:"transactions"`
	RawLines     []string      `json:"rawLines"`
	ParseErrors  []string      `json:"parseErrors"`
	SourceName   string        `json:"sourceName"`
}
