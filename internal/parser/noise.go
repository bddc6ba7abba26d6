package parser

import (
	"regexp"
	"strings"
)

// Noise patterns: structural lines of the statement layout that must never
// reach the transaction line parser.
var (
	// "Seite 2", "Page 3" style page markers, anchored at line start.
	pageMarkerPattern = regexp.MustCompile(`^(?:Seite|Page)\s+\d+\b`)
	// Separator rows of repeated dashes or equals signs.
	separatorPattern = regexp.MustCompile(`^[-=]{3,}$`)
	// Swiss IBAN fragments as they appear on account header lines,
	// e.g. "CH93 0070 0110 0012 3456 7".
	ibanPattern = regexp.MustCompile(`\bCH\d{2}(?:\s?\d{4}){3,}`)
	// The bank's street-address header line ("Bahnhofstrasse 9"). Anchored
	// with a house number so merchant descriptions that mention the street
	// stay parseable.
	bankAddressPattern = regexp.MustCompile(`^Bahnhofstrasse \d+$`)
)

// Header vocabulary is matched case-sensitively: these markers appear with
// fixed capitalization on the statements themselves.
var headerMarkers = []string{
	"Kontoauszug",
	"Saldo",
	"IBAN",
	"Zürcher Kantonalbank",
	"Periode /",
	"Erstellt /",
	"Buchungstext",
	"Alle Angaben ohne Gewähr",
}

// IsNoise reports whether a line is part of the document layout (headers,
// footers, balances, separators, blank lines) rather than a transaction
// record. Noise lines are dropped before any parse attempt and never
// contribute to parse errors.
func IsNoise(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if pageMarkerPattern.MatchString(trimmed) {
		return true
	}
	if separatorPattern.MatchString(trimmed) {
		return true
	}
	if ibanPattern.MatchString(trimmed) {
		return true
	}
	if bankAddressPattern.MatchString(trimmed) {
		return true
	}
	for _, marker := range headerMarkers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	return false
}
