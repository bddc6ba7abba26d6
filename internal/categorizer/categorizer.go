// Package categorizer maps free-text transaction descriptions to spending
// categories using an ordered table of case-insensitive substring keywords.
package categorizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/zueribudget/statement-importer/internal/models"
)

// rule binds a category to the keywords that select it. The order of the
// rules table is the priority order: a description matching keywords from
// two categories always resolves to the one listed first.
type rule struct {
	category models.Category
	keywords []string
}

// Keywords are matched against the lowercased description, so they must be
// lowercase here. Vocabulary follows Swiss (ZKB-style) statements.
var rules = []rule{
	{models.CategoryGroceries, []string{
		"coop", "migros", "denner", "aldi", "lidl", "spar ", "volg",
		"supermarkt", "lebensmittel", "kaufvertrag", "einkauf",
	}},
	{models.CategoryTransport, []string{
		"sbb", "vbz", "zvv", "postauto", "mobility", "billett",
		"parkhaus", "tankstelle", "taxi", "uber",
	}},
	{models.CategoryRent, []string{
		"miete", "wohnung", "immobilien", "liegenschaft", "nebenkosten",
	}},
	{models.CategoryUtilities, []string{
		"ewz", "strom", "swisscom", "sunrise", "salt ", "serafe",
		"internet", "wasser", "heizung",
	}},
	{models.CategoryHealthcare, []string{
		"apotheke", "arzt", "spital", "zahnarzt", "css", "helsana",
		"swica", "sanitas", "krankenkasse",
	}},
	{models.CategoryDining, []string{
		"restaurant", "cafe", "café", "bar ", "pizzeria", "takeaway",
		"mcdonald", "starbucks", "kebab",
	}},
	{models.CategoryShopping, []string{
		"manor", "zalando", "digitec", "galaxus", "amazon", "ikea",
		"interdiscount", "kleidung", "bau+hobby",
	}},
	{models.CategoryInsurance, []string{
		"versicherung", "axa", "mobiliar", "allianz", "helvetia", "baloise",
	}},
	{models.CategorySalary, []string{
		"lohn", "gehalt", "salär", "lohnzahlung", "salary",
	}},
	{models.CategoryEntertainment, []string{
		"netflix", "spotify", "disney", "kino", "konzert", "steam",
		"fitness", "theater",
	}},
	{models.CategoryEducation, []string{
		"schule", "universität", "eth ", "kurs", "ausbildung", "semester",
	}},
	{models.CategorySavings, []string{
		"sparen", "säule", "vorsorge", "depot", "etf",
	}},
}

// Categorizer resolves descriptions against the rules table. It is pure
// and safe for concurrent use; callers own their instance (no process-wide
// singleton).
type Categorizer struct {
	matcher *ahocorasick.Matcher
	// byKeyword maps a matcher pattern index back to its category.
	// Patterns are inserted in rule order, so a lower index always means
	// an equal-or-earlier category in the priority order.
	byKeyword []models.Category
}

// New builds a Categorizer from the fixed rules table.
func New() *Categorizer {
	var patterns [][]byte
	var byKeyword []models.Category
	for _, r := range rules {
		for _, kw := range r.keywords {
			patterns = append(patterns, []byte(kw))
			byKeyword = append(byKeyword, r.category)
		}
	}
	return &Categorizer{
		matcher:   ahocorasick.NewMatcher(patterns),
		byKeyword: byKeyword,
	}
}

// Categorize returns the first category in priority order whose keyword
// list has a case-insensitive substring match in details, or CategoryOther
// when nothing matches.
func (c *Categorizer) Categorize(details string) models.Category {
	hits := c.matcher.Match([]byte(strings.ToLower(details)))
	if len(hits) == 0 {
		return models.CategoryOther
	}

	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(c.byKeyword) {
			continue
		}
		if best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return models.CategoryOther
	}
	return c.byKeyword[best]
}
