package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zueribudget/statement-importer/internal/models"
)

func TestCategorize(t *testing.T) {
	c := New()

	tests := []struct {
		name    string
		details string
		want    models.Category
	}{
		{"netflix subscription", "Netflix Monatsabo", models.CategoryEntertainment},
		{"no keyword at all", "random text no keyword", models.CategoryOther},
		{"groceries coop", "COOP Zürich, Kaufvertrag", models.CategoryGroceries},
		{"groceries migros", "Migros Oerlikon, Einkauf", models.CategoryGroceries},
		{"transport sbb", "SBB Billett Zürich-Bern", models.CategoryTransport},
		{"rent", "Miete Wohnung Zürich", models.CategoryRent},
		{"utilities", "EWZ Stromrechnung", models.CategoryUtilities},
		{"healthcare", "CSS Krankenkasse Prämie", models.CategoryHealthcare},
		{"dining", "Restaurant Kronenhalle", models.CategoryDining},
		{"shopping", "Manor Zürich, Kleidung", models.CategoryShopping},
		{"insurance", "AXA Versicherung Police", models.CategoryInsurance},
		{"salary", "Lohnzahlung Januar 2026", models.CategorySalary},
		{"education", "ETH Zürich Semestergebühren", models.CategoryEducation},
		{"savings", "Dauerauftrag Säule 3a Vorsorge", models.CategorySavings},
		{"case insensitive", "nEtFlIx abo", models.CategoryEntertainment},
		{"empty description", "", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.details))
		})
	}
}

// A description matching keywords from two categories must resolve to
// whichever category appears earlier in the priority order.
func TestCategorizePriorityOrder(t *testing.T) {
	c := New()

	tests := []struct {
		name    string
		details string
		want    models.Category
	}{
		// groceries (coop) beats shopping (bau+hobby)
		{"groceries before shopping", "Coop Bau+Hobby", models.CategoryGroceries},
		// transport (sbb) beats entertainment (fitness)
		{"transport before entertainment", "SBB Abo Fitnesspark", models.CategoryTransport},
		// healthcare (apotheke) beats dining (cafe)
		{"healthcare before dining", "Apotheke im Cafe Central", models.CategoryHealthcare},
		// utilities (swisscom) beats entertainment (netflix)
		{"utilities before entertainment", "Swisscom TV inkl. Netflix", models.CategoryUtilities},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.details))
		})
	}
}

func TestCategorizeIsDeterministic(t *testing.T) {
	c := New()
	for i := 0; i < 3; i++ {
		assert.Equal(t, models.CategoryGroceries, c.Categorize("Denner Zürich HB"))
	}
}
