package catalog

import (
	"fmt"
	"testing"

	"github.com/cmuseum/catalog/common/models"
)

// benchmarkRecords builds n artifacts spread over a few groups and categories
func benchmarkRecords(n int) []models.Artifact {
	categories := []models.Category{models.CategoryComputer, models.CategoryPeripheral, models.CategorySoftware}
	groups := []string{"Home Computers", "Mainframes", "Minicomputers", "Portables"}

	records := make([]models.Artifact, n)
	for i := range records {
		records[i] = models.Artifact{
			ArtifactID:   fmt.Sprintf("art-%05d", i),
			Name:         fmt.Sprintf("Machine %05d", n-i),
			Category:     categories[i%len(categories)],
			DisplayGroup: groups[i%len(groups)],
			Manufacturer: fmt.Sprintf("Maker %d", i%37),
			Year:         fmt.Sprintf("%d", 1950+i%60),
			Description:  "A representative machine from the collection",
		}
	}
	return records
}

// Usage:
//
//	go test ./common/catalog -bench=DeriveView -benchmem
func BenchmarkDeriveView(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		records := benchmarkRecords(n)
		engine := NewEngine("en", nil)

		b.Run(fmt.Sprintf("search_sort_name/%d", n), func(b *testing.B) {
			params := ViewParams{SearchTerm: "maker 1", SortBy: SortByName}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := engine.DeriveView(records, params); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("filter_sort_year_desc/%d", n), func(b *testing.B) {
			params := ViewParams{Category: string(models.CategoryComputer), DisplayGroup: "Mainframes", SortBy: SortByYear, SortOrder: Descending}
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := engine.DeriveView(records, params); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDeriveView_Expression(b *testing.B) {
	records := benchmarkRecords(1000)
	engine := NewEngine("en", NewExpressionFilter())
	params := ViewParams{Expression: `artifact.year_number >= 1970 && artifact.category == "Computer"`, SortBy: SortByYear}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := engine.DeriveView(records, params); err != nil {
			b.Fatal(err)
		}
	}
}
