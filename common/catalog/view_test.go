package catalog

import (
	"testing"

	"github.com/cmuseum/catalog/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func art(id, name, category, group, manufacturer, year string) models.Artifact {
	return models.Artifact{
		ArtifactID:   id,
		Name:         name,
		Category:     models.Category(category),
		DisplayGroup: group,
		Manufacturer: manufacturer,
		Year:         year,
	}
}

func ids(records []models.Artifact) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ArtifactID)
	}
	return out
}

func sampleCollection() []models.Artifact {
	return []models.Artifact{
		art("1", "ZX Spectrum", "Computer", "Home Computers", "Sinclair", "1982"),
		art("2", "Éclair terminal", "Peripheral", "Terminals", "Olivetti", ""),
		art("3", "apple II", "Computer", "Home Computers", "Apple", "1977"),
		art("4", "Commodore 64", "Computer", "Home Computers", "Commodore", "1982"),
		art("5", "Model M keyboard", "Peripheral", "Input Devices", "IBM", "1985"),
	}
}

func TestDeriveView_NoParamsKeepsInputOrder(t *testing.T) {
	records := sampleCollection()
	out, err := DeriveView(records, ViewParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(out))
}

func TestDeriveView_Search(t *testing.T) {
	records := sampleCollection()
	records[4].SerialNumber = "SN-1391401"
	records[2].Description = "Wozniak design"

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3", "4", "5"}},
		{"commodore", []string{"4"}},
		{"COMMODORE", []string{"4"}},
		{"1391401", []string{"5"}},
		{"wozniak", []string{"3"}},
		{"1982", []string{"1", "4"}},
		{"peripheral", []string{"2", "5"}},
		{"nothing matches this", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			out, err := DeriveView(records, ViewParams{SearchTerm: tt.term})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
		})
	}
}

func TestDeriveView_EqualityFilters(t *testing.T) {
	records := sampleCollection()

	out, err := DeriveView(records, ViewParams{Category: "Peripheral"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "5"}, ids(out))

	out, err = DeriveView(records, ViewParams{Category: All, DisplayGroup: "Home Computers"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4"}, ids(out))

	// exact match only
	out, err = DeriveView(records, ViewParams{DisplayGroup: "home computers"})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = DeriveView(records, ViewParams{Category: "Computer", DisplayGroup: "Terminals"})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDeriveView_SortByNameUsesCollation(t *testing.T) {
	records := sampleCollection()

	out, err := DeriveView(records, ViewParams{SortBy: SortByName, SortOrder: Ascending})
	require.NoError(t, err)
	// byte order would put "Éclair" after "ZX" and "apple" after "Model"
	assert.Equal(t, []string{"3", "4", "2", "5", "1"}, ids(out))

	out, err = DeriveView(records, ViewParams{SortBy: SortByName, SortOrder: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5", "2", "4", "3"}, ids(out))
}

func TestDeriveView_StableForEqualKeys(t *testing.T) {
	records := sampleCollection()

	out, err := DeriveView(records, ViewParams{SortBy: SortByCategory})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4", "2", "5"}, ids(out))

	out, err = DeriveView(records, ViewParams{SortBy: SortByCategory, SortOrder: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "5", "1", "3", "4"}, ids(out))
}

func TestDeriveView_YearFallbackRanksWithZero(t *testing.T) {
	records := []models.Artifact{
		art("a", "A", "Computer", "G", "", "1984"),
		art("b", "B", "Computer", "G", "", ""),
		art("c", "C", "Computer", "G", "", "unknown"),
		art("d", "D", "Computer", "G", "", "0"),
		art("e", "E", "Computer", "G", "", "1977"),
	}

	out, err := DeriveView(records, ViewParams{SortBy: SortByYear, SortOrder: Ascending})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d", "e", "a"}, ids(out))

	out, err = DeriveView(records, ViewParams{SortBy: SortByYear, SortOrder: Descending})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "e", "b", "c", "d"}, ids(out))
}

func TestDeriveView_PureAndDeterministic(t *testing.T) {
	records := sampleCollection()
	before := ids(records)
	params := ViewParams{SearchTerm: "o", SortBy: SortByManufacturer, SortOrder: Descending}

	first, err := DeriveView(records, params)
	require.NoError(t, err)
	second, err := DeriveView(records, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, ids(records), "input must not be reordered")

	// subset of the input without duplicates
	seen := map[string]bool{}
	for _, r := range first {
		assert.False(t, seen[r.ArtifactID])
		seen[r.ArtifactID] = true
		assert.Contains(t, before, r.ArtifactID)
	}

	// mutating the output does not leak into the input
	if len(first) > 0 {
		first[0].Name = "changed"
		for _, r := range records {
			assert.NotEqual(t, "changed", r.Name)
		}
	}
}

func TestDeriveView_InvalidParams(t *testing.T) {
	_, err := DeriveView(nil, ViewParams{SortBy: "price"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = DeriveView(nil, ViewParams{SortOrder: "sideways"})
	assert.ErrorIs(t, err, models.ErrValidation)

	out, err := DeriveView(nil, ViewParams{SortBy: SortByYear})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDeriveView_ExpressionDisabled(t *testing.T) {
	e := NewEngine("en", nil)
	_, err := e.DeriveView(sampleCollection(), ViewParams{Expression: "true"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestNewEngine_BadLocaleFallsBack(t *testing.T) {
	e := NewEngine("not a locale!!", nil)
	out, err := e.DeriveView(sampleCollection(), ViewParams{SortBy: SortByName})
	require.NoError(t, err)
	assert.Equal(t, "3", out[0].ArtifactID)
}

func TestParseYear(t *testing.T) {
	tests := map[string]int{
		"1984":    1984,
		" 1975":   1975,
		"1980s":   1980,
		"":        0,
		"unknown": 0,
		"c. 1960": 0,
		"0":       0,
		"-200":    -200,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseYear(in), "ParseYear(%q)", in)
	}
}
