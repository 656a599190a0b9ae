package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cmuseum/catalog/common/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All disables the category or display group filter
const All = "all"

// SortField selects the sort key of a view
type SortField string

const (
	SortByName         SortField = "name"
	SortByYear         SortField = "year"
	SortByManufacturer SortField = "manufacturer"
	SortByCategory     SortField = "category"
)

// SortOrder is asc or desc
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ViewParams are the filter and sort inputs of a derived view. Empty SortBy
// keeps input order.
type ViewParams struct {
	SearchTerm   string    `query:"q" json:"q"`
	Category     string    `query:"category" json:"category"`
	DisplayGroup string    `query:"display_group" json:"display_group"`
	SortBy       SortField `query:"sort_by" json:"sort_by"`
	SortOrder    SortOrder `query:"sort_order" json:"sort_order"`

	// Optional CEL predicate over the artifact variable
	Expression string `query:"expr" json:"expr"`
}

// Validate rejects unknown sort keys and orders
func (p ViewParams) Validate() error {
	switch p.SortBy {
	case "", SortByName, SortByYear, SortByManufacturer, SortByCategory:
	default:
		return fmt.Errorf("%w: unknown sort field %q", models.ErrValidation, p.SortBy)
	}
	switch p.SortOrder {
	case "", Ascending, Descending:
	default:
		return fmt.Errorf("%w: unknown sort order %q", models.ErrValidation, p.SortOrder)
	}
	return nil
}

// Engine derives filtered, sorted views of artifact lists
type Engine struct {
	tag   language.Tag
	exprs *ExpressionFilter
}

// NewEngine creates an engine collating strings for locale (a BCP 47 tag).
// exprs may be nil, in which case views with an Expression are rejected.
func NewEngine(locale string, exprs *ExpressionFilter) *Engine {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Engine{tag: tag, exprs: exprs}
}

var defaultEngine = NewEngine("en", NewExpressionFilter())

// DeriveView filters and sorts records with English collation
func DeriveView(records []models.Artifact, params ViewParams) ([]models.Artifact, error) {
	return defaultEngine.DeriveView(records, params)
}

// DeriveView returns a new slice holding the records that match every active
// filter in params, ordered by the requested key. The input is never
// modified and records with equal keys keep their input order.
func (e *Engine) DeriveView(records []models.Artifact, params ViewParams) ([]models.Artifact, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var match func(*models.Artifact) (bool, error)
	if params.Expression != "" {
		if e.exprs == nil {
			return nil, fmt.Errorf("%w: expression queries are disabled", models.ErrValidation)
		}
		prg, err := e.exprs.Compile(params.Expression)
		if err != nil {
			return nil, err
		}
		match = prg.Match
	}

	term := strings.ToLower(params.SearchTerm)

	out := make([]models.Artifact, 0, len(records))
	for i := range records {
		a := &records[i]
		if !matchesSearch(a, term) {
			continue
		}
		if !matchesFilter(string(a.Category), params.Category) {
			continue
		}
		if !matchesFilter(a.DisplayGroup, params.DisplayGroup) {
			continue
		}
		if match != nil {
			ok, err := match(a)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, *a)
	}

	if params.SortBy != "" {
		e.sort(out, params.SortBy, params.SortOrder == Descending)
	}

	return out, nil
}

func (e *Engine) sort(records []models.Artifact, field SortField, desc bool) {
	var less func(a, b *models.Artifact) bool

	if field == SortByYear {
		years := make(map[string]int, len(records))
		for i := range records {
			years[records[i].Year] = ParseYear(records[i].Year)
		}
		less = func(a, b *models.Artifact) bool {
			return years[a.Year] < years[b.Year]
		}
	} else {
		// Collator holds scratch buffers; one per call keeps DeriveView safe
		// for concurrent use.
		col := collate.New(e.tag)
		key := stringKey(field)
		less = func(a, b *models.Artifact) bool {
			return col.CompareString(key(a), key(b)) < 0
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(&records[j], &records[i])
		}
		return less(&records[i], &records[j])
	})
}

func stringKey(field SortField) func(*models.Artifact) string {
	switch field {
	case SortByManufacturer:
		return func(a *models.Artifact) string { return a.Manufacturer }
	case SortByCategory:
		return func(a *models.Artifact) string { return string(a.Category) }
	default:
		return func(a *models.Artifact) string { return a.Name }
	}
}

func matchesFilter(value, selected string) bool {
	return selected == "" || selected == All || value == selected
}

func matchesSearch(a *models.Artifact, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{
		a.Name,
		a.Manufacturer,
		a.Model,
		a.Description,
		string(a.Category),
		a.SerialNumber,
		a.Year,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// ParseYear reads the leading integer of a free-text year ("1984",
// "1980s"). Anything without leading digits, including "", sorts as 0, the
// same rank as a literal year 0.
func ParseYear(year string) int {
	s := strings.TrimLeftFunc(year, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
