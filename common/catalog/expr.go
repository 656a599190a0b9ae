package catalog

import (
	"fmt"
	"sync"

	"github.com/cmuseum/catalog/common/models"
	"github.com/google/cel-go/cel"
)

const maxCachedExpressions = 256

// ExpressionFilter compiles CEL predicates over artifacts and caches the
// compiled programs by source text.
//
//	artifact.category == "Computer" && artifact.year_number < 1985
//	artifact.manufacturer.startsWith("Commodore") && artifact.image_count > 0
type ExpressionFilter struct {
	env   *cel.Env
	cache map[string]*Predicate
	mu    sync.RWMutex
}

// NewExpressionFilter creates an empty filter cache
func NewExpressionFilter() *ExpressionFilter {
	env, err := cel.NewEnv(
		cel.Variable("artifact", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		// The environment is static; failure here is a programming error
		panic(fmt.Sprintf("failed to create CEL env: %v", err))
	}
	return &ExpressionFilter{
		env:   env,
		cache: make(map[string]*Predicate),
	}
}

// Predicate is a compiled boolean expression
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile returns the cached predicate for expr, compiling it on first use.
// Invalid or non-boolean expressions wrap models.ErrValidation.
func (f *ExpressionFilter) Compile(expr string) (*Predicate, error) {
	f.mu.RLock()
	p, ok := f.cache[expr]
	f.mu.RUnlock()
	if ok {
		return p, nil
	}

	ast, issues := f.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: expression: %v", models.ErrValidation, issues.Err())
	}
	prg, err := f.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: expression: %v", models.ErrValidation, err)
	}

	p = &Predicate{expr: expr, prg: prg}

	f.mu.Lock()
	if len(f.cache) >= maxCachedExpressions {
		f.cache = make(map[string]*Predicate)
	}
	f.cache[expr] = p
	f.mu.Unlock()

	return p, nil
}

// CacheSize returns the number of cached expressions
func (f *ExpressionFilter) CacheSize() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

// Match evaluates the predicate against one artifact
func (p *Predicate) Match(a *models.Artifact) (bool, error) {
	out, _, err := p.prg.Eval(map[string]interface{}{
		"artifact": Activation(a),
	})
	if err != nil {
		return false, fmt.Errorf("%w: evaluating %q: %v", models.ErrValidation, p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: expression did not return boolean, got %T", models.ErrValidation, out.Value())
	}
	return result, nil
}

// Activation exposes an artifact's fields to expressions. Amounts are
// doubles and absent amounts are 0.
func Activation(a *models.Artifact) map[string]interface{} {
	estimated, _ := a.EstimatedValue.Decimal.Float64()
	if !a.EstimatedValue.Valid {
		estimated = 0
	}

	return map[string]interface{}{
		"artifact_id":      a.ArtifactID,
		"name":             a.Name,
		"category":         string(a.Category),
		"manufacturer":     a.Manufacturer,
		"model":            a.Model,
		"serial_number":    a.SerialNumber,
		"year":             a.Year,
		"year_number":      int64(ParseYear(a.Year)),
		"operating_system": a.OperatingSystem,
		"description":      a.Description,
		"condition":        string(a.Condition),
		"display_group":    a.DisplayGroup,
		"location":         a.Location,
		"estimated_value":  estimated,
		"donor":            a.Donor,
		"task_status":      string(a.TaskStatus),
		"task_priority":    string(a.TaskPriority),
		"image_count":      int64(len(a.Images)),
	}
}
