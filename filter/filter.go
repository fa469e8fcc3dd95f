// Package filter compiles expression-language filters and evaluates them
// against report rows, so CLI users can narrow conversions and statistics
// output with expressions like:
//
//	conversionValue > 100 && contains(conversionClass, "purchase")
package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Row is one result row as returned by the reporting API.
type Row = map[string]any

// CompiledFilter is a pre-compiled filter ready for evaluation.
type CompiledFilter interface {
	// Evaluate checks if a row matches the filter criteria. Rows that
	// make the expression fail at runtime do not match.
	Evaluate(row Row) bool

	// Expression returns the original filter expression.
	Expression() string
}

// Compiler compiles filter expressions into executable filters.
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// exprFilter implements CompiledFilter using the expr language.
type exprFilter struct {
	expression string
	program    *vm.Program
}

// exprCompiler implements Compiler for expr-based filters.
type exprCompiler struct {
	helperFuncs map[string]any
}

// NewCompiler creates a new expr-based filter compiler.
func NewCompiler() Compiler {
	return &exprCompiler{helperFuncs: createHelperFunctions()}
}

// Compile parses and compiles a filter expression.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // row columns are not known upfront
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &exprFilter{expression: expression, program: program}, nil
}

// Evaluate evaluates the filter against one row. The row's columns are
// exposed as top-level variables, the whole row as Row.
func (f *exprFilter) Evaluate(row Row) bool {
	env := make(map[string]any, len(row)+16)
	addHelperFunctions(env)
	maps.Copy(env, row)
	env["Row"] = row

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}
	return result.(bool)
}

// Expression returns the original expression.
func (f *exprFilter) Expression() string {
	return f.expression
}

// Compile compiles an expression with a default compiler.
func Compile(expression string) (CompiledFilter, error) {
	return NewCompiler().Compile(expression)
}

// Apply returns the rows matching the filter, preserving order.
func Apply(rows []Row, f CompiledFilter) []Row {
	var matched []Row
	for _, row := range rows {
		if f.Evaluate(row) {
			matched = append(matched, row)
		}
	}
	return matched
}

// createHelperFunctions creates the helper functions visible during
// compilation and evaluation.
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["now"] = time.Now
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}
