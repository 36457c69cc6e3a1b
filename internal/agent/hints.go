package agent

import (
	"strings"
)

// Category labels the kind of execution error a hint rule recognizes
type Category string

const (
	CategoryUnknownColumn Category = "unknown_column"
	CategoryUnknownTable  Category = "unknown_table"
	CategorySyntax        Category = "syntax"
	CategoryTypeMismatch  Category = "type_mismatch"
	CategoryAmbiguous     Category = "ambiguous"
	CategoryGeneric       Category = "generic"
)

// HintRule maps an error message to a corrective hint. A rule matches when
// every keyword appears in the message, case-insensitively. Rules are tried
// in order; first match wins. The rule table is data, not behavior: engines
// word their errors differently, and callers can swap in their own table
// with WithHintRules.
type HintRule struct {
	Category Category
	Keywords []string
	Hint     string
}

// Hint strings per category
const (
	hintUnknownColumn = "One or more column names do not exist. Use only the exact column names listed in the schema."
	hintUnknownTable  = "That table does not exist. Always qualify tables with their schema (e.g. schema_name.table_name) and use only tables from the schema summary."
	hintSyntax        = "The SQL has a syntax error. Rewrite the statement with valid DuckDB syntax."
	hintTypeMismatch  = "There is a type mismatch. Add explicit CASTs where comparing or combining different types."
	hintAmbiguous     = "A column reference is ambiguous. Qualify columns with table aliases."

	// GenericHint is the fallback when no rule matches, making
	// classification total over arbitrary messages.
	GenericHint = "Re-check the schema summary and make sure the query only uses the tables and columns it lists."
)

// DefaultHintRules is the keyword table tuned to DuckDB's error wording
var DefaultHintRules = []HintRule{
	{CategoryUnknownColumn, []string{"column", "not found"}, hintUnknownColumn},
	{CategoryUnknownTable, []string{"table", "does not exist"}, hintUnknownTable},
	{CategoryUnknownTable, []string{"table", "not found"}, hintUnknownTable},
	{CategoryUnknownTable, []string{"does not exist"}, hintUnknownTable},
	{CategorySyntax, []string{"syntax"}, hintSyntax},
	{CategorySyntax, []string{"parser error"}, hintSyntax},
	{CategoryTypeMismatch, []string{"type mismatch"}, hintTypeMismatch},
	{CategoryTypeMismatch, []string{"cannot compare"}, hintTypeMismatch},
	{CategoryTypeMismatch, []string{"could not convert"}, hintTypeMismatch},
	{CategoryAmbiguous, []string{"ambiguous"}, hintAmbiguous},
}

// classify selects the corrective hint for an error message. It never fails
// to produce a hint.
func classify(rules []HintRule, message string) (Category, string) {
	lowered := strings.ToLower(message)

	for _, rule := range rules {
		if rule.matches(lowered) {
			return rule.Category, rule.Hint
		}
	}

	return CategoryGeneric, GenericHint
}

func (r HintRule) matches(loweredMessage string) bool {
	for _, keyword := range r.Keywords {
		if !strings.Contains(loweredMessage, keyword) {
			return false
		}
	}

	return len(r.Keywords) > 0
}
