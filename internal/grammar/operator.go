package grammar

import "strings"

// Operator is a MongoDB query operator.
type Operator string

// Operators produced by the grammar.
const (
	OpEq    Operator = "$eq"
	OpNe    Operator = "$ne"
	OpLt    Operator = "$lt"
	OpLte   Operator = "$lte"
	OpGt    Operator = "$gt"
	OpGte   Operator = "$gte"
	OpIn    Operator = "$in"
	OpNin   Operator = "$nin"
	OpAll   Operator = "$all"
	OpRegex Operator = "$regex"
	OpOr    Operator = "$or"
)

// Grammar tokens.
const (
	chunkSeparator = ","
	regexPrefix    = "regex:"
	regexDelimiter = "/"
)

type prefix struct {
	token string
	op    Operator
}

// Longer tokens first so "lte:" is not read as "lt:".
var relationalPrefixes = []prefix{
	{token: "eq:", op: OpEq},
	{token: "ne:", op: OpNe},
	{token: "lte:", op: OpLte},
	{token: "lt:", op: OpLt},
	{token: "gte:", op: OpGte},
	{token: "gt:", op: OpGt},
}

var listPrefixes = []prefix{
	{token: "nin:", op: OpNin},
	{token: "in:", op: OpIn},
	{token: "all:", op: OpAll},
}

func matchPrefix(s string, table []prefix) (Operator, string, bool) {
	for _, p := range table {
		if rest, ok := strings.CutPrefix(s, p.token); ok {
			return p.op, rest, true
		}
	}
	return "", s, false
}

// cutRelational splits a chunk into its operator and operand. Unprefixed
// chunks are equality matches.
func cutRelational(chunk string) (Operator, string) {
	if op, rest, ok := matchPrefix(chunk, relationalPrefixes); ok {
		return op, rest
	}
	return OpEq, chunk
}

// cutList reports whether the value is a list expression.
func cutList(value string) (Operator, string, bool) {
	return matchPrefix(value, listPrefixes)
}
