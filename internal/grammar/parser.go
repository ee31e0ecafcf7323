package grammar

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vyrodovalexey/qproc/internal/schema"
)

// ErrEmptyClause is returned when a value produced no operator.
var ErrEmptyClause = errors.New("value produced no clause")

// Parse compiles a raw query value for a field of type t into a clause.
//
// A value starting with a list operator consumes the rest of the string as
// its comma-separated operand list. A value starting with "regex:" is a
// single pattern. Anything else is split on commas into relational chunks
// that are merged into one clause, a later chunk overriding an earlier one
// with the same operator.
//
// A nil clause is returned together with the reason when nothing usable was
// found; the caller drops the field.
func Parse(t schema.FieldType, raw string) (bson.M, error) {
	if op, rest, ok := cutList(raw); ok {
		return parseList(t, op, rest)
	}
	if rest, ok := strings.CutPrefix(raw, regexPrefix); ok {
		return parsePattern(t, rest)
	}
	return parseChunks(t, raw)
}

func parseList(t schema.FieldType, op Operator, rest string) (bson.M, error) {
	// No operands is an empty list, not one empty operand.
	if rest == "" {
		return bson.M{string(op): []interface{}{}}, nil
	}

	operands := strings.Split(rest, chunkSeparator)
	values := make([]interface{}, 0, len(operands))

	for _, operand := range operands {
		v, err := Convert(t, operand)
		if err != nil {
			return nil, fmt.Errorf("%s list: %w", op, err)
		}
		values = append(values, v)
	}

	return bson.M{string(op): values}, nil
}

func parsePattern(t schema.FieldType, operand string) (bson.M, error) {
	if t != schema.String {
		return nil, fmt.Errorf("%w: field type is %s", ErrRegexType, t)
	}
	re, err := ParseRegex(operand)
	if err != nil {
		return nil, err
	}
	return bson.M{string(OpRegex): re}, nil
}

func parseChunks(t schema.FieldType, raw string) (bson.M, error) {
	clause := bson.M{}
	var lastErr error

	for _, chunk := range strings.Split(raw, chunkSeparator) {
		op, operand := cutRelational(chunk)
		v, err := Convert(t, operand)
		if err != nil {
			lastErr = err
			continue
		}
		clause[string(op)] = v
	}

	if len(clause) == 0 {
		if lastErr == nil {
			lastErr = ErrEmptyClause
		}
		return nil, lastErr
	}
	return clause, nil
}
