// Package grammar parses the operator mini-language embedded in query values
// into MongoDB clauses.
//
// A value is one of:
//
//	gt:10,lt:20          relational chunks, merged into one clause
//	in:a,b,c             list operator (in, nin, all), remainder is the list
//	regex:/^foo/i        pattern operator, String fields only
//	plain                unprefixed chunk, same as eq:plain
//
// Operands are converted according to the field type through a table keyed
// by schema.FieldType.
package grammar
