package schema

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/qproc/internal/util"
)

// FieldType is the declared value type of a field or meta entry.
type FieldType int

// Field types. The zero value is String.
const (
	String FieldType = iota
	Int
	Float
	Date
	Boolean
	ObjectID

	// NumFieldTypes is the number of field types. Tables keyed by FieldType
	// are sized with it.
	NumFieldTypes
)

var fieldTypeNames = [NumFieldTypes]string{
	String:   "String",
	Int:      "Int",
	Float:    "Float",
	Date:     "Date",
	Boolean:  "Boolean",
	ObjectID: "ObjectId",
}

// String returns the type tag used in configuration files.
func (t FieldType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	return t >= String && t < NumFieldTypes
}

// ParseFieldType parses a type tag case-insensitively. An empty tag is String.
func ParseFieldType(tag string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "string":
		return String, nil
	case "int", "integer":
		return Int, nil
	case "float", "number":
		return Float, nil
	case "date":
		return Date, nil
	case "boolean", "bool":
		return Boolean, nil
	case "objectid":
		return ObjectID, nil
	default:
		return String, fmt.Errorf("%w: %q", util.ErrUnknownType, tag)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", util.ErrUnknownType, int(t))
	}
	return []byte(t.String()), nil
}
