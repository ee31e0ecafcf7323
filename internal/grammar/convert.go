package grammar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vyrodovalexey/qproc/internal/schema"
)

// ErrConversion is returned when an operand cannot be converted to the
// declared field type.
var ErrConversion = errors.New("operand conversion failed")

type converter func(raw string) (interface{}, error)

// converters is indexed by schema.FieldType.
var converters = [schema.NumFieldTypes]converter{
	schema.String:   convertString,
	schema.Int:      convertInt,
	schema.Float:    convertFloat,
	schema.Date:     convertDate,
	schema.Boolean:  convertBoolean,
	schema.ObjectID: convertObjectID,
}

// Convert converts a raw operand to the Go value for the field type.
func Convert(t schema.FieldType, raw string) (interface{}, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown type %s", ErrConversion, t)
	}
	return converters[t](raw)
}

func convertString(raw string) (interface{}, error) {
	return raw, nil
}

func convertInt(raw string) (interface{}, error) {
	n, ok := ParseLeadingInt(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrConversion, raw)
	}
	return n, nil
}

func convertFloat(raw string) (interface{}, error) {
	f, ok := ParseLeadingFloat(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a number", ErrConversion, raw)
	}
	return f, nil
}

func convertBoolean(raw string) (interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true, nil
	default:
		return false, nil
	}
}

func convertObjectID(raw string) (interface{}, error) {
	if strings.EqualFold(strings.TrimSpace(raw), "null") {
		return nil, nil
	}
	return raw, nil
}

// dateLayouts are tried in order. Layouts without a zone parse as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

func convertDate(raw string) (interface{}, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q is not a date", ErrConversion, raw)
}

// ParseLeadingInt parses an optionally signed run of decimal digits at the
// start of s, ignoring surrounding whitespace and any trailing characters.
// Values beyond the int64 range saturate.
func ParseLeadingInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	digits := s[:end]
	if neg {
		digits = "-" + digits
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		if neg {
			return math.MinInt64, true
		}
		return math.MaxInt64, true
	}
	return n, true
}

// ParseLeadingFloat parses the longest decimal number at the start of s,
// ignoring surrounding whitespace and any trailing characters. It accepts an
// optional sign, digits with an optional fraction, an optional exponent and
// the literal "Infinity". Hex, "NaN" and "inf" are not numbers. Values beyond
// the float64 range become infinities.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
