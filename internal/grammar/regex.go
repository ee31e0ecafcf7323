package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Regex operand errors.
var (
	ErrMalformedRegex = errors.New("malformed regex")
	ErrRegexType      = errors.New("regex is only allowed on String fields")
	// ErrUnsupportedRegex marks patterns using syntax outside RE2, such as
	// lookaround or backreferences. It is reported together with
	// ErrMalformedRegex.
	ErrUnsupportedRegex = errors.New("unsupported regex syntax")
)

// regexFlags are the accepted flags; serverFlags is the subset forwarded to
// the store.
const (
	regexFlags  = "gimsuy"
	serverFlags = "ims"
)

// ParseRegex parses a "/pattern/flags" operand. The pattern is the text
// between the first and the last "/", the flags are what follows the last
// "/". Flags must be distinct members of "gimsuy" and the pattern must
// compile.
func ParseRegex(operand string) (primitive.Regex, error) {
	first := strings.Index(operand, regexDelimiter)
	last := strings.LastIndex(operand, regexDelimiter)
	if first < 0 || first == last {
		return primitive.Regex{}, fmt.Errorf("%w: %q is not delimited by /", ErrMalformedRegex, operand)
	}

	pattern := operand[first+1 : last]
	flags := operand[last+1:]

	options, err := regexOptions(flags)
	if err != nil {
		return primitive.Regex{}, err
	}

	if _, err := regexp.Compile(pattern); err != nil {
		var synErr *syntax.Error
		if errors.As(err, &synErr) &&
			(synErr.Code == syntax.ErrInvalidPerlOp || synErr.Code == syntax.ErrInvalidEscape) {
			return primitive.Regex{}, fmt.Errorf("%w: %w: pattern %q: %v",
				ErrMalformedRegex, ErrUnsupportedRegex, pattern, err)
		}
		return primitive.Regex{}, fmt.Errorf("%w: pattern %q: %v", ErrMalformedRegex, pattern, err)
	}

	return primitive.Regex{Pattern: pattern, Options: options}, nil
}

func regexOptions(flags string) (string, error) {
	var b strings.Builder
	seen := make(map[rune]bool, len(flags))

	for _, f := range flags {
		if !strings.ContainsRune(regexFlags, f) {
			return "", fmt.Errorf("%w: invalid flag %q", ErrMalformedRegex, f)
		}
		if seen[f] {
			return "", fmt.Errorf("%w: repeated flag %q", ErrMalformedRegex, f)
		}
		seen[f] = true
		if strings.ContainsRune(serverFlags, f) {
			b.WriteRune(f)
		}
	}

	return b.String(), nil
}
