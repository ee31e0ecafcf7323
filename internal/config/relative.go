package config

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// nowPattern matches $now, $now+<duration> and $now-<duration>.
var nowPattern = regexp.MustCompile(`^\$now(?:([+-])(.+))?$`)

// nowOffset marks a position in a default evaluated against the clock.
type nowOffset time.Duration

// template is a default value with nowOffset placeholders.
type template struct {
	value interface{}
}

// compileRelative replaces $now strings in v with placeholders. It reports
// whether any were found.
func compileRelative(v interface{}) (template, bool, error) {
	found := false
	value, err := replaceNow(v, &found)
	if err != nil {
		return template{}, false, err
	}
	return template{value: value}, found, nil
}

func replaceNow(v interface{}, found *bool) (interface{}, error) {
	switch val := v.(type) {
	case string:
		offset, ok, err := parseNow(val)
		if err != nil || !ok {
			return val, err
		}
		*found = true
		return offset, nil
	case bson.M:
		out := make(bson.M, len(val))
		for k, item := range val {
			replaced, err := replaceNow(item, found)
			if err != nil {
				return nil, err
			}
			out[k] = replaced
		}
		return out, nil
	case bson.A:
		out := make(bson.A, len(val))
		for i, item := range val {
			replaced, err := replaceNow(item, found)
			if err != nil {
				return nil, err
			}
			out[i] = replaced
		}
		return out, nil
	default:
		return v, nil
	}
}

func parseNow(s string) (nowOffset, bool, error) {
	m := nowPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false, nil
	}
	if m[1] == "" {
		return 0, true, nil
	}

	d, err := time.ParseDuration(m[1] + m[2])
	if err != nil {
		return 0, false, fmt.Errorf("invalid relative time %q: %w", s, err)
	}
	return nowOffset(d), true, nil
}

// expand returns a fresh copy of the template with placeholders resolved
// against now.
func (t template) expand(now time.Time) interface{} {
	return expandValue(t.value, now.UTC())
}

func expandValue(v interface{}, now time.Time) interface{} {
	switch val := v.(type) {
	case nowOffset:
		return now.Add(time.Duration(val))
	case bson.M:
		out := make(bson.M, len(val))
		for k, item := range val {
			out[k] = expandValue(item, now)
		}
		return out
	case bson.A:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = expandValue(item, now)
		}
		return out
	default:
		return v
	}
}
