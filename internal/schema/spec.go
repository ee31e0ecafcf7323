package schema

import "go.mongodb.org/mongo-driver/bson"

// Generator produces a default value. It is invoked on every exec, so
// defaults relative to the current time stay current.
type Generator func() interface{}

// FieldSpec is the normalized specification of a field or meta entry.
type FieldSpec struct {
	Type        FieldType
	Aliases     []string
	Default     Generator
	Projectable bool
}

// HasDefault reports whether the entry registered a default.
func (s FieldSpec) HasDefault() bool {
	return s.Default != nil
}

// entry is a FieldSpec under construction.
type entry struct {
	name     string
	spec     FieldSpec
	defaults int
}

// FieldOption configures an entry passed to Builder.Field or Builder.Meta.
type FieldOption func(*entry)

// Alias registers alternate input keys for the entry.
func Alias(names ...string) FieldOption {
	return func(e *entry) {
		e.spec.Aliases = append(e.spec.Aliases, names...)
	}
}

// Default registers a static default. Map and slice values are deep-copied
// on every use.
func Default(value interface{}) FieldOption {
	return func(e *entry) {
		e.defaults++
		e.spec.Default = func() interface{} {
			return cloneValue(value)
		}
	}
}

// DefaultFunc registers a generator default.
func DefaultFunc(fn func() interface{}) FieldOption {
	return func(e *entry) {
		e.defaults++
		e.spec.Default = fn
	}
}

// NotProjectable excludes a field from projections.
func NotProjectable() FieldOption {
	return func(e *entry) {
		e.spec.Projectable = false
	}
}

// cloneValue deep-copies document, map and slice shapes so a default handed
// out by one exec cannot leak into the next.
func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		out := make(bson.M, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case bson.D:
		out := make(bson.D, len(val))
		for i, e := range val {
			out[i] = bson.E{Key: e.Key, Value: cloneValue(e.Value)}
		}
		return out
	case bson.A:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
