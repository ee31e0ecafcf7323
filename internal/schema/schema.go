package schema

import "strings"

// Path syntax for nested field names.
const (
	PathSeparator = "."
	Wildcard      = "*"
)

// AliasEntry maps an alias to its canonical name.
type AliasEntry struct {
	Alias     string
	Canonical string
}

// DefaultEntry is a registered default for a canonical name.
type DefaultEntry struct {
	Name  string
	Value Generator
}

// Schema is a compiled, immutable set of field and meta specifications. It
// is safe for concurrent use.
type Schema struct {
	keys Keys

	fields     map[string]FieldSpec
	fieldOrder []string
	fieldPaths [][]string

	meta      map[string]FieldSpec
	metaOrder []string

	fieldAliases []AliasEntry
	metaAliases  []AliasEntry

	fieldDefaults []DefaultEntry
	metaDefaults  []DefaultEntry

	projections []string
	projectable map[string]bool
	searchable  []string
}

func newSchema(keys Keys) *Schema {
	return &Schema{
		keys:        keys,
		fields:      make(map[string]FieldSpec),
		meta:        make(map[string]FieldSpec),
		projectable: make(map[string]bool),
	}
}

func (s *Schema) add(ns, name string, spec FieldSpec) {
	spec.Aliases = append([]string(nil), spec.Aliases...)

	if ns == NamespaceMeta {
		s.meta[name] = spec
		s.metaOrder = append(s.metaOrder, name)
		if spec.Default != nil {
			s.metaDefaults = append(s.metaDefaults, DefaultEntry{Name: name, Value: spec.Default})
		}
		return
	}

	s.fields[name] = spec
	s.fieldOrder = append(s.fieldOrder, name)
	s.fieldPaths = append(s.fieldPaths, strings.Split(name, PathSeparator))
	if spec.Default != nil {
		s.fieldDefaults = append(s.fieldDefaults, DefaultEntry{Name: name, Value: spec.Default})
	}
	if spec.Projectable {
		s.projections = append(s.projections, name)
		s.projectable[name] = true
	}
	if spec.Type == String && !strings.Contains(name, Wildcard) {
		s.searchable = append(s.searchable, name)
	}
}

func (s *Schema) addAlias(ns, alias, canonical string) {
	e := AliasEntry{Alias: alias, Canonical: canonical}
	if ns == NamespaceMeta {
		s.metaAliases = append(s.metaAliases, e)
		return
	}
	s.fieldAliases = append(s.fieldAliases, e)
}

// freeze trims slice capacity so appends on returned copies never alias.
func (s *Schema) freeze() {
	s.fieldOrder = s.fieldOrder[:len(s.fieldOrder):len(s.fieldOrder)]
	s.metaOrder = s.metaOrder[:len(s.metaOrder):len(s.metaOrder)]
	s.projections = s.projections[:len(s.projections):len(s.projections)]
	s.searchable = s.searchable[:len(s.searchable):len(s.searchable)]
}

// Keys returns the reserved key names.
func (s *Schema) Keys() Keys {
	return s.keys
}

// Field returns the spec of a field by canonical name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	spec, ok := s.fields[name]
	return spec, ok
}

// MetaField returns the spec of a meta entry by name.
func (s *Schema) MetaField(name string) (FieldSpec, bool) {
	spec, ok := s.meta[name]
	return spec, ok
}

// Fields returns field names in declaration order.
func (s *Schema) Fields() []string {
	return append([]string(nil), s.fieldOrder...)
}

// MetaFields returns meta names in declaration order.
func (s *Schema) MetaFields() []string {
	return append([]string(nil), s.metaOrder...)
}

// FieldAliases returns the field alias table in declaration order.
func (s *Schema) FieldAliases() []AliasEntry {
	return append([]AliasEntry(nil), s.fieldAliases...)
}

// MetaAliases returns the meta alias table in declaration order.
func (s *Schema) MetaAliases() []AliasEntry {
	return append([]AliasEntry(nil), s.metaAliases...)
}

// FieldDefaults returns the registered field defaults.
func (s *Schema) FieldDefaults() []DefaultEntry {
	return append([]DefaultEntry(nil), s.fieldDefaults...)
}

// MetaDefaults returns the registered meta defaults.
func (s *Schema) MetaDefaults() []DefaultEntry {
	return append([]DefaultEntry(nil), s.metaDefaults...)
}

// Projections returns the projectable field names in declaration order.
func (s *Schema) Projections() []string {
	return append([]string(nil), s.projections...)
}

// IsProjectable reports whether name may appear in a projection.
func (s *Schema) IsProjectable(name string) bool {
	return s.projectable[name]
}

// Searchable returns the String fields without wildcard segments, in
// declaration order.
func (s *Schema) Searchable() []string {
	return append([]string(nil), s.searchable...)
}

// Resolve maps an input key to a canonical field name. An exact match wins;
// otherwise a dotted key is matched segment by segment against fields with
// the same segment count, "*" matching any segment, and the first declared
// match wins. Unresolved keys are returned unchanged with ok == false.
func (s *Schema) Resolve(key string) (string, bool) {
	if _, ok := s.fields[key]; ok {
		return key, true
	}
	if !strings.Contains(key, PathSeparator) {
		return key, false
	}

	parts := strings.Split(key, PathSeparator)
	for i, pattern := range s.fieldPaths {
		if matchSegments(pattern, parts) {
			return s.fieldOrder[i], true
		}
	}
	return key, false
}

func matchSegments(pattern, parts []string) bool {
	if len(pattern) != len(parts) {
		return false
	}
	for i, seg := range pattern {
		if seg != Wildcard && seg != parts[i] {
			return false
		}
	}
	return true
}
