package schema

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/qproc/internal/util"
)

// Namespaces of a schema.
const (
	NamespaceFields = "fields"
	NamespaceMeta   = "meta"
)

// Builder collects field and meta declarations and compiles them into a
// Schema. Declaration order is preserved.
type Builder struct {
	fields []*entry
	meta   []*entry
	keys   Keys
}

// NewBuilder creates a builder with the default reserved keys.
func NewBuilder() *Builder {
	return &Builder{keys: DefaultKeys()}
}

// Field declares a filterable field. Fields are projectable unless
// NotProjectable is given.
func (b *Builder) Field(name string, t FieldType, opts ...FieldOption) *Builder {
	b.fields = append(b.fields, newEntry(name, t, true, opts))
	return b
}

// Meta declares a typed pass-through entry.
func (b *Builder) Meta(name string, t FieldType, opts ...FieldOption) *Builder {
	b.meta = append(b.meta, newEntry(name, t, false, opts))
	return b
}

// WithKeys replaces the reserved key names.
func (b *Builder) WithKeys(keys Keys) *Builder {
	b.keys = keys
	return b
}

func newEntry(name string, t FieldType, projectable bool, opts []FieldOption) *entry {
	e := &entry{
		name: name,
		spec: FieldSpec{Type: t, Projectable: projectable},
	}
	for _, opt := range opts {
		opt(e)
	}
	if !projectable {
		e.spec.Projectable = false
	}
	return e
}

// compiler holds the tables shared by both namespaces while building.
type compiler struct {
	schema   *Schema
	aliases  map[string]string
	defaults map[string]string
}

// Build validates the declarations and returns a frozen Schema. Any
// *util.ConfigError returned wraps one of the util sentinel errors.
func (b *Builder) Build() (*Schema, error) {
	if err := validateKeys(b.keys); err != nil {
		return nil, err
	}

	c := &compiler{
		schema:   newSchema(b.keys),
		aliases:  make(map[string]string),
		defaults: make(map[string]string),
	}

	if err := c.namespace(NamespaceFields, b.fields); err != nil {
		return nil, err
	}
	if err := c.namespace(NamespaceMeta, b.meta); err != nil {
		return nil, err
	}

	c.schema.freeze()
	return c.schema, nil
}

func (c *compiler) namespace(ns string, entries []*entry) error {
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		path := ns + "." + e.name

		if e.name == "" {
			return util.NewConfigErrorWithCause(ns, "entry name is empty", util.ErrConfigInvalid)
		}
		if seen[e.name] {
			return util.NewConfigErrorWithCause(path,
				fmt.Sprintf("%s is declared more than once", e.name), util.ErrDuplicateField)
		}
		seen[e.name] = true

		if !e.spec.Type.Valid() {
			return util.NewConfigErrorWithCause(path+".type",
				fmt.Sprintf("invalid field type for %s", e.name), util.ErrUnknownType)
		}

		if err := c.registerAliases(ns, path, e); err != nil {
			return err
		}
		if err := c.registerDefault(path, e); err != nil {
			return err
		}

		c.schema.add(ns, e.name, e.spec)
	}

	return nil
}

func (c *compiler) registerAliases(ns, path string, e *entry) error {
	for _, alias := range e.spec.Aliases {
		if strings.TrimSpace(alias) == "" {
			return util.NewConfigErrorWithCause(path+".alias",
				fmt.Sprintf("invalid alias for field %s", e.name), util.ErrInvalidAlias)
		}
		if owner, exists := c.aliases[alias]; exists {
			return util.NewConfigErrorWithCause(path+".alias",
				fmt.Sprintf("alias %s already exists (registered by %s)", alias, owner), util.ErrDuplicateAlias)
		}
		c.aliases[alias] = path
		c.schema.addAlias(ns, alias, e.name)
	}
	return nil
}

func (c *compiler) registerDefault(path string, e *entry) error {
	if e.defaults == 0 {
		return nil
	}
	if e.defaults > 1 {
		return util.NewConfigErrorWithCause(path+".default",
			fmt.Sprintf("default value for %s already exists", e.name), util.ErrDuplicateDefault)
	}
	if owner, exists := c.defaults[e.name]; exists {
		return util.NewConfigErrorWithCause(path+".default",
			fmt.Sprintf("default value for %s already exists (registered by %s)", e.name, owner),
			util.ErrDuplicateDefault)
	}
	c.defaults[e.name] = path
	return nil
}

func validateKeys(keys Keys) error {
	used := make(map[string]string, 5)
	for _, pair := range keys.named() {
		role, name := pair[0], pair[1]
		if strings.TrimSpace(name) == "" {
			return util.NewConfigErrorWithCause("keys."+role, "reserved key is empty", util.ErrInvalidKey)
		}
		if other, exists := used[name]; exists {
			return util.NewConfigErrorWithCause("keys."+role,
				fmt.Sprintf("reserved key %s is already used for %s", name, other), util.ErrInvalidKey)
		}
		used[name] = role
	}
	return nil
}
