package config

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/qproc/internal/schema"
	"github.com/vyrodovalexey/qproc/internal/util"
)

// Top-level sections.
const (
	sectionKeys   = "keys"
	sectionFields = schema.NamespaceFields
	sectionMeta   = schema.NamespaceMeta
)

// Entry attributes.
const (
	attrType        = "type"
	attrAlias       = "alias"
	attrDefault     = "default"
	attrProjectable = "projectable"
)

const (
	tagString = "!!str"
	tagBool   = "!!bool"
	tagNull   = "!!null"
)

func (l *Loader) decodeDocument(doc *yaml.Node) (*schema.Builder, error) {
	b := schema.NewBuilder()

	if doc.Kind == 0 {
		return b, nil
	}
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return b, nil
		}
		root = root.Content[0]
	}
	if root.ShortTag() == tagNull {
		return b, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, nodeError("", root, "schema document must be a mapping")
	}

	seen := make(map[string]bool, 3)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if seen[key.Value] {
			return nil, nodeError(key.Value, key, "section is declared more than once")
		}
		seen[key.Value] = true

		var err error
		switch key.Value {
		case sectionKeys:
			err = decodeKeys(b, value)
		case sectionFields, sectionMeta:
			err = l.decodeNamespace(b, key.Value, value)
		default:
			err = nodeError(key.Value, key, "unknown section")
		}
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

func decodeKeys(b *schema.Builder, node *yaml.Node) error {
	if node.ShortTag() == tagNull {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return nodeError(sectionKeys, node, "keys must be a mapping")
	}

	var keys schema.Keys
	targets := map[string]*string{
		"sort":       &keys.Sort,
		"limit":      &keys.Limit,
		"skip":       &keys.Skip,
		"search":     &keys.Search,
		"projection": &keys.Projection,
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		path := sectionKeys + "." + key.Value

		target, ok := targets[key.Value]
		if !ok {
			return nodeErrorWithCause(path, key, "unknown reserved key", util.ErrInvalidKey)
		}
		if value.Kind != yaml.ScalarNode || value.ShortTag() != tagString {
			return nodeErrorWithCause(path, value, "reserved key must be a string", util.ErrInvalidKey)
		}
		*target = value.Value
	}

	b.WithKeys(keys.WithDefaults())
	return nil
}

func (l *Loader) decodeNamespace(b *schema.Builder, ns string, node *yaml.Node) error {
	if node.ShortTag() == tagNull {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return nodeError(ns, node, ns+" must be a mapping")
	}

	declare := b.Field
	if ns == sectionMeta {
		declare = b.Meta
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		path := ns + "." + key.Value

		t, opts, err := l.decodeEntry(path, value)
		if err != nil {
			return err
		}
		declare(key.Value, t, opts...)
	}

	return nil
}

// decodeEntry decodes either a bare type tag or an attribute mapping.
func (l *Loader) decodeEntry(path string, node *yaml.Node) (schema.FieldType, []schema.FieldOption, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == tagNull {
			return schema.String, nil, nil
		}
		t, err := parseType(path, node)
		return t, nil, err
	case yaml.MappingNode:
		return l.decodeAttributes(path, node)
	default:
		return schema.String, nil, nodeError(path, node, "entry must be a type name or a mapping")
	}
}

func (l *Loader) decodeAttributes(path string, node *yaml.Node) (schema.FieldType, []schema.FieldOption, error) {
	t := schema.String
	var opts []schema.FieldOption
	seen := make(map[string]bool, 4)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		attrPath := path + "." + key.Value

		// A repeated default reaches the builder, which reports it.
		if seen[key.Value] && key.Value != attrDefault {
			return t, nil, nodeError(attrPath, key, "attribute is declared more than once")
		}
		seen[key.Value] = true

		switch key.Value {
		case attrType:
			parsed, err := parseType(attrPath, value)
			if err != nil {
				return t, nil, err
			}
			t = parsed
		case attrAlias:
			aliases, err := decodeAliases(attrPath, value)
			if err != nil {
				return t, nil, err
			}
			opts = append(opts, schema.Alias(aliases...))
		case attrDefault:
			opt, err := l.decodeDefault(attrPath, value)
			if err != nil {
				return t, nil, err
			}
			opts = append(opts, opt)
		case attrProjectable:
			if value.Kind != yaml.ScalarNode || value.ShortTag() != tagBool {
				return t, nil, nodeError(attrPath, value, "projectable must be a boolean")
			}
			projectable, _ := strconv.ParseBool(value.Value)
			if !projectable {
				opts = append(opts, schema.NotProjectable())
			}
		default:
			return t, nil, nodeError(attrPath, key, "unknown attribute")
		}
	}

	return t, opts, nil
}

func parseType(path string, node *yaml.Node) (schema.FieldType, error) {
	if node.Kind != yaml.ScalarNode || node.ShortTag() != tagString {
		return schema.String, nodeErrorWithCause(path, node, "type must be a string", util.ErrUnknownType)
	}
	t, err := schema.ParseFieldType(node.Value)
	if err != nil {
		return schema.String, nodeErrorWithCause(path, node, err.Error(), util.ErrUnknownType)
	}
	return t, nil
}

// decodeAliases accepts a string or a sequence of strings.
func decodeAliases(path string, node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() != tagString {
			return nil, nodeErrorWithCause(path, node, "alias must be a string", util.ErrInvalidAlias)
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		aliases := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.ShortTag() != tagString {
				return nil, nodeErrorWithCause(path, item, "alias must be a string", util.ErrInvalidAlias)
			}
			aliases = append(aliases, item.Value)
		}
		return aliases, nil
	default:
		return nil, nodeErrorWithCause(path, node, "alias must be a string or a list of strings", util.ErrInvalidAlias)
	}
}

func (l *Loader) decodeDefault(path string, node *yaml.Node) (schema.FieldOption, error) {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return nil, nodeErrorWithCause(path, node, err.Error(), util.ErrConfigInvalid)
	}
	value := toDocument(raw)

	tpl, relative, err := compileRelative(value)
	if err != nil {
		return nil, nodeErrorWithCause(path, node, err.Error(), util.ErrConfigInvalid)
	}
	if !relative {
		return schema.Default(value), nil
	}

	now := l.now
	return schema.DefaultFunc(func() interface{} {
		return tpl.expand(now())
	}), nil
}

// toDocument converts decoded YAML mappings and sequences to bson documents
// and arrays.
func toDocument(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(bson.M, len(val))
		for k, item := range val {
			out[k] = toDocument(item)
		}
		return out
	case []interface{}:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = toDocument(item)
		}
		return out
	default:
		return v
	}
}

func nodeError(path string, node *yaml.Node, message string) error {
	return util.NewConfigError(path, fmt.Sprintf("%s (line %d)", message, node.Line))
}

func nodeErrorWithCause(path string, node *yaml.Node, message string, cause error) error {
	return util.NewConfigErrorWithCause(path,
		fmt.Sprintf("%s (line %d)", message, node.Line), cause)
}
