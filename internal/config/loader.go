package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vyrodovalexey/qproc/internal/schema"
	"github.com/vyrodovalexey/qproc/internal/util"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

const escapedDollar = "\x00ESCAPED_DOLLAR\x00"

// Loader reads schema files.
type Loader struct {
	now func() time.Time
}

// LoaderOption is a functional option for configuring the loader.
type LoaderOption func(*Loader)

// WithClock sets the time source for relative defaults.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader creates a new schema loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadSchema loads a schema file with the default loader.
func LoadSchema(path string) (*schema.Schema, error) {
	return NewLoader().Load(path)
}

// LoadSchemaFromReader loads a schema from an io.Reader with the default
// loader.
func LoadSchemaFromReader(r io.Reader) (*schema.Schema, error) {
	return NewLoader().LoadFromReader(r)
}

// Load loads a schema from a file path.
func (l *Loader) Load(path string) (*schema.Schema, error) {
	if path == "" {
		return nil, fmt.Errorf("schema file path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat schema file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("schema path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is validated via filepath.Abs
	if err != nil {
		return nil, util.WrapError(err, "failed to read schema file "+path)
	}

	return l.Parse(data)
}

// LoadFromReader loads a schema from an io.Reader.
func (l *Loader) LoadFromReader(r io.Reader) (*schema.Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	return l.Parse(data)
}

// Parse compiles YAML schema data.
func (l *Loader) Parse(data []byte) (*schema.Schema, error) {
	content := substituteEnvVars(string(data))

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, util.WrapError(err, "failed to parse YAML")
	}

	b, err := l.decodeDocument(&doc)
	if err != nil {
		return nil, err
	}

	return b.Build()
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values.
func substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", escapedDollar)

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, escapedDollar, "$")
}
