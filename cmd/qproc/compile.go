package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/vyrodovalexey/qproc/internal/config"
	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/processor"
	"github.com/vyrodovalexey/qproc/internal/util"
)

// runCompile loads the schema, compiles one raw query string and writes the
// indented result to out.
func runCompile(out io.Writer, configPath, rawQuery string, logger observability.Logger) error {
	s, err := config.LoadSchema(configPath)
	if err != nil {
		if util.IsConfigError(err) {
			return fmt.Errorf("invalid schema %s: %w", configPath, err)
		}
		return fmt.Errorf("failed to load schema: %w", err)
	}

	data, err := compileQuery(processor.New(s, processor.WithLogger(logger)), rawQuery)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}

// compileQuery parses a raw query string ("a=1&b=2", with or without a
// leading "?") and returns the compiled result as indented JSON.
func compileQuery(p *processor.Processor, rawQuery string) ([]byte, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid query string: %w", err)
	}

	data, err := json.Marshal(p.ExecValues(values))
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
