package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/macropower/prompter/api/v1beta1/configs"
)

const (
	tomlDependsOn  = "depends_on"
	tomlPostPrompt = "post_prompt"
)

// LoadTOML parses a configuration in the legacy TOML layout:
//
//	post_prompt = "optional text"
//
//	[python.api]
//	depends_on = ["a/b/c.md", "f/g/h.md"]
//
// Every table with a depends_on key is a profile, named by its header with
// dotted parts joined by ".". Other tables are ignored. Profiles keep the
// order of their headers.
func LoadTOML(data []byte) (*configs.Config, error) {
	var doc map[string]any

	err := toml.Unmarshal(data, &doc)
	if err != nil {
		return nil, tomlError(err)
	}

	cfg := configs.New()

	if _, ok := doc[tomlDependsOn]; ok {
		return nil, fmt.Errorf("%w: %s outside of a profile section", ErrInvalidConfig, tomlDependsOn)
	}

	if v, ok := doc[tomlPostPrompt]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidConfig, tomlPostPrompt)
		}

		cfg.PostPrompt = &s
	}

	headers, err := tomlTableHeaders(data)
	if err != nil {
		return nil, tomlError(err)
	}

	for _, parts := range headers {
		table, ok := lookupTable(doc, parts)
		if !ok {
			continue
		}

		raw, ok := table[tomlDependsOn]
		if !ok {
			continue
		}

		name := strings.Join(parts, ".")

		deps, err := stringList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s array for [%s]: %w", ErrInvalidConfig, tomlDependsOn, name, err)
		}

		cfg.AddProfile(name, deps...)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// tomlTableHeaders returns the key parts of every standard table header, in
// document order.
func tomlTableHeaders(data []byte) ([][]string, error) {
	var (
		p       unstable.Parser
		headers [][]string
	)

	p.Reset(data)

	for p.NextExpression() {
		expr := p.Expression()
		if expr.Kind != unstable.Table {
			continue
		}

		var parts []string

		it := expr.Key()
		for it.Next() {
			parts = append(parts, string(it.Node().Data))
		}

		headers = append(headers, parts)
	}

	err := p.Error()
	if err != nil {
		return nil, err //nolint:wrapcheck // Wrapped by the caller.
	}

	return headers, nil
}

func lookupTable(doc map[string]any, parts []string) (map[string]any, bool) {
	current := doc

	for _, part := range parts {
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.New("expected an array")
	}

	out := make([]string, 0, len(items))

	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("item %d is not a string", i)
		}

		out = append(out, s)
	}

	return out, nil
}

func tomlError(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()

		return fmt.Errorf("%w: [%d:%d] %s\n%s", ErrInvalidConfig, row, col, decodeErr.Error(), decodeErr.String())
	}

	var parserErr *unstable.ParserError
	if errors.As(err, &parserErr) {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, parserErr.Message)
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
