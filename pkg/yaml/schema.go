package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema for a Go type using
// [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector    *jsonschema.Reflector
	v            any
	commentPaths map[string]string
}

// NewSchemaGenerator creates a new [SchemaGenerator] for the type of v.
// Each entry of commentPaths maps a Go package import path to the directory
// holding its source, which is read for field documentation.
func NewSchemaGenerator(v any, commentPaths map[string]string) *SchemaGenerator {
	return &SchemaGenerator{
		v:            v,
		commentPaths: commentPaths,
		reflector: &jsonschema.Reflector{
			Anonymous:                  true,
			AllowAdditionalProperties:  false,
			RequiredFromJSONSchemaTags: false,
		},
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	for pkg, dir := range g.commentPaths {
		err := g.reflector.AddGoComments(pkg, dir)
		if err != nil {
			return nil, fmt.Errorf("add go comments for %s: %w", pkg, err)
		}
	}

	jss := g.reflector.Reflect(g.v)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}
