package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// MappingKeys returns the keys of the mapping at path in source, in document
// order. It returns nil if the path does not exist or is null.
func MappingKeys(source []byte, path *yaml.Path) ([]string, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		// A missing key is not an error, there is just nothing to order.
		return nil, nil //nolint:nilerr // See above.
	}

	switch node.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
	case *ast.NullNode:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: expected a mapping, got %s", path, node.Type())
	}

	values := mappingValues(node)
	keys := make([]string, 0, len(values))

	for _, kv := range values {
		keys = append(keys, keyString(kv.Key))
	}

	return keys, nil
}

func mappingValues(node ast.Node) []*ast.MappingValueNode {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}
	}

	return nil
}

func keyString(key ast.MapKeyNode) string {
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value
	}

	return key.String()
}
