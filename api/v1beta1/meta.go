// Package v1beta1 contains the v1beta1 API types for prompter configuration.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all prompter configuration kinds.
const APIVersion = "prompter.macropower.dev/v1beta1"

// ValidAPIVersions contains all valid API versions.
var ValidAPIVersions = []string{APIVersion}

var (
	// ErrUnsupportedAPIVersion is returned when a document declares an unknown apiVersion.
	ErrUnsupportedAPIVersion = errors.New("unsupported apiVersion")

	// ErrUnsupportedKind is returned when a document declares an unknown kind.
	ErrUnsupportedKind = errors.New("unsupported kind")
)

// TypeMeta contains the API version and kind metadata common to all config types.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// GetAPIVersion returns the API version.
func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

// GetKind returns the kind.
func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Check returns an error if the API version or kind is not one of the
// given values.
func (tm TypeMeta) Check(apiVersions, kinds []string) error {
	if !slices.Contains(apiVersions, tm.APIVersion) {
		return fmt.Errorf("%w %q, expected one of %q", ErrUnsupportedAPIVersion, tm.APIVersion, apiVersions)
	}
	if !slices.Contains(kinds, tm.Kind) {
		return fmt.Errorf("%w %q, expected one of %q", ErrUnsupportedKind, tm.Kind, kinds)
	}

	return nil
}

// Object is the interface that all config types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// JSON schema to the given values.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	setEnum(jss, "apiVersion", apiVersions)
	setEnum(jss, "kind", kinds)
}

func setEnum(jss *jsonschema.Schema, property string, values []string) {
	prop, ok := jss.Properties.Get(property)
	if !ok {
		panic(property + " property not found in schema")
	}

	for _, v := range values {
		prop.Enum = append(prop.Enum, v)
	}

	if len(values) == 1 {
		prop.Default = values[0]
	}

	_, _ = jss.Properties.Set(property, prop)
}
