// Package configs provides the Configuration type that holds prompter's
// profiles.
package configs

import (
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/prompter/api"
	"github.com/macropower/prompter/api/v1beta1"
	"github.com/macropower/prompter/pkg/profile"
	"github.com/macropower/prompter/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o configs.v1beta1.json

// Kind is the kind of a prompter configuration document.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed configs.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// ProfilesPath is the YAML path of the profiles mapping.
	ProfilesPath = yaml.NewPathBuilder().Root().Child("profiles").Build()

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the prompter configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// PostPrompt replaces the default text written after the rendered files.
	PostPrompt *string `json:"postPrompt,omitempty" jsonschema:"title=Post Prompt"`
	// Profiles maps profile names to their dependencies.
	Profiles map[string]ProfileSpec `json:"profiles,omitempty" jsonschema:"title=Profiles"`
	// Library is the directory that file dependencies are relative to. A
	// leading "~" is expanded to the user's home directory.
	Library string `json:"library,omitempty" jsonschema:"title=Library"`
	// ProfileOrder holds the profile names in declaration order. It is
	// populated by the loader and is not part of the document.
	ProfileOrder     []string `json:"-"`
	v1beta1.TypeMeta `json:",inline"`
}

// ProfileSpec is the definition of a single profile.
type ProfileSpec struct {
	// DependsOn lists library files (ending in ".md") and other profile
	// names, in the order they are rendered.
	DependsOn []string `json:"dependsOn" jsonschema:"title=Depends On"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Profiles == nil {
		c.Profiles = map[string]ProfileSpec{}
	}
}

// AddProfile appends a profile to the configuration.
func (c *Config) AddProfile(name string, dependsOn ...string) {
	c.EnsureDefaults()

	if _, ok := c.Profiles[name]; !ok {
		c.ProfileOrder = append(c.ProfileOrder, name)
	}

	c.Profiles[name] = ProfileSpec{DependsOn: dependsOn}
}

// ProfileNames returns all profile names in declaration order. Names that
// are missing from ProfileOrder follow in lexical order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	seen := make(map[string]bool, len(c.Profiles))

	for _, name := range c.ProfileOrder {
		if _, ok := c.Profiles[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range c.Profiles {
		if !seen[name] {
			rest = append(rest, name)
		}
	}

	slices.Sort(rest)

	return append(names, rest...)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	err := c.Check(v1beta1.ValidAPIVersions, ValidKinds)
	if err != nil {
		return fmt.Errorf("validate type meta: %w", err)
	}

	_, err = c.ToProfileConfig()
	if err != nil {
		return err
	}

	return nil
}

// ToProfileConfig converts the configuration to a [profile.Config].
func (c *Config) ToProfileConfig() (*profile.Config, error) {
	names := c.ProfileNames()
	profiles := make([]profile.Profile, 0, len(names))

	for _, name := range names {
		profiles = append(profiles, profile.New(name, c.Profiles[name].DependsOn...))
	}

	var opts []profile.ConfigOpt
	if c.PostPrompt != nil {
		opts = append(opts, profile.WithPostPrompt(*c.PostPrompt))
	}

	pc, err := profile.NewConfig(profiles, opts...)
	if err != nil {
		return nil, fmt.Errorf("build profiles: %w", err)
	}

	return pc, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML, keeping profiles in declaration
// order.
func (c Config) MarshalYAML() ([]byte, error) {
	doc := yaml.MapSlice{
		{Key: "apiVersion", Value: c.APIVersion},
		{Key: "kind", Value: c.Kind},
	}

	if c.PostPrompt != nil {
		doc = append(doc, yaml.MapItem{Key: "postPrompt", Value: *c.PostPrompt})
	}
	if c.Library != "" {
		doc = append(doc, yaml.MapItem{Key: "library", Value: c.Library})
	}

	profiles := yaml.MapSlice{}
	for _, name := range c.ProfileNames() {
		deps := c.Profiles[name].DependsOn
		if deps == nil {
			deps = []string{}
		}

		profiles = append(profiles, yaml.MapItem{
			Key:   name,
			Value: yaml.MapSlice{{Key: "dependsOn", Value: deps}},
		})
	}

	doc = append(doc, yaml.MapItem{Key: "profiles", Value: profiles})

	b, err := api.MarshalYAML(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
// It reports whether the file was written.
func WriteDefault(path string, force bool) (bool, error) {
	written, err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}

	return written, nil
}

// WriteSchema writes the embedded JSON schema to the specified path.
// Using `force` will back up and replace an existing file.
// It reports whether the file was written.
func WriteSchema(path string, force bool) (bool, error) {
	written, err := api.WriteDefaultFile(path, schemaJSON, force, "schema")
	if err != nil {
		return false, fmt.Errorf("write schema: %w", err)
	}

	return written, nil
}

// SchemaFileName is the name of the JSON schema file written next to the
// configuration.
const SchemaFileName = "configs.v1beta1.json"

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return slices.Clone(defaultConfigYAML)
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
