package profile

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateProfile is returned when two profiles share a name.
	ErrDuplicateProfile = errors.New("duplicate profile")

	// ErrEmptyProfileName is returned when a profile has no name.
	ErrEmptyProfileName = errors.New("empty profile name")
)

// Profile is a named, ordered list of dependency references.
type Profile struct {
	// Name uniquely identifies the profile within a [Config]. Names are
	// case-sensitive.
	Name string
	// DependsOn contains raw dependency references in declaration order.
	// See [Classify] for how each entry is interpreted.
	DependsOn []string
}

// New creates a new [Profile].
func New(name string, dependsOn ...string) Profile {
	return Profile{
		Name:      name,
		DependsOn: dependsOn,
	}
}

// Dependencies returns the classified dependencies of the profile, in
// declaration order.
func (p Profile) Dependencies() []Dependency {
	deps := make([]Dependency, 0, len(p.DependsOn))
	for _, raw := range p.DependsOn {
		deps = append(deps, Classify(raw))
	}

	return deps
}

// Config is an immutable table of profiles.
//
// A Config is safe for concurrent use once created; nothing mutates it after
// [NewConfig] returns.
type Config struct {
	profiles      map[string]Profile
	postPrompt    string
	names         []string
	hasPostPrompt bool
}

// ConfigOpt is a functional option for configuring a [Config].
type ConfigOpt func(*Config)

// WithPostPrompt sets the global post-prompt text, used when no more specific
// override is supplied at render time.
func WithPostPrompt(text string) ConfigOpt {
	return func(c *Config) {
		c.postPrompt = text
		c.hasPostPrompt = true
	}
}

// NewConfig creates a new [Config] from the given profiles. The order of
// profiles is kept as the declaration order, which is used for reproducible
// diagnostics.
func NewConfig(profiles []Profile, opts ...ConfigOpt) (*Config, error) {
	c := &Config{
		profiles: make(map[string]Profile, len(profiles)),
		names:    make([]string, 0, len(profiles)),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile at index %d: %w", i, ErrEmptyProfileName)
		}
		if _, ok := c.profiles[p.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
		}

		c.profiles[p.Name] = Profile{
			Name:      p.Name,
			DependsOn: slices.Clone(p.DependsOn),
		}
		c.names = append(c.names, p.Name)
	}

	return c, nil
}

// MustNewConfig creates a new [Config] and panics if there's an error.
func MustNewConfig(profiles []Profile, opts ...ConfigOpt) *Config {
	c, err := NewConfig(profiles, opts...)
	if err != nil {
		panic(err)
	}

	return c
}

// Get returns the profile with the given name.
func (c *Config) Get(name string) (Profile, bool) {
	p, ok := c.profiles[name]

	return p, ok
}

// Has reports whether a profile with the given name exists.
func (c *Config) Has(name string) bool {
	_, ok := c.profiles[name]

	return ok
}

// Names returns all profile names in declaration order.
func (c *Config) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of profiles.
func (c *Config) Len() int {
	return len(c.names)
}

// PostPrompt returns the global post-prompt text, if one was configured.
func (c *Config) PostPrompt() (string, bool) {
	return c.postPrompt, c.hasPostPrompt
}
