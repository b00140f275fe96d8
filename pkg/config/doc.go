// Package config locates, loads and validates prompter configuration files.
//
// Configuration is normally a versioned YAML document (see
// [github.com/macropower/prompter/api/v1beta1/configs]). Files ending in
// ".toml" are read in the legacy layout, where each table with a
// depends_on key is a profile.
package config
