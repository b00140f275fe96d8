package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/macropower/prompter/api"
	"github.com/macropower/prompter/api/v1beta1/configs"
	"github.com/macropower/prompter/pkg/yaml"
)

const (
	// TOMLFileName is the legacy configuration file name, used when the
	// YAML configuration does not exist.
	TOMLFileName = "config.toml"

	// LibraryDirName is the library directory name, relative to the
	// configuration directory or the user's data directory.
	LibraryDirName = "library"
)

var (
	// ErrInvalidConfig is returned when a configuration file cannot be
	// parsed or fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound is returned when the configuration file does not exist.
	ErrNotFound = errors.New("configuration not found")
)

// Paths holds the resolved locations of the configuration file and the
// library directory.
type Paths struct {
	// Config is the configuration file path.
	Config string
	// Library is the library root directory.
	Library string
}

// ResolveConfigPath returns the configuration file to use.
//
// An explicit path is used as given (with "~" expanded). Otherwise the
// default YAML path is used, unless it does not exist and a legacy
// config.toml exists next to it.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return api.ExpandHome(explicit)
	}

	path := configs.GetPath()
	if fileExists(path) {
		return path
	}

	tomlPath := filepath.Join(filepath.Dir(path), TOMLFileName)
	if fileExists(tomlPath) {
		slog.Debug("using legacy toml configuration", slog.String("path", tomlPath))

		return tomlPath
	}

	return path
}

// ResolveLibraryPath returns the library directory to use, in order of
// precedence: the explicit path, the configured library (relative paths are
// relative to the configuration file), the "library" directory next to an
// explicitly chosen configuration file, and finally ~/.local/prompter/library.
func ResolveLibraryPath(explicit, configured, configPath string, configExplicit bool) string {
	switch {
	case explicit != "":
		return api.ExpandHome(explicit)

	case configured != "":
		lib := api.ExpandHome(configured)
		if !filepath.IsAbs(lib) {
			lib = filepath.Join(filepath.Dir(configPath), lib)
		}

		return lib

	case configExplicit:
		return filepath.Join(filepath.Dir(configPath), LibraryDirName)
	}

	return api.GetDataPath(LibraryDirName)
}

// IsTOML reports whether path names a legacy TOML configuration.
func IsTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads and validates the configuration file at path. The format is
// chosen by file extension.
func Load(path string, opts ...LoaderOpt) (*configs.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is chosen by the user.
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if IsTOML(path) {
		cfg, err := LoadTOML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return cfg, nil
	}

	cfg, err := LoadYAML(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadYAML parses, schema-validates and checks a YAML configuration
// document. Profile declaration order is taken from the document.
func LoadYAML(data []byte, opts ...LoaderOpt) (*configs.Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidConfig)
	}

	cl := NewLoaderFromBytes(data, configs.New, configs.DefaultValidator, opts...)

	err := cl.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg, err := cl.Load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	order, err := yaml.MappingKeys(data, configs.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.ProfileOrder = order

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
