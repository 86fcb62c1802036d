package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfig is the shape of ~/.ulcrc.yaml, following the teacher's
// yaml.v3 configuration idiom (internal/ext/config.go's Config).
type UserConfig struct {
	// Prelude lists additional source files, each parsed the way the
	// built-in prelude's bindSource parses a combinator and bound into the
	// environment after the built-in prelude, in order.
	Prelude []string `yaml:"prelude,omitempty"`

	// Color selects whether the REPL colors its prompt and diagnostics:
	// "auto" (the default) follows isatty, "always" and "never" override it.
	Color string `yaml:"color,omitempty"`
}

// DefaultPath returns ~/.ulcrc.yaml, or "" if the home directory can't
// be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ulcrc.yaml")
}

// Load reads and parses the user config file at path. A missing file is
// not an error: it returns a zero-value UserConfig, matching the
// teacher's treatment of a missing funxy.yaml as "no deps configured"
// rather than a failure.
func Load(path string) (*UserConfig, error) {
	if path == "" {
		return &UserConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserConfig{}, nil
		}
		return nil, err
	}
	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ColorEnabled reports whether cfg.Color forces color on or off. The ok
// return is false for "auto" (or unset), leaving the decision to the
// caller's isatty check.
func (cfg *UserConfig) ColorEnabled() (enabled, ok bool) {
	switch cfg.Color {
	case "always":
		return true, true
	case "never":
		return false, true
	default:
		return false, false
	}
}
