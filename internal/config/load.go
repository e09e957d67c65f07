// internal/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML (.yaml/.yml) or TOML (.toml) file.
// Unknown keys are rejected. No defaults are applied here; see Normalize.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}

	case ".toml":
		meta, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: parse %s: unknown key %q", path, undecoded[0].String())
		}

	default:
		return nil, fmt.Errorf("config: unsupported file type %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}

	return &cfg, nil
}
