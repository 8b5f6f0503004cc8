package epiload

import (
	"fmt"

	"github.com/arloliu/fuda"
)

// LoadConfig loads Config from a YAML or JSON file.
// Environment variables override file values; struct defaults fill the rest.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := fuda.LoadFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", path, err)
	}

	return &cfg, nil
}

// ParseConfig parses Config from raw YAML or JSON bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := fuda.LoadBytes(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a Config populated from struct defaults and the environment.
func DefaultConfig() (*Config, error) {
	return ParseConfig([]byte("{}"))
}
