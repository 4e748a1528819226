package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects the initial service mode of the index manager.
type Mode string

const (
	ModeBuild  Mode = "build"
	ModeSearch Mode = "search"
)

// Config holds the full vectoriadb.yml configuration tree.
type Config struct {
	VectoriaDB VectoriaDB `yaml:"vectoriadb"`
}

// VectoriaDB is the single top-level configuration section.
type VectoriaDB struct {
	Index  Index  `yaml:"index"`
	Server Server `yaml:"server"`
}

// Index holds index sizing and build parameters.
type Index struct {
	Dimensions              int     `yaml:"dimensions"`
	MaxConnectionsPerVertex int     `yaml:"max-connections-per-vertex"`
	MaxCandidatesReturned   int     `yaml:"max-candidates-returned"`
	CompressionRatio        int     `yaml:"compression-ratio"`
	DistanceMultiplier      float64 `yaml:"distance-multiplier"`
	Building                struct {
		MaxMemoryConsumption string `yaml:"max-memory-consumption"`
	} `yaml:"building"`
	Search struct {
		DiskCacheMemoryConsumption string `yaml:"disk-cache-memory-consumption"`
	} `yaml:"search"`
}

// Server holds server-level settings.
type Server struct {
	BasePath    string `yaml:"base-path"`
	DefaultMode Mode   `yaml:"default-mode"`
}

// Default returns a configuration with every optional key at its default.
// Dimensions has no default and must be provided.
func Default() *Config {
	cfg := &Config{}
	cfg.VectoriaDB.Server.BasePath = "."
	cfg.VectoriaDB.Server.DefaultMode = ModeBuild
	cfg.VectoriaDB.Index.MaxConnectionsPerVertex = 128
	cfg.VectoriaDB.Index.MaxCandidatesReturned = 128
	cfg.VectoriaDB.Index.CompressionRatio = 32
	cfg.VectoriaDB.Index.DistanceMultiplier = 1.0
	return cfg
}

// Load reads and validates a vectoriadb.yml file. Missing optional keys keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for required keys and well-formed values.
func (c *Config) Validate() error {
	if c.VectoriaDB.Index.Dimensions <= 0 {
		return fmt.Errorf("vectoriadb.index.dimensions is required and must be positive")
	}
	if c.VectoriaDB.Server.DefaultMode != ModeBuild && c.VectoriaDB.Server.DefaultMode != ModeSearch {
		return fmt.Errorf("vectoriadb.server.default-mode must be %q or %q", ModeBuild, ModeSearch)
	}
	if v := c.VectoriaDB.Index.Building.MaxMemoryConsumption; v != "" {
		if _, err := ParseMemorySize(v); err != nil {
			return fmt.Errorf("vectoriadb.index.building.max-memory-consumption: %w", err)
		}
	}
	if v := c.VectoriaDB.Index.Search.DiskCacheMemoryConsumption; v != "" {
		if _, err := ParseMemorySize(v); err != nil {
			return fmt.Errorf("vectoriadb.index.search.disk-cache-memory-consumption: %w", err)
		}
	}
	return nil
}

// IndexesDir returns the root directory that holds one subdirectory per index.
func (c *Config) IndexesDir() string {
	return filepath.Join(c.VectoriaDB.Server.BasePath, "indexes")
}

// LogsDir returns the server log directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.VectoriaDB.Server.BasePath, "logs")
}

// ConfigDir returns the directory holding vectoriadb.yml.
func (c *Config) ConfigDir() string {
	return filepath.Join(c.VectoriaDB.Server.BasePath, "config")
}

// BuildingMaxMemory returns the configured build memory pool, or 0 when the
// key is absent and the caller should fall back to the probe-derived default.
func (c *Config) BuildingMaxMemory() int64 {
	return memoryOrZero(c.VectoriaDB.Index.Building.MaxMemoryConsumption)
}

// DiskCacheMemory returns the configured disk cache pool, or 0 when the key
// is absent and the caller should fall back to the probe-derived default.
func (c *Config) DiskCacheMemory() int64 {
	return memoryOrZero(c.VectoriaDB.Index.Search.DiskCacheMemoryConsumption)
}

func memoryOrZero(v string) int64 {
	if v == "" {
		return 0
	}
	n, err := ParseMemorySize(v)
	if err != nil {
		// Validate rejects malformed values before any caller gets here.
		return 0
	}
	return n
}

// ParseMemorySize parses a memory size with an optional b/k/kb/m/mb/g/gb
// suffix (case-insensitive). A bare number is bytes.
func ParseMemorySize(s string) (int64, error) {
	v := strings.TrimSpace(strings.ToLower(s))
	if v == "" {
		return 0, fmt.Errorf("empty memory size")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(v, "kb"):
		multiplier, v = 1024, strings.TrimSuffix(v, "kb")
	case strings.HasSuffix(v, "mb"):
		multiplier, v = 1024*1024, strings.TrimSuffix(v, "mb")
	case strings.HasSuffix(v, "gb"):
		multiplier, v = 1024*1024*1024, strings.TrimSuffix(v, "gb")
	case strings.HasSuffix(v, "k"):
		multiplier, v = 1024, strings.TrimSuffix(v, "k")
	case strings.HasSuffix(v, "m"):
		multiplier, v = 1024*1024, strings.TrimSuffix(v, "m")
	case strings.HasSuffix(v, "g"):
		multiplier, v = 1024*1024*1024, strings.TrimSuffix(v, "g")
	case strings.HasSuffix(v, "b"):
		v = strings.TrimSuffix(v, "b")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative memory size %q", s)
	}
	return n * multiplier, nil
}
