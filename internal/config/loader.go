// Package config provides parsing and validation of the run configuration:
// the scenario catalog and the console flush period.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Illyk/perfgun/internal/stats"
)

// RunConfig is the root configuration for one run.
//
// Example YAML:
//
//	name: checkout-load
//	flushPeriod: 5s
//	scenarios:
//	  - name: browse
//	    totalUsers: 50
//	  - name: checkout
//	    totalUsers: 10
type RunConfig struct {
	// Name of the run (for reporting).
	Name string `json:"name" yaml:"name"`

	// FlushPeriod is the interval between console summaries.
	// Accepts Go duration strings or a bare integer number of seconds.
	FlushPeriod string `json:"flushPeriod,omitempty" yaml:"flushPeriod,omitempty"`

	// Scenarios is the ordered scenario catalog.
	Scenarios []ScenarioConfig `json:"scenarios" yaml:"scenarios"`
}

// ScenarioConfig is one catalog entry.
type ScenarioConfig struct {
	// Name of the scenario. Required and unique within the catalog.
	Name string `json:"name" yaml:"name"`

	// TotalUsers is the planned population; omit for unbounded.
	TotalUsers *int `json:"totalUsers,omitempty" yaml:"totalUsers,omitempty"`
}

// LoadConfig loads a run configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses configuration data. The format is determined by the file
// extension in path; YAML is the default for empty or unknown extensions.
func ParseConfig(data []byte, path string) (*RunConfig, error) {
	var cfg RunConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	return &cfg, nil
}

// Catalog converts the configured scenarios into the catalog consumed by the
// writer, preserving order.
func (c *RunConfig) Catalog() []stats.Scenario {
	catalog := make([]stats.Scenario, 0, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		catalog = append(catalog, stats.Scenario{Name: sc.Name, TotalUsers: sc.TotalUsers})
	}
	return catalog
}

// ParseFlushPeriod returns the configured flush period, or zero when unset so
// the writer applies its default.
func (c *RunConfig) ParseFlushPeriod() (time.Duration, error) {
	if c.FlushPeriod == "" {
		return 0, nil
	}
	return ParseDurationString(c.FlushPeriod)
}

// ParseDurationString parses a duration string.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration: %q", s)
}
