package mcpserver

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config tunes the MCP tools. It is loaded from an optional YAML file; an
// empty path gives DefaultConfig.
type Config struct {
	Instructions string                  `yaml:"instructions"`
	Defaults     map[string]Annotations  `yaml:"defaults"`
	Overrides    map[string]ToolOverride `yaml:"overrides"`
	Disabled     []string                `yaml:"disabled"`
}

// Annotations are the MCP hints attached to a tool. Defaults are keyed by
// the HTTP method of the REST route the tool mirrors.
type Annotations struct {
	ReadOnly    *bool `yaml:"readonly"`
	Destructive *bool `yaml:"destructive"`
	Idempotent  *bool `yaml:"idempotent"`
}

// ToolOverride allows per-tool customization.
type ToolOverride struct {
	Description string `yaml:"description"`
	Annotations `yaml:",inline"`
}

const defaultInstructions = "CDC admin console: inspect and manage database connections, ETL pipelines and their runs."

func boolPtr(b bool) *bool { return &b }

// DefaultConfig marks GET tools read-only and DELETE tools destructive.
func DefaultConfig() *Config {
	return &Config{
		Instructions: defaultInstructions,
		Defaults: map[string]Annotations{
			"GET":    {ReadOnly: boolPtr(true), Destructive: boolPtr(false), Idempotent: boolPtr(true)},
			"POST":   {ReadOnly: boolPtr(false), Destructive: boolPtr(false), Idempotent: boolPtr(false)},
			"PUT":    {ReadOnly: boolPtr(false), Destructive: boolPtr(false), Idempotent: boolPtr(true)},
			"DELETE": {ReadOnly: boolPtr(false), Destructive: boolPtr(true), Idempotent: boolPtr(true)},
		},
	}
}

// LoadConfig reads the YAML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse mcp config: %w", err)
	}

	if file.Instructions != "" {
		cfg.Instructions = file.Instructions
	}
	for method, a := range file.Defaults {
		cfg.Defaults[method] = a
	}
	cfg.Overrides = file.Overrides
	cfg.Disabled = file.Disabled

	return cfg, nil
}

func (c *Config) disabled(name string) bool {
	return slices.Contains(c.Disabled, name)
}
