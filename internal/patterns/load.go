package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML pattern table. Tables absent from the document keep their defaults.
func Parse(data []byte) (*Table, error) {
	var override Table
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse pattern YAML: %w", err)
	}

	table := Default()
	if override.Sections != nil {
		table.Sections = override.Sections
	}
	if override.Bullets != nil {
		table.Bullets = override.Bullets
	}
	if override.NonActionable != nil {
		table.NonActionable = override.NonActionable
	}
	return table, nil
}

// Load reads and compiles a YAML pattern file. An empty path yields the built-in table.
func Load(path string) (*Compiled, error) {
	if path == "" {
		return DefaultCompiled(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file %s: %w", path, err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, err
	}

	compiled, err := table.Compile()
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return compiled, nil
}
