package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadInput decodes a YAML or JSON input file into out. JSON is valid YAML.
func loadInput(path string, out any) error {
	if path == "" {
		return fmt.Errorf("input file required (-f)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse input %s: %w", path, err)
	}
	return nil
}
