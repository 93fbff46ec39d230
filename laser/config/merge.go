package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// MergeSurfaceAssignments merges surface assignments from a JSON file with inline assignments
func (sa *SurfaceAssignments) MergeSurfaceAssignments() error {
	if sa.FromFile == "" {
		return nil
	}

	data, err := os.ReadFile(sa.FromFile)
	if err != nil {
		return fmt.Errorf("reading surface assignments file: %w", err)
	}

	var fileAssignments map[string]Assignment
	if err := json.Unmarshal(data, &fileAssignments); err != nil {
		return fmt.Errorf("parsing surface assignments file: %w", err)
	}

	if sa.Inline == nil {
		sa.Inline = make(map[string]Assignment)
	}

	// Inline entries take precedence
	for surface, assignment := range fileAssignments {
		if _, exists := sa.Inline[surface]; !exists {
			sa.Inline[surface] = assignment
		}
	}

	return nil
}

// Lookup returns the assignment for a surface, falling back to "default"
func (sa *SurfaceAssignments) Lookup(surface string) (Assignment, bool) {
	if a, ok := sa.Inline[surface]; ok {
		return a, true
	}
	a, ok := sa.Inline["default"]
	return a, ok
}

// LoadAndMerge loads all external files and merges their contents
func (c *SceneConfig) LoadAndMerge() error {
	if err := c.SurfaceAssignments.MergeSurfaceAssignments(); err != nil {
		return fmt.Errorf("merging surface assignments: %w", err)
	}
	return nil
}
