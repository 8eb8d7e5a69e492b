package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"granolad/internal/digest"
)

type patternsFile struct {
	MaxParticipants  int      `yaml:"max_participants"`
	TeamPatterns     []string `yaml:"team_patterns"`
	ClientPatterns   []string `yaml:"client_patterns"`
	PersonalPatterns []string `yaml:"personal_patterns"`
}

// LoadPatterns reads classifier patterns from a YAML file. An empty path
// yields the built-in defaults. Omitted sections inherit the corresponding
// default so a file can override just one list.
func LoadPatterns(path string) (digest.Patterns, error) {
	patterns := digest.DefaultPatterns()
	if path == "" {
		return patterns, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return digest.Patterns{}, fmt.Errorf("read classifier rules %s: %w", path, err)
	}
	var f patternsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return digest.Patterns{}, fmt.Errorf("parse classifier rules %s: %w", path, err)
	}

	if f.MaxParticipants > 0 {
		patterns.MaxParticipants = f.MaxParticipants
	}
	if len(f.TeamPatterns) > 0 {
		patterns.Team = f.TeamPatterns
	}
	if len(f.ClientPatterns) > 0 {
		patterns.Client = f.ClientPatterns
	}
	if len(f.PersonalPatterns) > 0 {
		patterns.Personal = f.PersonalPatterns
	}
	return patterns, nil
}
