package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Group is one entry in the YAML group registry: a named, correlated data
// set a feed worker can be launched for.
type Group struct {
	// Enabled gates whether the group is offered for launch.
	Enabled bool `yaml:"enabled"`
	// Description is an optional operator-facing note.
	Description string `yaml:"description,omitempty"`
	// Symbols are the member symbols the worker ingests.
	Symbols []string `yaml:"symbols"`
}

// GroupRegistry is the parsed group registry file.
type GroupRegistry struct {
	Feeds map[string]Group `yaml:"feeds"`
}

// LoadGroups parses the group registry YAML at path.
func LoadGroups(path string) (*GroupRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading group registry: %w", err)
	}
	var reg GroupRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing group registry %s: %w", path, err)
	}
	if reg.Feeds == nil {
		reg.Feeds = map[string]Group{}
	}
	return &reg, nil
}

// Names returns all group names, sorted.
func (r *GroupRegistry) Names() []string {
	names := make([]string, 0, len(r.Feeds))
	for name := range r.Feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnabledNames returns the names of enabled groups, sorted.
func (r *GroupRegistry) EnabledNames() []string {
	var names []string
	for name, g := range r.Feeds {
		if g.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Has reports whether the registry defines the named group.
func (r *GroupRegistry) Has(name string) bool {
	_, ok := r.Feeds[name]
	return ok
}
