// Package rules provides the rule chain for smart playlists. A chain
// selects library tracks matching every enabled rule.
package rules

import (
	"quaver/internal/domain/track"
)

// Rule is the interface for smart playlist rules.
type Rule interface {
	// Name returns the rule name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ValidateConfig validates and applies the rule configuration.
	ValidateConfig(settings map[string]any) error
	// Matches reports whether the track satisfies the rule.
	Matches(t track.Track) bool
}

// registry holds registered rule factories.
var registry = make(map[string]func() Rule)

// Register registers a rule factory.
func Register(name string, factory func() Rule) {
	registry[name] = factory
}

// GetRegistered returns all registered rule factories.
func GetRegistered() map[string]func() Rule {
	return registry
}
