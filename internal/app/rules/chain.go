package rules

import (
	"github.com/cockroachdb/errors"

	"quaver/internal/domain/track"
)

// Chain applies rules in sequence. A track is selected only when every
// rule matches it.
type Chain struct {
	rules []Rule
}

// NewChain creates an empty rule chain.
func NewChain() *Chain {
	return &Chain{
		rules: make([]Rule, 0),
	}
}

// Add adds a rule to the chain.
func (c *Chain) Add(r Rule) {
	c.rules = append(c.rules, r)
}

// Matches reports whether the track satisfies every rule.
func (c *Chain) Matches(t track.Track) bool {
	for _, r := range c.rules {
		if !r.Matches(t) {
			return false
		}
	}
	return true
}

// Select returns the tracks matching every rule, preserving order.
func (c *Chain) Select(tracks []track.Track) []track.Track {
	selected := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if c.Matches(t) {
			selected = append(selected, t)
		}
	}
	return selected
}

// Rules returns all rules in the chain.
func (c *Chain) Rules() []Rule {
	return c.rules
}

// Spec names a rule and its settings as they appear in config.
type Spec struct {
	Name     string
	Settings map[string]any
}

// Build constructs a chain from rule specs, validating each rule's
// settings against its registered factory.
func Build(specs []Spec) (*Chain, error) {
	chain := NewChain()
	for _, spec := range specs {
		factory, exists := registry[spec.Name]
		if !exists {
			return nil, errors.Newf("unknown rule: %s", spec.Name)
		}
		r := factory()
		if err := r.ValidateConfig(spec.Settings); err != nil {
			return nil, errors.Wrapf(err, "rule %s", spec.Name)
		}
		chain.Add(r)
	}
	return chain, nil
}
