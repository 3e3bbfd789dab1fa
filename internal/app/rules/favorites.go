package rules

import (
	"quaver/internal/domain/track"
)

// FavoritesConfig represents the configuration for FavoritesRule.
type FavoritesConfig struct {
	MinPlayCount int `yaml:"min_play_count" mapstructure:"min_play_count" default:"3" validate:"gte=1"`
	MaxSkipCount int `yaml:"max_skip_count" mapstructure:"max_skip_count" validate:"gte=0"`
}

// FavoritesRule matches tracks the listener demonstrably likes: played
// at least min_play_count times, and optionally skipped no more than
// max_skip_count times (0 means no skip limit).
type FavoritesRule struct {
	config *FavoritesConfig
}

// NewFavoritesRule creates a new favorites rule.
func NewFavoritesRule() *FavoritesRule {
	return &FavoritesRule{}
}

func (r *FavoritesRule) Name() string {
	return "favorites"
}

func (r *FavoritesRule) Description() string {
	return "Matches frequently played, rarely skipped tracks"
}

func (r *FavoritesRule) ValidateConfig(settings map[string]any) error {
	var config FavoritesConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	r.config = &config
	return nil
}

func (r *FavoritesRule) Matches(t track.Track) bool {
	if r.config == nil {
		return true
	}
	if t.PlayCount < r.config.MinPlayCount {
		return false
	}
	if r.config.MaxSkipCount > 0 && t.SkipCount > r.config.MaxSkipCount {
		return false
	}
	return true
}

func init() {
	Register("favorites", func() Rule {
		return &FavoritesRule{}
	})
}
