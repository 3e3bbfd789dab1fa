package rules

import (
	"time"

	"quaver/internal/domain/track"
)

// NotRecentlyPlayedConfig represents the configuration for
// NotRecentlyPlayedRule.
type NotRecentlyPlayedConfig struct {
	Days int `yaml:"days" mapstructure:"days" default:"30" validate:"gte=1"`
}

// NotRecentlyPlayedRule matches tracks not played within the last
// configured number of days. Tracks never played always match.
type NotRecentlyPlayedRule struct {
	config *NotRecentlyPlayedConfig
	now    func() time.Time
}

// NewNotRecentlyPlayedRule creates a new not recently played rule.
func NewNotRecentlyPlayedRule() *NotRecentlyPlayedRule {
	return &NotRecentlyPlayedRule{now: time.Now}
}

func (r *NotRecentlyPlayedRule) Name() string {
	return "not_recently_played"
}

func (r *NotRecentlyPlayedRule) Description() string {
	return "Matches tracks not played within the last N days"
}

func (r *NotRecentlyPlayedRule) ValidateConfig(settings map[string]any) error {
	var config NotRecentlyPlayedConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	r.config = &config
	return nil
}

func (r *NotRecentlyPlayedRule) Matches(t track.Track) bool {
	if r.config == nil || t.LastPlayed.IsZero() {
		return true
	}
	cutoff := r.now().AddDate(0, 0, -r.config.Days)
	return t.LastPlayed.Before(cutoff)
}

func init() {
	Register("not_recently_played", func() Rule {
		return &NotRecentlyPlayedRule{now: time.Now}
	})
}
