package rules

import (
	"github.com/cockroachdb/errors"

	"quaver/internal/domain/track"
)

// YearRangeConfig represents the configuration for YearRangeRule.
type YearRangeConfig struct {
	MinYear int `yaml:"min_year" mapstructure:"min_year" validate:"gte=0"`
	MaxYear int `yaml:"max_year" mapstructure:"max_year" validate:"gte=0"`
}

// YearRangeRule matches tracks released within a year range. A zero
// bound is open-ended. Tracks without a year never match.
type YearRangeRule struct {
	config *YearRangeConfig
}

// NewYearRangeRule creates a new year range rule.
func NewYearRangeRule() *YearRangeRule {
	return &YearRangeRule{}
}

func (r *YearRangeRule) Name() string {
	return "year_range"
}

func (r *YearRangeRule) Description() string {
	return "Matches tracks released within a year range"
}

func (r *YearRangeRule) ValidateConfig(settings map[string]any) error {
	var config YearRangeConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	if config.MaxYear > 0 && config.MinYear > config.MaxYear {
		return errors.New("min_year cannot be greater than max_year")
	}
	r.config = &config
	return nil
}

func (r *YearRangeRule) Matches(t track.Track) bool {
	if r.config == nil {
		return true
	}
	if t.Year == 0 {
		return false
	}
	if r.config.MinYear > 0 && t.Year < r.config.MinYear {
		return false
	}
	if r.config.MaxYear > 0 && t.Year > r.config.MaxYear {
		return false
	}
	return true
}

func init() {
	Register("year_range", func() Rule {
		return &YearRangeRule{}
	})
}
