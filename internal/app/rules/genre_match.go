package rules

import (
	"strings"

	"quaver/internal/domain/track"
)

// GenreMatchConfig represents the configuration for GenreMatchRule.
type GenreMatchConfig struct {
	Genres []string `yaml:"genres" mapstructure:"genres" validate:"required,min=1"`
}

// GenreMatchRule matches tracks whose genre is one of the configured
// genres.
type GenreMatchRule struct {
	config *GenreMatchConfig
}

// NewGenreMatchRule creates a new genre match rule.
func NewGenreMatchRule() *GenreMatchRule {
	return &GenreMatchRule{}
}

func (r *GenreMatchRule) Name() string {
	return "genre_match"
}

func (r *GenreMatchRule) Description() string {
	return "Matches tracks in one of the configured genres"
}

func (r *GenreMatchRule) ValidateConfig(settings map[string]any) error {
	var config GenreMatchConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	r.config = &config
	return nil
}

func (r *GenreMatchRule) Matches(t track.Track) bool {
	if r.config == nil {
		return true
	}
	for _, g := range r.config.Genres {
		if strings.EqualFold(g, t.Genre) {
			return true
		}
	}
	return false
}

func init() {
	Register("genre_match", func() Rule {
		return &GenreMatchRule{}
	})
}
