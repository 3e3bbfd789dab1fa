package rules

import (
	"strings"

	"quaver/internal/domain/track"
)

// ArtistMatchConfig represents the configuration for ArtistMatchRule.
type ArtistMatchConfig struct {
	Artists []string `yaml:"artists" mapstructure:"artists" validate:"required,min=1"`
}

// ArtistMatchRule matches tracks by one of the configured artists. The
// album artist counts as a match too, so compilations stay together.
type ArtistMatchRule struct {
	config *ArtistMatchConfig
}

// NewArtistMatchRule creates a new artist match rule.
func NewArtistMatchRule() *ArtistMatchRule {
	return &ArtistMatchRule{}
}

func (r *ArtistMatchRule) Name() string {
	return "artist_match"
}

func (r *ArtistMatchRule) Description() string {
	return "Matches tracks by one of the configured artists"
}

func (r *ArtistMatchRule) ValidateConfig(settings map[string]any) error {
	var config ArtistMatchConfig
	if err := decodeSettings(settings, &config); err != nil {
		return err
	}
	r.config = &config
	return nil
}

func (r *ArtistMatchRule) Matches(t track.Track) bool {
	if r.config == nil {
		return true
	}
	for _, a := range r.config.Artists {
		if strings.EqualFold(a, t.Artist) || strings.EqualFold(a, t.EffectiveAlbumArtist()) {
			return true
		}
	}
	return false
}

func init() {
	Register("artist_match", func() Rule {
		return &ArtistMatchRule{}
	})
}
