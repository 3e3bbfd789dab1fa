package rules

import (
	"quaver/internal/domain/track"
)

// NeverPlayedRule matches tracks that have never been played to the
// end. It takes no settings.
type NeverPlayedRule struct{}

// NewNeverPlayedRule creates a new never played rule.
func NewNeverPlayedRule() *NeverPlayedRule {
	return &NeverPlayedRule{}
}

func (r *NeverPlayedRule) Name() string {
	return "never_played"
}

func (r *NeverPlayedRule) Description() string {
	return "Matches tracks that have never been played"
}

func (r *NeverPlayedRule) ValidateConfig(settings map[string]any) error {
	return nil
}

func (r *NeverPlayedRule) Matches(t track.Track) bool {
	return t.PlayCount == 0
}

func init() {
	Register("never_played", func() Rule {
		return &NeverPlayedRule{}
	})
}
