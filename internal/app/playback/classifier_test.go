package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		duration time.Duration
		expected Outcome
	}{
		{
			name:     "immediate skip",
			elapsed:  0,
			duration: 180 * time.Second,
			expected: OutcomeSkipped,
		},
		{
			name:     "skip just below threshold",
			elapsed:  143 * time.Second,
			duration: 180 * time.Second,
			expected: OutcomeSkipped,
		},
		{
			name:     "play at threshold",
			elapsed:  144 * time.Second,
			duration: 180 * time.Second,
			expected: OutcomePlayed,
		},
		{
			name:     "play near end",
			elapsed:  170 * time.Second,
			duration: 180 * time.Second,
			expected: OutcomePlayed,
		},
		{
			name:     "unknown duration counts as played",
			elapsed:  5 * time.Second,
			duration: 0,
			expected: OutcomePlayed,
		},
		{
			name:     "unknown duration with zero elapsed counts as played",
			elapsed:  0,
			duration: 0,
			expected: OutcomePlayed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.elapsed, tt.duration))
		})
	}
}
