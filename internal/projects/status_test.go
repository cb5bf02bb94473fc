package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("accepts any casing", func(t *testing.T) {
		for _, candidate := range []string{"vision_review", "VISION_REVIEW", "Vision_Review", "  vision_review  "} {
			status, err := ParseStatus(candidate)
			require.NoError(t, err, candidate)
			assert.Equal(t, StatusVisionReview, status)
		}
	})

	t.Run("rejects names outside the closed set", func(t *testing.T) {
		for _, candidate := range []string{"", "SHIPPED", "BRAINSTORM", "vision review"} {
			_, err := ParseStatus(candidate)

			var invalid *InvalidStatusError
			require.ErrorAs(t, err, &invalid, candidate)
			assert.Equal(t, candidate, invalid.Candidate)
		}
	})

	t.Run("covers every phase", func(t *testing.T) {
		for _, s := range AllStatuses() {
			parsed, err := ParseStatus(string(s))
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})
}
