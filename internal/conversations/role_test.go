package conversations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("accepts any casing", func(t *testing.T) {
		cases := map[string]Role{
			"user":      RoleUser,
			"USER":      RoleUser,
			"Assistant": RoleAssistant,
			"system":    RoleSystem,
			" system ":  RoleSystem,
		}
		for candidate, want := range cases {
			role, err := ParseRole(candidate)
			require.NoError(t, err, candidate)
			assert.Equal(t, want, role)
		}
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		for _, candidate := range []string{"", "bot", "narrator", "users"} {
			_, err := ParseRole(candidate)

			var invalid *InvalidRoleError
			require.ErrorAs(t, err, &invalid, candidate)
		}
	})
}
