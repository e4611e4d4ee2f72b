package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("TARIFFPILOT_TEST_DIR", "/srv/tariffpilot")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty path", input: "", expected: ""},
		{name: "tilde prefix", input: "~/data/feedback.db", expected: filepath.Join(home, "data/feedback.db")},
		{name: "bare tilde", input: "~", expected: home},
		{name: "env var", input: "$TARIFFPILOT_TEST_DIR/feedback.db", expected: "/srv/tariffpilot/feedback.db"},
		{name: "absolute path unchanged", input: "/var/lib/tariffpilot/feedback.db", expected: "/var/lib/tariffpilot/feedback.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "feedback.db")

	require.NoError(t, EnsureParentDir(dbPath))

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
