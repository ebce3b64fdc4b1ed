package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["seed"])
	assert.True(t, names["create-admin"])
}

func TestCreateAdmin_RejectsNonAdminRole(t *testing.T) {
	cmd := newCreateAdminCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--phone", "09120000000", "--password", "secret1", "--role", "user"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin or superadmin")
}

func TestCreateAdmin_RequiresCredentials(t *testing.T) {
	cmd := newCreateAdminCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--phone", "09120000000"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestSeedTreeDepth(t *testing.T) {
	var depth func(nodes []seedCategory) int
	depth = func(nodes []seedCategory) int {
		max := 0
		for _, n := range nodes {
			if d := 1 + depth(n.children); d > max {
				max = d
			}
		}
		return max
	}
	assert.LessOrEqual(t, depth(seedCategories), 3)
}
