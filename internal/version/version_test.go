package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOverrideWins(t *testing.T) {
	assert.Equal(t, "3.1.4", Resolve("3.1.4"))
}

func TestResolveWithoutOverride(t *testing.T) {
	assert.NotEmpty(t, Resolve(""))
}

func TestResolveBuildTimeVersion(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "2.0.0"
	assert.Equal(t, "2.0.0", Resolve(""))
	assert.Equal(t, "9.9.9", Resolve("9.9.9"), "override still wins")
}
