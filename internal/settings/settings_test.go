package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riluq/flutter/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestGetReturnsDefaults(t *testing.T) {
	s := newTestStore(t)

	value, err := s.Get(KeyAnalyticsEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	enabled, err := s.GetBool(KeyCrashReporting)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSetOverridesDefault(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SetBool(KeyAnalyticsEnabled, false))

	enabled, err := s.GetBool(KeyAnalyticsEnabled)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestListMergesDefaultsAndStored(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(KeyCrashReporting, "false"))

	all, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, "true", all[KeyAnalyticsEnabled])
	assert.Equal(t, "false", all[KeyCrashReporting])
}

func TestNilDatabaseFallsBackToDefaults(t *testing.T) {
	s := NewStore(nil)

	value, err := s.Get(KeyAnalyticsEnabled)
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, len(defaults))
}

func TestValidKeys(t *testing.T) {
	assert.True(t, IsValidKey(KeyAnalyticsEnabled))
	assert.False(t, IsValidKey("no.such.key"))
	assert.ElementsMatch(t, []string{KeyAnalyticsEnabled, KeyCrashReporting}, ValidKeys())
}

func clearSuppressionEnv(t *testing.T) {
	t.Helper()
	for _, name := range suppressionVars {
		t.Setenv(name, "")
	}
	t.Setenv("SUPPRESS_ANALYTICS", "")
	t.Setenv("HOME", t.TempDir()) // keep any real ~/.flutter/config.yaml out
}

func TestBotEnvironment(t *testing.T) {
	t.Run("clean environment", func(t *testing.T) {
		clearSuppressionEnv(t)
		assert.False(t, BotEnvironment())
	})

	t.Run("CI set", func(t *testing.T) {
		clearSuppressionEnv(t)
		t.Setenv("CI", "true")
		assert.True(t, BotEnvironment())
	})

	t.Run("explicit suppression", func(t *testing.T) {
		clearSuppressionEnv(t)
		t.Setenv("FLUTTER_SUPPRESS_ANALYTICS", "1")
		assert.True(t, BotEnvironment())
	})

	t.Run("false values do not suppress", func(t *testing.T) {
		clearSuppressionEnv(t)
		t.Setenv("CI", "false")
		t.Setenv("BOT", "0")
		assert.False(t, BotEnvironment())
	})
}
