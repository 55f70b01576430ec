// Package settings exposes the tool's durable key/value configuration and
// the environment detection that decides whether telemetry may run.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/riluq/flutter/internal/db"
)

const (
	KeyAnalyticsEnabled = "analytics.enabled"
	KeyCrashReporting   = "crash.reporting"
)

var defaults = map[string]string{
	KeyAnalyticsEnabled: "true",
	KeyCrashReporting:   "true",
}

// Store reads and writes settings rows through the tool's database,
// falling back to baked-in defaults for unset keys.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) Get(key string) (string, error) {
	if s.db == nil {
		return defaults[key], nil
	}
	value, err := s.db.GetSetting(key)
	if err != nil {
		return "", err
	}
	if value == "" {
		if def, ok := defaults[key]; ok {
			return def, nil
		}
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	if s.db == nil {
		return errors.New("settings store unavailable")
	}
	return s.db.SetSetting(key, value)
}

func (s *Store) List() (map[string]string, error) {
	result := make(map[string]string)
	for k, v := range defaults {
		result[k] = v
	}
	if s.db == nil {
		return result, nil
	}
	stored, err := s.db.ListSettings()
	if err != nil {
		return nil, err
	}
	for k, v := range stored {
		result[k] = v
	}
	return result, nil
}

func (s *Store) GetBool(key string) (bool, error) {
	value, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (s *Store) SetBool(key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return s.Set(key, v)
}

func ValidKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsValidKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// suppressionVars are environment variables whose presence marks an
// automated run whose telemetry should be dropped.
var suppressionVars = []string{
	"FLUTTER_SUPPRESS_ANALYTICS",
	"CI",
	"CONTINUOUS_INTEGRATION",
	"BUILD_NUMBER",
	"BOT",
}

// BotEnvironment reports whether this run looks automated (CI, build bot,
// or an explicit suppression variable). Optional overrides come from the
// per-user config file when one exists.
func BotEnvironment() bool {
	v := viper.New()
	v.AutomaticEnv()
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".flutter"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Absence of the config file is the common case.
		_ = v.ReadInConfig()
	}

	for _, name := range suppressionVars {
		raw := v.GetString(name)
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "false") || raw == "0" {
			continue
		}
		return true
	}
	return v.GetBool("suppress_analytics")
}
