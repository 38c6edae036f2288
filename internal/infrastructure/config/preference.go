// Package config stores the user's shutdown preference in a small INI file.
// The layout is one default section with three keys, and files written by
// older releases (a [DEFAULT] header, Python-style True/False) load as is.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"shutdownassistant/internal/domain/entity"
	"shutdownassistant/internal/domain/repository"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

const (
	fileName = "config.ini"

	keyScheduledTime = "scheduled_time"
	keyAutoStart     = "auto_start"
	keyRepeat        = "repeat"
)

// DefaultPath returns ASSISTANT_CONFIG_FILE, or <user config dir>/<appName>/config.ini.
// On Windows the user config dir is %APPDATA%.
func DefaultPath(appName string) (string, error) {
	if p := os.Getenv("ASSISTANT_CONFIG_FILE"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", appErrors.ErrConfig, err)
	}
	return filepath.Join(dir, appName, fileName), nil
}

type preferenceStore struct {
	fs   afero.Fs
	path string
	log  logger.Logger
}

// NewPreferenceStore creates a PreferenceRepository backed by the INI file at
// path on fs. Use afero.NewOsFs() outside tests.
func NewPreferenceStore(fs afero.Fs, path string, log logger.Logger) repository.PreferenceRepository {
	return &preferenceStore{fs: fs, path: path, log: log}
}

// Load reads the preference file. A missing file or key yields the default value.
func (s *preferenceStore) Load(ctx context.Context) (*entity.Preference, error) {
	pref := entity.DefaultPreference()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Debug(fmt.Sprintf("Config file %s not found, using defaults", s.path))
			return pref, nil
		}
		return nil, fmt.Errorf("%w: %v", appErrors.ErrConfig, err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrConfig, err)
	}
	pref.Stored = true

	sec := cfg.Section(ini.DefaultSection)
	if sec.HasKey(keyScheduledTime) {
		pref.ScheduledTime = sec.Key(keyScheduledTime).String()
	}
	pref.AutoStart = s.boolKey(sec, keyAutoStart, pref.AutoStart)
	pref.Repeat = s.boolKey(sec, keyRepeat, pref.Repeat)
	return pref, nil
}

// Save writes the preference, creating the parent directory when needed.
func (s *preferenceStore) Save(ctx context.Context, pref *entity.Preference) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrConfig, err)
	}

	cfg := ini.Empty()
	sec := cfg.Section(ini.DefaultSection)
	sec.Key(keyScheduledTime).SetValue(pref.ScheduledTime)
	sec.Key(keyAutoStart).SetValue(strconv.FormatBool(pref.AutoStart))
	sec.Key(keyRepeat).SetValue(strconv.FormatBool(pref.Repeat))

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrConfig, err)
	}
	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrConfig, err)
	}
	pref.Stored = true
	s.log.Debug(fmt.Sprintf("Saved preference to %s", s.path))
	return nil
}

func (s *preferenceStore) boolKey(sec *ini.Section, name string, fallback bool) bool {
	if !sec.HasKey(name) {
		return fallback
	}
	v, err := sec.Key(name).Bool()
	if err != nil {
		s.log.Warn(fmt.Sprintf("Config key %s has non-boolean value %q, using %t", name, sec.Key(name).String(), fallback))
		return fallback
	}
	return v
}
