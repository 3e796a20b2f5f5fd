// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned by Get/Set/Unset for a key outside the
// recognized set.
type ErrUnknownKey struct {
	Key string
}

func (e *ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown config key: %s", e.Key)
}

// PathForScope returns the config file path for the "global" (user) or
// project scope.
func PathForScope(global bool, projectDir string) (string, error) {
	if global {
		return UserConfigFile(), nil
	}

	path, err := FindProjectConfigFile(projectDir)
	if err != nil {
		return "", err
	}
	if path == "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return "", err
		}
		path = filepath.Join(abs, FileName)
	}
	return path, nil
}

// readRaw loads a config file as a generic map so unrecognized structure
// isn't silently dropped when round-tripping Set/Unset.
func readRaw(path string) (map[string]interface{}, error) {
	raw := map[string]interface{}{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return raw, nil
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, nil
}

func writeRaw(path string, raw map[string]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Set writes key=value into the config file at path, rejecting unrecognized
// keys with ErrUnknownKey. Map-typed keys (git_protocol, url_patterns) take
// a "host=value" pair encoded as value.
func Set(path, key, value string) error {
	if !IsRecognizedKey(key) {
		return &ErrUnknownKey{Key: key}
	}

	raw, err := readRaw(path)
	if err != nil {
		return err
	}

	switch key {
	case "git_protocol", "url_patterns":
		host, v, ok := strings.Cut(value, "=")
		if !ok {
			return fmt.Errorf("value for %s must be host=value", key)
		}
		sub, _ := raw[key].(map[string]interface{})
		if sub == nil {
			sub = map[string]interface{}{}
		}
		sub[host] = v
		raw[key] = sub
	default:
		raw[key] = value
	}

	return writeRaw(path, raw)
}

// Unset removes key entirely from the config file at path.
func Unset(path, key string) error {
	if !IsRecognizedKey(key) {
		return &ErrUnknownKey{Key: key}
	}

	raw, err := readRaw(path)
	if err != nil {
		return err
	}

	delete(raw, key)
	return writeRaw(path, raw)
}

// Get returns the raw stored value for key in the file at path (not the
// merged effective value), or "" if absent.
func Get(path, key string) (string, error) {
	if !IsRecognizedKey(key) {
		return "", &ErrUnknownKey{Key: key}
	}

	raw, err := readRaw(path)
	if err != nil {
		return "", err
	}

	v, ok := raw[key]
	if !ok {
		return "", nil
	}

	switch val := v.(type) {
	case string:
		return val, nil
	default:
		data, err := yaml.Marshal(val)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
}
