// Package config resolves invocation settings for the CLI with the usual
// precedence: command-line flags beat environment variables beat the config
// file. The resolved Settings value is passed explicitly into the pipeline;
// core packages never read configuration themselves.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Env variable names honored by MergeEnv.
const (
	EnvManifest  = "APIDELTA_MANIFEST"
	EnvAgainst   = "APIDELTA_AGAINST"
	EnvExtractor = "APIDELTA_EXTRACTOR"
	EnvTimeout   = "APIDELTA_TIMEOUT_SECONDS"
)

// DefaultTimeoutSeconds bounds the external extraction step. The core
// computation itself needs no deadline.
const DefaultTimeoutSeconds = 300

// Settings carries everything the check pipeline needs from its caller.
type Settings struct {
	// Manifest is the path to the package manifest (name + current version).
	Manifest string `yaml:"manifest"`

	// Against selects the comparison baseline: a git rev or "rev..rev" range.
	Against string `yaml:"against"`

	// Extractor is the command that prints the raw API tree JSON for the
	// source tree in its working directory.
	Extractor string `yaml:"extractor"`

	// TimeoutSeconds bounds one extractor invocation. Zero means default.
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// Load reads the file layer. A missing file is not an error: callers get
// zero Settings and layer flags/env on top, mirroring "no config file yet".
func Load(path string) (Settings, error) {
	var s Settings
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, err
	}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return s, nil
}

// MergeEnv overlays environment variables on s. Set variables win over the
// file layer; flags are applied later by the CLI and win over both.
func MergeEnv(s Settings) Settings {
	if v := os.Getenv(EnvManifest); v != "" {
		s.Manifest = v
	}
	if v := os.Getenv(EnvAgainst); v != "" {
		s.Against = v
	}
	if v := os.Getenv(EnvExtractor); v != "" {
		s.Extractor = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.TimeoutSeconds = n
		}
	}
	return s
}

// Timeout returns the effective extraction timeout in seconds.
func (s Settings) Timeout() int {
	if s.TimeoutSeconds > 0 {
		return s.TimeoutSeconds
	}
	return DefaultTimeoutSeconds
}
