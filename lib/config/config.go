// Copyright 2026 The Homeroom Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// hardMaxPerPage is the ceiling no configuration can raise: resolver
// pages never exceed 50 items regardless of what the file asks for.
const hardMaxPerPage = 50

// Config is the master configuration for Homeroom.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	// Paths configures directory and file locations.
	Paths PathsConfig `yaml:"paths"`

	// Resolver configures recipient resolution.
	Resolver ResolverConfig `yaml:"resolver"`

	// Per-environment overrides, applied after the base config loads.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment.
type ConfigOverrides struct {
	Paths    *PathsConfig    `yaml:"paths,omitempty"`
	Resolver *ResolverConfig `yaml:"resolver,omitempty"`
}

// PathsConfig configures directory and file locations.
type PathsConfig struct {
	// Root is the base directory for Homeroom data.
	Root string `yaml:"root"`

	// State is where runtime state lives, including the conversation
	// tag store.
	State string `yaml:"state"`

	// Roster is the roster snapshot file consumed by the file-backed
	// directory (.yaml or .jsonc).
	Roster string `yaml:"roster"`
}

// ResolverConfig configures recipient resolution.
type ResolverConfig struct {
	// DefaultPerPage is the page size used when a query does not name
	// one. Default: 10.
	DefaultPerPage int `yaml:"default_per_page"`

	// MaxPerPage caps requested page sizes. Values above 50 are
	// clamped back to 50 on load.
	MaxPerPage int `yaml:"max_per_page"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file; the file is still the
// source of truth.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "homeroom")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:   defaultRoot,
			State:  filepath.Join(defaultRoot, "state"),
			Roster: filepath.Join(defaultRoot, "roster.yaml"),
		},
		Resolver: ResolverConfig{
			DefaultPerPage: 10,
			MaxPerPage:     hardMaxPerPage,
		},
	}
}

// Load loads configuration from the HOMEROOM_CONFIG environment
// variable. There are no fallbacks: if HOMEROOM_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("HOMEROOM_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("HOMEROOM_CONFIG environment variable not set; " +
			"set it to the path of your homeroom.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment
// variables do not override config values; the only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	cfg.clampResolver()

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.State != "" {
			c.Paths.State = overrides.Paths.State
		}
		if overrides.Paths.Roster != "" {
			c.Paths.Roster = overrides.Paths.Roster
		}
	}

	if overrides.Resolver != nil {
		if overrides.Resolver.DefaultPerPage != 0 {
			c.Resolver.DefaultPerPage = overrides.Resolver.DefaultPerPage
		}
		if overrides.Resolver.MaxPerPage != 0 {
			c.Resolver.MaxPerPage = overrides.Resolver.MaxPerPage
		}
	}
}

// clampResolver enforces the hard page-size ceiling and sane floors.
func (c *Config) clampResolver() {
	if c.Resolver.MaxPerPage < 1 || c.Resolver.MaxPerPage > hardMaxPerPage {
		c.Resolver.MaxPerPage = hardMaxPerPage
	}
	if c.Resolver.DefaultPerPage < 1 {
		c.Resolver.DefaultPerPage = 10
	}
	if c.Resolver.DefaultPerPage > c.Resolver.MaxPerPage {
		c.Resolver.DefaultPerPage = c.Resolver.MaxPerPage
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOMEROOM_ROOT": c.Paths.Root,
		"HOME":          os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["HOMEROOM_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Paths.Roster = expandVars(c.Paths.Roster, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}
	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates all configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.State} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
