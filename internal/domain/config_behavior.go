package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultModelDefinition resolves the configured default model, falling back
// to the first declared model when no default is named.
func (c *Config) DefaultModelDefinition() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		if len(c.Models) == 0 {
			return ModelDefinition{}, fmt.Errorf("no models configured")
		}
		return c.Models[0], nil
	}
	if model, ok := c.FindModelByName(c.Preferences.DefaultModel); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name.
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// PickModel returns the override when set, otherwise the default model.
func (c *Config) PickModel(override string) (ModelDefinition, error) {
	if override == "" {
		return c.DefaultModelDefinition()
	}
	if model, ok := c.FindModelByName(override); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("model %s not configured", override)
}

// ShouldCollectGit decides whether version-control context is gathered for
// a failing command whose first token is baseCommand.
func (c *Config) ShouldCollectGit(baseCommand string) bool {
	switch strings.ToLower(c.Context.IncludeGit) {
	case GitModeNever:
		return false
	case GitModeAlways:
		return true
	default:
		return baseCommand == "git"
	}
}

// FragmentTimeout parses the per-subprocess timeout.
func (c *Config) FragmentTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Context.CommandTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultCommandTimeout
}

// CacheTTL parses the cache TTL.
func (c *Config) CacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.Cache.TTL); err == nil && d > 0 {
		return d
	}
	return DefaultCacheTTL
}

// RequestTimeout is the external deadline applied around the reasoning call.
func (c *Config) RequestTimeout() time.Duration {
	if c.Preferences.TimeoutSeconds <= 0 {
		return DefaultRequestTimeoutSeconds * time.Second
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}
