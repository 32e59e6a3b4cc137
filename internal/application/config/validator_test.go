package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/shellsage/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Preferences: domain.Preferences{DefaultModel: "ds"},
		Models: []domain.ModelDefinition{
			{Name: "ds", Provider: domain.ProviderKindDeepSeek},
			{Name: "offline", Provider: domain.ProviderKindHeuristic},
		},
		Context:  domain.ContextSettings{IncludeGit: "auto", CommandTimeout: "2s"},
		Security: domain.SecuritySettings{Enabled: true, RulesFile: "/tmp/rules.yaml"},
		Cache:    domain.CacheSettings{Enabled: true, TTL: "1h", MaxEntries: 10},
		History:  domain.HistorySettings{Enabled: true, Path: "/tmp/history.db"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "no models", mutate: func(c *domain.Config) { c.Models = nil }, wantErr: "at least one model"},
		{name: "unknown default", mutate: func(c *domain.Config) { c.Preferences.DefaultModel = "x" }, wantErr: "default model x"},
		{name: "duplicate model", mutate: func(c *domain.Config) { c.Models[1].Name = "ds" }, wantErr: "declared twice"},
		{name: "unnamed model", mutate: func(c *domain.Config) { c.Models[0].Name = "" }, wantErr: "name must be set"},
		{name: "unknown provider", mutate: func(c *domain.Config) { c.Models[0].Provider = "smoke-signal" }, wantErr: "unknown provider"},
		{name: "bad git mode", mutate: func(c *domain.Config) { c.Context.IncludeGit = "sometimes" }, wantErr: "include_git"},
		{name: "bad command timeout", mutate: func(c *domain.Config) { c.Context.CommandTimeout = "soon" }, wantErr: "command_timeout"},
		{name: "bad cache ttl", mutate: func(c *domain.Config) { c.Cache.TTL = "forever" }, wantErr: "cache.ttl"},
		{name: "cache without entries", mutate: func(c *domain.Config) { c.Cache.MaxEntries = 0 }, wantErr: "max_entries"},
		{name: "disabled cache skips checks", mutate: func(c *domain.Config) { c.Cache = domain.CacheSettings{TTL: "forever"} }},
		{name: "history without path", mutate: func(c *domain.Config) { c.History.Path = "" }, wantErr: "history.path"},
		{name: "security without rules", mutate: func(c *domain.Config) { c.Security.RulesFile = "" }, wantErr: "rules_file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
