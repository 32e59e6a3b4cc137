package domain

// Config mirrors ~/.shellsage/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Context             ContextSettings   `yaml:"context"`
	Security            SecuritySettings  `yaml:"security"`
	Cache               CacheSettings     `yaml:"cache"`
	History             HistorySettings   `yaml:"history"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
	CopyFix        bool   `yaml:"copy_fix"`
}

// ContextSettings configures which fragments are collected after a failure.
type ContextSettings struct {
	IncludeProcesses bool   `yaml:"include_processes"`
	IncludeNetwork   bool   `yaml:"include_network"`
	IncludeFiles     bool   `yaml:"include_files"`
	IncludeGit       string `yaml:"include_git"`
	IncludeMan       bool   `yaml:"include_man"`
	CommandTimeout   string `yaml:"command_timeout"`
}

// SecuritySettings defines how suggested fixes are screened.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// CacheSettings controls the response cache.
type CacheSettings struct {
	Enabled    bool   `yaml:"enabled"`
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

// HistorySettings controls the analysis log.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
