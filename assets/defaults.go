// Package assets embeds the files written to ~/.shellsage on first use.
package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultGuardrailYAML contains the embedded default guardrail rules.
//
//go:embed defaults/guardrail.yaml
var DefaultGuardrailYAML []byte

// BashHook is sourced from ~/.bashrc to analyse failed commands.
//
//go:embed hooks/shellsage.bash
var BashHook []byte

// ZshHook is sourced from ~/.zshrc to analyse failed commands.
//
//go:embed hooks/shellsage.zsh
var ZshHook []byte
