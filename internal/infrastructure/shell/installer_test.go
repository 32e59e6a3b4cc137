package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shellsage/assets"
	"github.com/doeshing/shellsage/internal/domain"
)

func newTestInstaller(t *testing.T) (*Installer, string) {
	t.Helper()
	home := t.TempDir()
	return NewInstaller(nil).WithHome(home), home
}

func TestInstallCreatesScriptAndRCLine(t *testing.T) {
	installer, home := newTestInstaller(t)

	result, err := installer.Install("zsh", false)
	require.NoError(t, err)
	assert.Equal(t, domain.ShellZsh, result.Shell)
	assert.True(t, result.ScriptUpdated)
	assert.True(t, result.RCUpdated)

	script, err := os.ReadFile(result.ScriptPath)
	require.NoError(t, err)
	assert.Equal(t, assets.ZshHook, script)

	rc, err := os.ReadFile(filepath.Join(home, ".zshrc"))
	require.NoError(t, err)
	assert.Contains(t, string(rc), "source $HOME/.shellsage/shell/hook.zsh")
	assert.Contains(t, string(rc), rcMarker)
}

func TestInstallIsIdempotent(t *testing.T) {
	installer, home := newTestInstaller(t)
	rcPath := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("export EDITOR=vim\n"), 0o644))

	first, err := installer.Install("bash", false)
	require.NoError(t, err)
	second, err := installer.Install("bash", false)
	require.NoError(t, err)
	assert.False(t, second.RCUpdated)
	assert.False(t, second.ScriptUpdated)

	rc, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(rc), rcMarker))
	assert.Equal(t, 1, strings.Count(string(rc), installer.sourceLine(first.ScriptPath)))
	assert.True(t, strings.HasPrefix(string(rc), "export EDITOR=vim\n"))
}

func TestUninstallRemovesLineAndMarker(t *testing.T) {
	installer, home := newTestInstaller(t)
	rcPath := filepath.Join(home, ".bashrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("alias ll='ls -l'\n"), 0o644))

	_, err := installer.Install("bash", false)
	require.NoError(t, err)
	assert.True(t, installer.Status("bash").LinePresent)

	result, err := installer.Uninstall("bash")
	require.NoError(t, err)
	assert.True(t, result.RCUpdated)

	rc, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, "alias ll='ls -l'\n", string(rc))

	status := installer.Status("bash")
	assert.True(t, status.ScriptExists)
	assert.False(t, status.LinePresent)
}

func TestUnsupportedShell(t *testing.T) {
	installer, _ := newTestInstaller(t)

	_, err := installer.Install("fish", false)
	assert.Error(t, err)
	_, err = installer.Uninstall("fish")
	assert.Error(t, err)
	assert.Equal(t, "unsupported shell", installer.Status("fish").Error)
}

func TestDetectShell(t *testing.T) {
	installer, _ := newTestInstaller(t)
	installer.getenv = func(string) string { return "/usr/bin/zsh" }
	assert.Equal(t, "zsh", installer.DetectShell())
	assert.Equal(t, domain.ShellZsh, installer.Status("").Shell)
}

func TestHookScriptsCallAnalyze(t *testing.T) {
	for name, script := range map[string][]byte{"bash": assets.BashHook, "zsh": assets.ZshHook} {
		assert.Contains(t, string(script), "shellsage analyze --command", name)
		assert.Contains(t, string(script), "--exit-code", name)
	}
}
