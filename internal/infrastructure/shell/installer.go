package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/shellsage/assets"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/pkg/filesystem"
	"github.com/doeshing/shellsage/internal/ports"
)

const rcMarker = "# Added by shellsage installer"

// Installer writes the hook scripts and wires them into the shell rc files.
type Installer struct {
	home   string
	getenv func(string) string
	logger ports.Logger
}

// NewInstaller builds an installer rooted at the user's home directory.
func NewInstaller(logger ports.Logger) *Installer {
	return &Installer{home: filesystem.UserHomeDir(), getenv: os.Getenv, logger: logger}
}

// WithHome roots the installer elsewhere.
func (i *Installer) WithHome(home string) *Installer {
	clone := *i
	clone.home = home
	return &clone
}

// Install writes the hook script for shell (auto-detected when empty) and
// adds a source line to its rc file. With force the line is rewritten.
func (i *Installer) Install(shell string, force bool) (domain.ShellInstallResult, error) {
	name := i.normalizeShell(shell)
	script, err := scriptFor(name)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	scriptPath, rcFile := i.scriptPaths(name)
	if err := os.MkdirAll(filepath.Dir(scriptPath), domain.DirectoryPermissions); err != nil {
		return domain.ShellInstallResult{}, err
	}

	existing, _ := os.ReadFile(scriptPath)
	scriptUpdated := string(existing) != string(script)
	if scriptUpdated {
		if err := os.WriteFile(scriptPath, script, domain.FilePermissions); err != nil {
			return domain.ShellInstallResult{}, err
		}
	}

	rcUpdated, err := ensureRCLine(rcFile, i.sourceLine(scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.log("shell hook installed", map[string]interface{}{"shell": name, "rc_file": rcFile, "rc_updated": rcUpdated})

	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: scriptUpdated,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes the source line; the script is kept.
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name := i.normalizeShell(shell)
	if name == domain.ShellUnknown {
		return domain.ShellInstallResult{}, fmt.Errorf("unsupported shell: %s", shell)
	}
	scriptPath, rcFile := i.scriptPaths(name)
	updated, err := removeRCLine(rcFile, i.sourceLine(scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	i.log("shell hook removed", map[string]interface{}{"shell": name, "rc_file": rcFile, "rc_updated": updated})
	return domain.ShellInstallResult{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
		RCUpdated:  updated,
	}, nil
}

// Status reports current integration state.
func (i *Installer) Status(shell string) domain.ShellStatus {
	name := i.normalizeShell(shell)
	status := domain.ShellStatus{Shell: name}
	if name == domain.ShellUnknown {
		status.Error = "unsupported shell"
		return status
	}
	status.ScriptPath, status.RCFile = i.scriptPaths(name)

	if info, err := os.Stat(status.ScriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}
	if contents, err := os.ReadFile(status.RCFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), i.sourceLine(status.ScriptPath))
	}
	return status
}

// DetectShell returns the base name of $SHELL.
func (i *Installer) DetectShell() string {
	if shell := i.getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return ""
}

func (i *Installer) normalizeShell(shell string) domain.ShellName {
	if shell == "" {
		shell = i.DetectShell()
	}
	switch strings.ToLower(shell) {
	case "zsh":
		return domain.ShellZsh
	case "bash":
		return domain.ShellBash
	default:
		return domain.ShellUnknown
	}
}

func scriptFor(shell domain.ShellName) ([]byte, error) {
	switch shell {
	case domain.ShellZsh:
		return assets.ZshHook, nil
	case domain.ShellBash:
		return assets.BashHook, nil
	default:
		return nil, errors.New("unsupported shell: only bash and zsh hooks are available")
	}
}

func (i *Installer) scriptPaths(shell domain.ShellName) (string, string) {
	dir := filepath.Join(i.home, filesystem.AppDirName, "shell")
	switch shell {
	case domain.ShellZsh:
		return filepath.Join(dir, "hook.zsh"), filepath.Join(i.home, ".zshrc")
	default:
		return filepath.Join(dir, "hook.bash"), filepath.Join(i.home, ".bashrc")
	}
}

func (i *Installer) sourceLine(scriptPath string) string {
	path := i.friendlyPath(scriptPath)
	return fmt.Sprintf("[ -f %s ] && source %s", path, path)
}

func (i *Installer) friendlyPath(path string) string {
	if rel, err := filepath.Rel(i.home, path); err == nil && !strings.HasPrefix(rel, "..") {
		return "$HOME/" + filepath.ToSlash(rel)
	}
	return path
}

func (i *Installer) log(msg string, fields map[string]interface{}) {
	if i.logger != nil {
		i.logger.Info(msg, fields)
	}
}

func ensureRCLine(path string, line string, force bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, os.WriteFile(path, []byte(rcMarker+"\n"+line+"\n"), domain.FilePermissions)
	}
	if strings.Contains(string(contents), line) && !force {
		return false, nil
	}
	filtered := withoutLines(string(contents), line)
	filtered = append(filtered, rcMarker, line)
	return true, os.WriteFile(path, []byte(joinLines(filtered)), domain.FilePermissions)
}

func removeRCLine(path string, line string) (bool, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !strings.Contains(string(contents), line) {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(joinLines(withoutLines(string(contents), line))), domain.FilePermissions)
}

// withoutLines drops the source line and its marker comment.
func withoutLines(contents, line string) []string {
	var kept []string
	for _, existing := range strings.Split(strings.TrimRight(contents, "\n"), "\n") {
		if strings.Contains(existing, line) || existing == rcMarker {
			continue
		}
		kept = append(kept, existing)
	}
	return kept
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

var _ ports.ShellIntegrator = (*Installer)(nil)
