package contextcollector

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// envAllowList is the fixed set of variables forwarded to the reasoning service.
var envAllowList = []string{"PATH", "SHELL", "USER", "HOME", "PWD", "OLDPWD"}

var manHeaders = []string{"NAME", "SYNOPSIS", "DESCRIPTION"}

// CommandFunc runs a read-only helper program and returns its stdout.
// A non-zero exit must be reported as an error.
type CommandFunc func(ctx context.Context, dir, name string, args ...string) (string, error)

// Collector gathers the best-effort context fragments for a failing command.
type Collector struct {
	run     CommandFunc
	getenv  func(string) string
	dir     string
	timeout time.Duration
}

// Option customises a Collector.
type Option func(*Collector)

// WithCommandFunc replaces the subprocess runner.
func WithCommandFunc(fn CommandFunc) Option {
	return func(c *Collector) { c.run = fn }
}

// WithGetenv replaces the environment lookup.
func WithGetenv(fn func(string) string) Option {
	return func(c *Collector) { c.getenv = fn }
}

// WithWorkDir pins the directory that is listed and used for subprocesses.
func WithWorkDir(dir string) Option {
	return func(c *Collector) { c.dir = dir }
}

// WithTimeout bounds every subprocess.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) { c.timeout = d }
}

// New builds a collector reading the real process environment.
func New(opts ...Option) *Collector {
	c := &Collector{
		run:     execCommand,
		getenv:  os.Getenv,
		timeout: domain.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dir == "" {
		c.dir, _ = os.Getwd()
	}
	return c
}

// WorkDir returns the directory the collector inspects.
func (c *Collector) WorkDir() string {
	return c.dir
}

// Collect runs every enabled accessor concurrently and joins them. No
// accessor can fail the group, so one slow or broken source never cancels
// the others.
func (c *Collector) Collect(ctx context.Context, cfg domain.Config, command string) domain.ContextFragments {
	collector := *c
	collector.timeout = cfg.FragmentTimeout()
	settings := cfg.Context
	base := domain.FirstToken(command)

	frags := domain.ContextFragments{
		EnvVars:    collector.EnvVars(),
		ManExcerpt: domain.ManualUnavailable,
	}

	var g errgroup.Group
	if settings.IncludeProcesses {
		g.Go(func() error {
			frags.ProcessTree = collector.ProcessTree(ctx)
			return nil
		})
	}
	if settings.IncludeFiles {
		g.Go(func() error {
			frags.FileContext = collector.FileContext()
			return nil
		})
	}
	if settings.IncludeNetwork {
		g.Go(func() error {
			frags.NetworkState = collector.NetworkState(ctx)
			return nil
		})
	}
	if cfg.ShouldCollectGit(base) {
		g.Go(func() error {
			frags.Git = collector.gitContext(ctx)
			return nil
		})
	}
	if settings.IncludeMan {
		g.Go(func() error {
			frags.ManExcerpt = collector.ManExcerpt(ctx, base)
			return nil
		})
	}
	_ = g.Wait()

	if frags.ProcessTree == nil {
		frags.ProcessTree = []string{}
	}
	if frags.NetworkState == nil {
		frags.NetworkState = []string{}
	}
	return frags
}

// EnvVars returns the allow-listed variables; unset ones map to "".
func (c *Collector) EnvVars() map[string]string {
	return lo.SliceToMap(envAllowList, func(key string) (string, string) {
		return key, c.getenv(key)
	})
}

// ProcessTree returns the last lines of the forest process listing.
func (c *Collector) ProcessTree(ctx context.Context) []string {
	out, err := c.runCmd(ctx, "ps", "-ef", "--forest")
	if err != nil {
		return []string{}
	}
	lines := splitLines(out)
	if len(lines) > domain.MaxProcessLines {
		lines = lines[len(lines)-domain.MaxProcessLines:]
	}
	return lines
}

// FileContext lists regular files and subdirectories of the working directory.
func (c *Collector) FileContext() domain.FileContext {
	result := domain.FileContext{Files: []string{}, Dirs: []string{}}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return result
	}
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			if len(result.Dirs) < domain.MaxContextDirs {
				result.Dirs = append(result.Dirs, entry.Name())
			}
		case entry.Type().IsRegular():
			if len(result.Files) < domain.MaxContextFiles {
				result.Files = append(result.Files, entry.Name())
			}
		}
		if len(result.Dirs) >= domain.MaxContextDirs && len(result.Files) >= domain.MaxContextFiles {
			break
		}
	}
	return result
}

// NetworkState returns the first lines of the listening socket table.
func (c *Collector) NetworkState(ctx context.Context) []string {
	out, err := c.runCmd(ctx, "ss", "-tulpn")
	if err != nil {
		return []string{}
	}
	return lo.Subset(splitLines(out), 0, domain.MaxNetworkLines)
}

// Git returns repository state, but only when the failing command is a git
// invocation.
func (c *Collector) Git(ctx context.Context, command string) *domain.GitContext {
	if domain.FirstToken(command) != "git" {
		return nil
	}
	return c.gitContext(ctx)
}

func (c *Collector) gitContext(ctx context.Context) *domain.GitContext {
	status, statusErr := c.runCmd(ctx, "git", "status", "--porcelain")
	remotes, remotesErr := c.runCmd(ctx, "git", "remote", "-v")
	if statusErr != nil && remotesErr != nil {
		return nil
	}
	return &domain.GitContext{Status: status, Remotes: remotes}
}

// ManExcerpt extracts the NAME, SYNOPSIS and DESCRIPTION lines of a manual
// page, or returns domain.ManualUnavailable.
func (c *Collector) ManExcerpt(ctx context.Context, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ManualUnavailable
	}
	out, err := c.runCmd(ctx, "man", name)
	if err != nil {
		return domain.ManualUnavailable
	}
	excerpt := extractManSections(stripOverstrike(out))
	if excerpt == "" {
		return domain.ManualUnavailable
	}
	return excerpt
}

func extractManSections(page string) string {
	var collected []string
	inSection := false
	for _, line := range strings.Split(page, "\n") {
		header := strings.TrimRight(line, " \t\r")
		if lo.ContainsBy(manHeaders, func(h string) bool { return strings.EqualFold(h, header) }) {
			inSection = true
			collected = append(collected, header)
		} else if inSection && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				collected = append(collected, trimmed)
			}
		} else if header != "" && !strings.HasPrefix(line, " ") {
			// any other unindented heading closes the active section
			inSection = false
		}
		if len(collected) >= domain.MaxManLines {
			break
		}
	}
	return strings.Join(collected, "\n")
}

// stripOverstrike removes backspace formatting (bold and underline) the way
// col -b does.
func stripOverstrike(s string) string {
	if !strings.ContainsRune(s, '\b') {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\b' {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

func (c *Collector) runCmd(ctx context.Context, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.run(cctx, c.dir, name, args...)
}

func execCommand(ctx context.Context, dir, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "MANPAGER=cat", "PAGER=cat", "MANWIDTH=100")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	if len(out) == 0 && name == "man" {
		return "", errors.New("empty manual page")
	}
	return string(out), nil
}

func splitLines(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}

var _ ports.ContextCollector = (*Collector)(nil)
