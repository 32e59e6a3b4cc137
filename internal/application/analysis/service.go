package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/shellsage/internal/application/response"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/ports"
)

// ErrNoAnalysis means the reasoning service answered with nothing usable.
var ErrNoAnalysis = errors.New("no analysis in response")

// Service runs commands and diagnoses the ones that fail.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	Runner          ports.CommandRunner
	Collector       ports.ContextCollector
	ProviderFactory ports.ProviderFactory
	SecurityService ports.SecurityService
	Cache           ports.CacheRepository
	Analyses        ports.AnalysisRepository
	Presenter       ports.Presenter
	Clipboard       ports.Clipboard
	Logger          ports.Logger

	History   *domain.SessionHistory
	Assembler Assembler
	WorkDir   string

	// ModelOverride picks a configured model other than the default.
	ModelOverride string
	CopyFix       bool
	Debug         bool
}

// RunInteractive runs argv with the terminal attached and diagnoses a
// non-zero exit. The child's exit code is returned; an error means the
// command could not be started.
func (s *Service) RunInteractive(ctx context.Context, argv []string) (int, error) {
	if err := s.check(); err != nil {
		return 1, err
	}
	command := strings.TrimSpace(strings.Join(argv, " "))
	if command == "" {
		return 0, errors.New("no command given")
	}
	s.history().Add(command)

	result, err := s.Runner.Run(ctx, command)
	if err != nil {
		return 1, err
	}
	if result.Failed() {
		if err := s.Diagnose(ctx, result); err != nil {
			s.Logger.Debug("diagnosis ended without analysis", map[string]interface{}{"error": err.Error()})
		}
	}
	return result.ExitCode, nil
}

// AutoAnalyze diagnoses a command that already failed in the user's shell.
// The command is re-run with its streams captured to recover the error output.
func (s *Service) AutoAnalyze(ctx context.Context, command string, exitCode int) error {
	if err := s.check(); err != nil {
		return err
	}
	command = strings.TrimSpace(command)
	if command == "" || exitCode == 0 {
		return nil
	}
	s.history().Add(command)

	result, err := s.Runner.Capture(ctx, command)
	if err != nil {
		return err
	}
	result.ExitCode = exitCode
	if err := s.Diagnose(ctx, result); err != nil {
		s.Logger.Debug("diagnosis ended without analysis", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

// Diagnose runs one analysis pass for a failed result. Every outcome is
// reported through the presenter; the returned error is informational.
func (s *Service) Diagnose(ctx context.Context, result domain.ExecutionResult) error {
	started := time.Now()
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return s.fail(fmt.Errorf("load config: %w", err))
	}
	model, err := cfg.PickModel(s.ModelOverride)
	if err != nil {
		return s.fail(err)
	}

	frags := s.Collector.Collect(ctx, cfg, result.Command)
	bundle := s.Assembler.Assemble(result, frags, s.history().Snapshot(), s.WorkDir)
	if s.Debug {
		s.Presenter.DebugDump(bundle)
	}

	s.Presenter.Analyzing()
	raw, fromCache, err := s.reason(ctx, cfg, model, bundle)
	record := domain.AnalysisRecord{
		Command:    bundle.Command,
		ExitCode:   bundle.ExitCode,
		WorkingDir: bundle.WorkingDirectory,
		Model:      model.Name,
		FromCache:  fromCache,
	}
	if err != nil {
		s.save(cfg, record, started)
		return s.fail(err)
	}

	parsed := response.Parse(raw)
	if parsed.Empty() {
		s.save(cfg, record, started)
		return s.fail(ErrNoAnalysis)
	}
	if !fromCache {
		s.store(cfg, model, bundle, raw)
	}

	analysis := domain.Analysis{
		Bundle:    bundle,
		Parsed:    parsed,
		Risk:      s.screen(parsed.Fix),
		Model:     model.Name,
		FromCache: fromCache,
	}
	s.Presenter.Show(analysis)
	s.copyFix(cfg, analysis)

	record.Succeeded = true
	record.Cause = deref(parsed.Cause)
	record.Fix = deref(parsed.Fix)
	s.save(cfg, record, started)
	return nil
}

// reason returns the raw response, from the cache when possible.
func (s *Service) reason(ctx context.Context, cfg domain.Config, model domain.ModelDefinition, bundle domain.ContextBundle) (string, bool, error) {
	if s.cacheEnabled(cfg) {
		key := s.Cache.Key(bundle.Command, bundle.ErrorOutput, model.Name)
		entry, ok, err := s.Cache.Get(key)
		if err != nil {
			s.Logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
		}
		if ok {
			s.Logger.Debug("cache hit", map[string]interface{}{"key": key})
			return entry.Response, true, nil
		}
	}

	provider, err := s.ProviderFactory.ForModel(model)
	if err != nil {
		return "", false, fmt.Errorf("provider init: %w", err)
	}
	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	s.Logger.Info("calling provider", map[string]interface{}{
		"provider": provider.Name(),
		"model":    model.ModelID,
	})
	resp, err := provider.Analyze(reqCtx, ports.ProviderRequest{Bundle: bundle, Model: model})
	if err != nil {
		return "", false, fmt.Errorf("provider analyze: %w", err)
	}
	return resp.Raw, false, nil
}

func (s *Service) store(cfg domain.Config, model domain.ModelDefinition, bundle domain.ContextBundle, raw string) {
	if !s.cacheEnabled(cfg) {
		return
	}
	entry := domain.CacheEntry{
		Key:      s.Cache.Key(bundle.Command, bundle.ErrorOutput, model.Name),
		Command:  bundle.Command,
		Response: raw,
		Model:    model.Name,
	}
	if err := s.Cache.Set(entry); err != nil {
		s.Logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) screen(fix *string) *domain.RiskAssessment {
	if fix == nil || *fix == "" || s.SecurityService == nil {
		return nil
	}
	risk, err := s.SecurityService.Evaluate(*fix)
	if err != nil {
		s.Logger.Warn("guardrail evaluation failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return &risk
}

func (s *Service) copyFix(cfg domain.Config, analysis domain.Analysis) {
	if !(s.CopyFix || cfg.Preferences.CopyFix) || analysis.Parsed.Fix == nil || *analysis.Parsed.Fix == "" {
		return
	}
	if analysis.Risk != nil && analysis.Risk.Action == domain.ActionBlock {
		return
	}
	if s.Clipboard == nil || !s.Clipboard.Enabled() {
		return
	}
	if err := s.Clipboard.Copy(*analysis.Parsed.Fix); err != nil {
		s.Logger.Warn("clipboard copy failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) save(cfg domain.Config, record domain.AnalysisRecord, started time.Time) {
	if s.Analyses == nil || !cfg.History.Enabled {
		return
	}
	record.DurationMS = time.Since(started).Milliseconds()
	if err := s.Analyses.Save(record); err != nil {
		s.Logger.Warn("analysis log write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) fail(err error) error {
	s.Logger.Error("analysis failed", err, nil)
	s.Presenter.Failure(err)
	return err
}

func (s *Service) cacheEnabled(cfg domain.Config) bool {
	return s.Cache != nil && cfg.Cache.Enabled
}

func (s *Service) history() *domain.SessionHistory {
	if s.History == nil {
		s.History = domain.NewSessionHistory(domain.DefaultSessionHistoryCapacity)
	}
	return s.History
}

func (s *Service) check() error {
	if s.ConfigProvider == nil || s.Runner == nil || s.Collector == nil ||
		s.ProviderFactory == nil || s.Presenter == nil || s.Logger == nil {
		return errors.New("analysis.Service dependencies not satisfied")
	}
	return nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
