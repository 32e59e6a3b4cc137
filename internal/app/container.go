package app

import (
	"context"
	"io"
	"os"

	"github.com/doeshing/shellsage/internal/application/analysis"
	"github.com/doeshing/shellsage/internal/application/doctor"
	"github.com/doeshing/shellsage/internal/domain"
	"github.com/doeshing/shellsage/internal/infrastructure/ai"
	"github.com/doeshing/shellsage/internal/infrastructure/cache"
	"github.com/doeshing/shellsage/internal/infrastructure/config"
	contextcollector "github.com/doeshing/shellsage/internal/infrastructure/context"
	"github.com/doeshing/shellsage/internal/infrastructure/executor"
	"github.com/doeshing/shellsage/internal/infrastructure/history"
	"github.com/doeshing/shellsage/internal/infrastructure/security"
	"github.com/doeshing/shellsage/internal/infrastructure/shell"
	"github.com/doeshing/shellsage/internal/pkg/filesystem"
	"github.com/doeshing/shellsage/internal/pkg/logger"
	"github.com/doeshing/shellsage/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	AnalysisService *analysis.Service
	DoctorService   *doctor.Service
	ConfigLoader    *config.FileLoader
	Config          domain.Config
	ShellIntegrator ports.ShellIntegrator
	SecurityService ports.SecurityService
	AnalysisLog     ports.AnalysisRepository
	CacheStore      ports.CacheRepository
	Logger          *logger.ZapLogger
}

// Streams are the terminal streams attached to commands run interactively.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool, streams Streams) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewForCLI(verbose)
	analysisLog := history.Open(filesystem.ExpandPath(cfg.History.Path))
	cacheStore := cache.NewFileCache(filesystem.AppDir("cache"), cfg.CacheTTL(), cfg.Cache.MaxEntries)

	var guardrail ports.SecurityService = security.Disabled{}
	if cfg.Security.Enabled {
		rules, err := security.NewGuardrail(cfg.Security.RulesFile)
		if err != nil {
			log.Warn("guardrail rules rejected, using defaults", map[string]interface{}{"error": err.Error()})
			if rules, err = security.NewGuardrail(""); err != nil {
				return nil, err
			}
		}
		guardrail = rules
	}

	collector := contextcollector.New(contextcollector.WithTimeout(cfg.FragmentTimeout()))
	runner := executor.NewLocalRunner("").WithStreams(streams.In, streams.Out, streams.Err)
	shellInstaller := shell.NewInstaller(log)

	analysisService := &analysis.Service{
		ConfigProvider:  cfgLoader,
		Runner:          runner,
		Collector:       collector,
		ProviderFactory: ai.NewFactory(),
		SecurityService: guardrail,
		Cache:           cacheStore,
		Analyses:        analysisLog,
		Logger:          log,
		History:         domain.NewSessionHistory(domain.DefaultSessionHistoryCapacity),
		Assembler:       analysis.NewAssembler(),
		WorkDir:         collector.WorkDir(),
		Debug:           verbose,
	}

	doctorService := &doctor.Service{
		ConfigProvider:  cfgLoader,
		ShellIntegrator: shellInstaller,
		SecurityService: guardrail,
		Analyses:        analysisLog,
		KeyEnvVar:       ai.KeyEnvVar,
		Getenv:          os.Getenv,
	}

	return &Container{
		AnalysisService: analysisService,
		DoctorService:   doctorService,
		ConfigLoader:    cfgLoader,
		Config:          cfg,
		ShellIntegrator: shellInstaller,
		SecurityService: guardrail,
		AnalysisLog:     analysisLog,
		CacheStore:      cacheStore,
		Logger:          log,
	}, nil
}
