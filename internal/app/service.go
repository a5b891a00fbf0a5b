package app

import (
	"time"

	"pypkg/internal/adapters"
	"pypkg/internal/core"
	"pypkg/internal/ports"
)

// Config carries the knobs the CLI and server expose. Zero values fall
// back to the adapter defaults.
type Config struct {
	IndexURL     string
	SearchURL    string
	Timeout      time.Duration
	RetryDelay   time.Duration
	CacheSize    int
	CacheTTL     time.Duration
	SitePackages []string
}

type Service struct {
	Resolver *core.Resolver
	Remote   ports.MetadataStore
	Search   ports.SearchProvider
	Files    []ports.DependencyFilePort
	Reports  ports.ReportWriterPort
}

func NewService(cfg Config) Service {
	dirs := cfg.SitePackages
	if len(dirs) == 0 {
		dirs = adapters.DiscoverSitePackages()
	}
	local := adapters.NewLocalStore(dirs)
	remote := adapters.NewPyPIClient(cfg.IndexURL, cfg.Timeout, cfg.RetryDelay)
	return Service{
		Resolver: core.NewResolver(local, remote, remote, cfg.CacheSize, cfg.CacheTTL),
		Remote:   remote,
		Search:   adapters.NewPyPISearch(cfg.SearchURL, cfg.Timeout),
		Files: []ports.DependencyFilePort{
			adapters.NewRequirementsFileAdapter(),
			adapters.NewPyProjectFileAdapter(),
			adapters.NewPipfileAdapter(),
			adapters.NewSetupScanAdapter(),
		},
		Reports: adapters.NewReportWriter(),
	}
}
