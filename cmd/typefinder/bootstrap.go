package main

import (
	"fmt"

	"github.com/custodia-labs/typefinder/internal/adapters/driven/config/file"
	"github.com/custodia-labs/typefinder/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/typefinder/internal/adapters/driven/host/goplugin"
	"github.com/custodia-labs/typefinder/internal/adapters/driven/host/manifest"
	storagemem "github.com/custodia-labs/typefinder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/typefinder/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/typefinder/internal/adapters/driving/cli"
	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
	"github.com/custodia-labs/typefinder/internal/core/services"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// moduleHost is what the type finder needs from a host adapter.
type moduleHost interface {
	driven.ModuleHost
	driven.TypeIntrospector
}

// bootstrap wires adapters into services for one invocation.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	host, err := newHost(opts.Host)
	if err != nil {
		return nil, err
	}
	finder := services.NewTypeFinder(host, host, filesystem.NewProvider())

	s := &cli.Services{
		TypeFinder: finder,
		Settings:   settingsService,
	}

	store, err := sqlite.NewStore(settings.CatalogDir)
	if err != nil {
		// Scans still work; records only live for this invocation.
		logger.Warn("opening scan catalog: %v; using memory catalog", err)
		s.Catalog = services.NewCatalogService(storagemem.NewScanCatalog())
		return s, nil
	}
	logger.Debug("scan catalog at %s", store.Path())
	s.Catalog = services.NewCatalogService(store.ScanCatalog())
	s.Close = store.Close
	return s, nil
}

func newHost(kind string) (moduleHost, error) {
	switch kind {
	case "", cli.HostManifest:
		return manifest.NewHost(nil), nil
	case cli.HostGoPlugin:
		return goplugin.NewHost(nil), nil
	default:
		return nil, fmt.Errorf("%w: unknown host %q", domain.ErrInvalidInput, kind)
	}
}
