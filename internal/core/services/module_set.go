package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// buildWorkingSet assembles the modules to scan: loaded modules passing the
// filter sorted by full name, then explicitly configured modules in
// configuration order. Full names are never added twice.
func (f *TypeFinder) buildWorkingSet(cfg domain.FilterConfig) ([]domain.Module, error) {
	var modules []domain.Module
	added := make(map[string]struct{})

	if cfg.IncludeLoadedModules {
		if err := f.addLoadedModules(cfg, added, &modules); err != nil {
			return nil, err
		}
	}

	if err := f.addConfiguredModules(cfg, added, &modules); err != nil {
		return nil, err
	}

	return modules, nil
}

func (f *TypeFinder) addLoadedModules(cfg domain.FilterConfig, added map[string]struct{}, modules *[]domain.Module) error {
	loaded := append([]domain.Module(nil), f.host.LoadedModules()...)
	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].FullName() < loaded[j].FullName()
	})

	for _, m := range loaded {
		name := m.FullName()
		eligible, err := f.patterns.isEligible(cfg, name)
		if err != nil {
			return err
		}
		if !eligible {
			continue
		}
		if _, ok := added[name]; ok {
			continue
		}
		*modules = append(*modules, m)
		added[name] = struct{}{}
	}
	return nil
}

func (f *TypeFinder) addConfiguredModules(cfg domain.FilterConfig, added map[string]struct{}, modules *[]domain.Module) error {
	for _, name := range cfg.ModuleNames {
		if _, ok := added[name]; ok {
			continue
		}

		m, err := f.host.LoadByName(name)
		if err != nil {
			if !errors.Is(err, domain.ErrModuleNotFound) {
				return fmt.Errorf("loading configured module %q: %w: %v", name, domain.ErrModuleNotFound, err)
			}
			return fmt.Errorf("loading configured module %q: %w", name, err)
		}

		full := m.FullName()
		if _, ok := added[full]; ok {
			logger.Debug("configured module %s already in working set", full)
			continue
		}
		*modules = append(*modules, m)
		added[full] = struct{}{}
	}
	return nil
}
