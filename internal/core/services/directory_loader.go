package services

import (
	"errors"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/logger"
)

// loadOutcome classifies one per-file attempt of a directory scan.
type loadOutcome int

const (
	outcomeLoaded loadOutcome = iota
	outcomePresent
	outcomeFiltered
	outcomeBadImage
	outcomeUnreadable
	outcomeLoadFailed
)

func (o loadOutcome) String() string {
	switch o {
	case outcomeLoaded:
		return "loaded"
	case outcomePresent:
		return "already loaded"
	case outcomeFiltered:
		return "filtered"
	case outcomeBadImage:
		return "not a module"
	case outcomeUnreadable:
		return "unreadable"
	case outcomeLoadFailed:
		return "load failed"
	default:
		return "unknown"
	}
}

// loadAttempt is the result of one file. Failures are logged and discarded.
type loadAttempt struct {
	path    string
	module  string
	outcome loadOutcome
	err     error
}

// augmentFromDirectory loads every eligible module file in dir that is not
// already represented in the working set or loaded in the host. Only
// configuration errors are returned.
func (f *TypeFinder) augmentFromDirectory(cfg domain.FilterConfig, dir string) error {
	working, err := f.buildWorkingSet(cfg)
	if err != nil {
		return err
	}
	loaded := f.host.LoadedModules()
	have := make(map[string]struct{}, len(working)+len(loaded))
	for _, m := range working {
		have[m.FullName()] = struct{}{}
	}
	for _, m := range loaded {
		have[m.FullName()] = struct{}{}
	}

	if !f.files.DirectoryExists(dir) {
		logger.Debug("module directory %s does not exist", dir)
		return nil
	}

	files, err := f.files.ListFiles(dir, f.host.FilePattern())
	if err != nil {
		logger.Warn("listing module directory %s: %v", dir, err)
		return nil
	}

	logger.Section("Loading modules from " + dir)
	for _, path := range files {
		attempt, err := f.attemptLoad(cfg, path, have)
		if err != nil {
			return err
		}
		logAttempt(attempt)
	}
	return nil
}

// attemptLoad loads one file if its identity is eligible and not yet present.
// A successful load is recorded in have. The error is a configuration error
// from pattern matching; file failures are reported in the attempt.
func (f *TypeFinder) attemptLoad(cfg domain.FilterConfig, path string, have map[string]struct{}) (loadAttempt, error) {
	identity, err := f.host.ReadIdentity(path)
	if err != nil {
		if errors.Is(err, domain.ErrBadImageFormat) {
			return loadAttempt{path: path, outcome: outcomeBadImage, err: err}, nil
		}
		return loadAttempt{path: path, outcome: outcomeUnreadable, err: err}, nil
	}

	name := identity.FullName()
	eligible, err := f.patterns.isEligible(cfg, name)
	if err != nil {
		return loadAttempt{}, err
	}
	if !eligible {
		return loadAttempt{path: path, module: name, outcome: outcomeFiltered}, nil
	}
	if _, ok := have[name]; ok {
		return loadAttempt{path: path, module: name, outcome: outcomePresent}, nil
	}

	loaded, err := f.host.LoadFile(path)
	if err != nil {
		return loadAttempt{path: path, module: name, outcome: outcomeLoadFailed, err: err}, nil
	}

	have[name] = struct{}{}
	have[loaded.FullName()] = struct{}{}
	return loadAttempt{path: path, module: loaded.FullName(), outcome: outcomeLoaded}, nil
}

func logAttempt(a loadAttempt) {
	switch a.outcome {
	case outcomeBadImage, outcomeUnreadable:
		logger.Warn("%s: %s: %v", a.path, a.outcome, a.err)
	case outcomeLoadFailed:
		logger.Debug("%s (%s): %s: %v", a.path, a.module, a.outcome, a.err)
	default:
		logger.Debug("%s (%s): %s", a.path, a.module, a.outcome)
	}
}
