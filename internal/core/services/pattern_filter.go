package services

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/custodia-labs/typefinder/internal/core/domain"
)

// patternFilter matches module full names against skip/restrict patterns.
// Compiled expressions are cached per pattern string.
type patternFilter struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

func newPatternFilter() *patternFilter {
	return &patternFilter{cache: make(map[string]*regexp.Regexp)}
}

// compile returns the case-insensitive expression for pattern.
func (f *patternFilter) compile(pattern string) (*regexp.Regexp, error) {
	f.mu.RLock()
	re, ok := f.cache[pattern]
	f.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", domain.ErrInvalidPattern, pattern, err)
	}

	f.mu.Lock()
	f.cache[pattern] = re
	f.mu.Unlock()
	return re, nil
}

// matches reports whether name matches pattern anywhere.
func (f *patternFilter) matches(name, pattern string) (bool, error) {
	re, err := f.compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(name), nil
}

// isEligible reports whether name passes cfg. Skip dominates restrict.
// An empty skip pattern skips nothing and an empty restrict pattern admits everything.
func (f *patternFilter) isEligible(cfg domain.FilterConfig, name string) (bool, error) {
	if cfg.SkipPattern != "" {
		skipped, err := f.matches(name, cfg.SkipPattern)
		if err != nil {
			return false, err
		}
		if skipped {
			return false, nil
		}
	}
	if cfg.RestrictPattern == "" {
		return true, nil
	}
	return f.matches(name, cfg.RestrictPattern)
}

// validate compiles both patterns of cfg.
func (f *patternFilter) validate(cfg domain.FilterConfig) error {
	if _, err := f.compile(cfg.SkipPattern); err != nil {
		return err
	}
	_, err := f.compile(cfg.RestrictPattern)
	return err
}
