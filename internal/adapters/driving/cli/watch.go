package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/typefinder/internal/logger"
)

// defaultDebounce coalesces bursts of events, e.g. a copy that creates
// then writes a file.
const defaultDebounce = 250 * time.Millisecond

// watchDirectory calls onChange with the changed paths after each quiet
// period of debounce following create, write or rename events in dir. It
// blocks until ctx is cancelled. An onChange error is logged and watching
// continues.
func watchDirectory(ctx context.Context, dir string, debounce time.Duration, onChange func(changed []string) error) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watching %s: %v", dir, err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			slices.Sort(changed)
			clear(pending)

			if err := onChange(changed); err != nil {
				logger.Error("reloading %s: %v", dir, err)
			}
		}
	}
}
