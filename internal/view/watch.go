package view

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch purges the caches whenever a template directory changes. It blocks until
// ctx is done. Directories created after Watch starts are not picked up.
func (l *Loader) Watch(ctx context.Context, onChange ...func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("view watcher: %w", err)
	}
	defer watcher.Close()

	dirs := l.WatchDirs()
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("view watcher: add %s: %w", d, err)
		}
	}
	l.log.Info().Strs("dirs", dirs).Msg("watching templates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			l.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("template changed")
			l.Purge()
			for _, fn := range onChange {
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.log.Warn().Err(err).Msg("template watcher error")
		}
	}
}
