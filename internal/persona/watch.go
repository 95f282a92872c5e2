package persona

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the library whenever a persona file changes. It blocks
// until ctx is cancelled; callers run it in a goroutine. A missing
// directory is not an error — there is simply nothing to watch.
func (l *Library) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		l.log.Debug("persona dir not watchable", zap.String("dir", l.dir), zap.Error(err))
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := l.Reload(); err != nil {
				l.log.Warn("persona reload failed", zap.Error(err))
				continue
			}
			l.log.Info("personas reloaded", zap.String("trigger", event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("persona watcher error", zap.Error(err))
		}
	}
}
