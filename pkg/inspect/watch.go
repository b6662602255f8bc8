package inspect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ajitpratap0/mcp-schema-go/pkg/logging"
	"github.com/ajitpratap0/mcp-schema-go/pkg/protocol"
)

// Watch inspects paths once, then again each time one of them is written or
// replaced, passing every report to fn. fn is called from a single
// goroutine. Watch returns nil when ctx is done.
//
// Parent directories are watched rather than the files, so editors that
// save by renaming a temporary file over the original are seen.
func (i *Inspector) Watch(ctx context.Context, kind protocol.Kind, paths []string, fn func(*Report)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		watched[abs] = path

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	reports, err := i.InspectFiles(ctx, kind, paths)
	if err != nil {
		return err
	}
	for _, r := range reports {
		fn(r)
	}

	logger := i.logger.WithContext(ctx)
	logger.Info("Watching files", logging.Int("files", len(paths)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			path, ok := watched[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				// removed again before it could be read
				logger.WithError(err).Warn("Skipping changed file", logging.String("source", path))
				continue
			}
			fn(i.inspect(ctx, path, kind, data))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("Watcher error")
		}
	}
}
