package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

// DefaultWatchDebounce coalesces editor save bursts into one reload
const DefaultWatchDebounce = 500 * time.Millisecond

// CatalogWatcher turns changes of the catalog file into reload triggers.
// It watches the parent directory so atomic renames (editors, ConfigMaps)
// are seen.
type CatalogWatcher struct {
	watcher  *fsnotify.Watcher
	file     string
	trigger  chan struct{}
	logger   logger.Logger
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCatalogWatcher creates a watcher for catalogFile
func NewCatalogWatcher(catalogFile string, trigger chan struct{}, log logger.Logger, debounce time.Duration) (*CatalogWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	return &CatalogWatcher{
		watcher:  w,
		file:     filepath.Clean(catalogFile),
		trigger:  trigger,
		logger:   log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching; it is non-blocking
func (cw *CatalogWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(cw.file)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	cw.logger.Info("watching catalog file",
		logger.String("file", cw.file))

	go cw.run(ctx)
	return nil
}

// Stop stops the watcher and releases its resources
func (cw *CatalogWatcher) Stop() error {
	close(cw.stopCh)
	<-cw.doneCh
	return cw.watcher.Close()
}

func (cw *CatalogWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != cw.file {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cw.logger.Debug("catalog file changed",
				logger.String("op", ev.Op.String()))
			pending = time.After(cw.debounce)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("catalog watcher error", logger.Error(err))

		case <-pending:
			pending = nil
			select {
			case cw.trigger <- struct{}{}:
			default:
				cw.logger.Debug("catalog reload already pending")
			}

		case <-cw.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
