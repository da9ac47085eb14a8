package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/oneshop/internal/catalog"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	"github.com/MrSnakeDoc/oneshop/internal/sources/catalogfile"
)

// CatalogReloader handles periodic reloading of the catalog file
type CatalogReloader struct {
	loader        *catalogfile.Loader
	mapper        *catalogfile.Mapper
	manager       *catalog.Manager
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader
func NewCatalogReloader(
	catalogFile string,
	manager *catalog.Manager,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalogfile.NewLoader(catalogFile),
		mapper:        catalogfile.NewMapper(),
		manager:       manager,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once and begins the periodic reload process.
// A catalog that fails to load at startup is fatal.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer close(cr.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cr.reloadLogged(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.reloadLogged(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader and waits for the loop to exit
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
	<-cr.doneCh
}

// reloadLogged reloads and keeps the previous snapshot on failure
func (cr *CatalogReloader) reloadLogged(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload catalog, keeping previous snapshot",
			logger.Error(err))
	}
}

// Reload loads the catalog file and publishes it when its content changed
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading catalog from file",
		logger.String("file", cr.loader.Path()))

	file, digest, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	categories, err := cr.mapper.MapCatalog(file)
	if err != nil {
		return fmt.Errorf("failed to map catalog: %w", err)
	}

	snapshot, changed, err := cr.manager.ApplyFile(ctx, categories, "file:"+cr.loader.Path(), digest)
	if err != nil {
		return fmt.Errorf("failed to apply catalog: %w", err)
	}

	if !changed {
		cr.logger.Info("catalog file unchanged",
			logger.Int64("version", snapshot.Version))
		return nil
	}

	cr.logger.Info("loaded catalog from file",
		logger.Int("categories", len(snapshot.Categories)),
		logger.Int64("version", snapshot.Version))

	return nil
}
