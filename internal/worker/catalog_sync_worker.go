package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/service"
)

// CatalogSyncWorker periodically refreshes the cached category catalog so
// dashboard dropdowns stay warm without hitting the store on every request.
type CatalogSyncWorker struct {
	catalogService *service.CatalogService
	interval       time.Duration
}

func NewCatalogSyncWorker(catalogService *service.CatalogService, interval time.Duration) *CatalogSyncWorker {
	return &CatalogSyncWorker{
		catalogService: catalogService,
		interval:       interval,
	}
}

// Start runs the sync loop until ctx is cancelled. It syncs once immediately,
// then on every tick.
func (w *CatalogSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Catalog sync worker started")

	w.sync(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Catalog sync worker stopped")
			return
		case <-ticker.C:
			w.sync(ctx)
		}
	}
}

func (w *CatalogSyncWorker) sync(ctx context.Context) {
	start := time.Now()
	if err := w.catalogService.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Catalog sync failed")
		return
	}
	log.Debug().Dur("took", time.Since(start)).Msg("Catalog sync completed")
}
