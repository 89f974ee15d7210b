package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"golistarr/internal/models"
	"golistarr/internal/services/catalog"
)

// refreshBatchSize is how many active titles refresh concurrently
const refreshBatchSize = 20

// Lifecycle statuses that still change and are worth re-fetching
var (
	activeTVStatuses    = []string{"Returning Series", "In Production", "Planned"}
	activeMovieStatuses = []string{"Rumored", "Planned", "In Production", "Post Production"}
)

// CleanupController owns the periodic maintenance jobs: refreshing catalog
// data for still-active titles and sweeping orphaned shared rows
type CleanupController struct {
	db            *models.Database
	catalogClient *catalog.Client
	logger        *logrus.Logger
}

// NewCleanupController creates a new cleanup controller
func NewCleanupController(db *models.Database, catalogClient *catalog.Client, logger *logrus.Logger) *CleanupController {
	return &CleanupController{
		db:            db,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// RefreshActiveMedia re-fetches catalog data for titles whose lifecycle is
// still moving. Batches run in order; items inside a batch fan out, and a
// single item's failure is logged and skipped.
func (c *CleanupController) RefreshActiveMedia(ctx context.Context) error {
	c.logger.Info("Starting refresh of active media items")

	if err := c.refreshBatches(ctx, models.MediaTypeTV, activeTVStatuses, c.refreshTVShow); err != nil {
		return err
	}
	if err := c.refreshBatches(ctx, models.MediaTypeMovie, activeMovieStatuses, c.refreshMovie); err != nil {
		return err
	}

	c.logger.Info("Completed refresh of active media items")
	return nil
}

// refreshBatches pages through the active items of one type
func (c *CleanupController) refreshBatches(ctx context.Context, mediaType models.MediaType, statuses []string, refresh func(context.Context, *models.MediaItem) error) error {
	offset := 0
	for {
		items, err := c.db.GetActiveMedia(mediaType, statuses, refreshBatchSize, offset)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		c.logger.WithFields(logrus.Fields{
			"type":   mediaType,
			"count":  len(items),
			"offset": offset,
		}).Debug("Refreshing batch")

		var wg sync.WaitGroup
		for i := range items {
			item := &items[i]
			wg.Add(1)
			go func() {
				defer wg.Done()
				if item.TMDBID == nil {
					c.logger.WithField("imdb_id", item.IMDBID).Warn("Media item has no catalog id, skipping")
					return
				}
				if err := refresh(ctx, item); err != nil {
					c.logger.WithError(err).WithField("imdb_id", item.IMDBID).Error("Failed to refresh media item")
				}
			}()
		}
		wg.Wait()

		if len(items) < refreshBatchSize {
			return nil
		}
		offset += refreshBatchSize
	}
}

func (c *CleanupController) refreshTVShow(ctx context.Context, item *models.MediaItem) error {
	details, err := c.catalogClient.GetTVShowDetails(ctx, *item.TMDBID)
	if err != nil {
		return err
	}

	status := details.Status
	item.Status = &status
	episodes := details.NumberOfEpisodes
	item.NumberOfEpisodes = &episodes
	seasons := details.NumberOfSeasons
	item.NumberOfSeasons = &seasons
	item.NextEpisodeAirDate = parseAirDate(details.NextEpisodeToAir)
	item.LastSyncAt = time.Now()

	return c.db.SaveMediaItem(item)
}

func (c *CleanupController) refreshMovie(ctx context.Context, item *models.MediaItem) error {
	details, err := c.catalogClient.GetMovieDetails(ctx, *item.TMDBID)
	if err != nil {
		return err
	}

	status := details.Status
	item.Status = &status
	item.LastSyncAt = time.Now()

	return c.db.SaveMediaItem(item)
}

// SweepOrphans deletes media items no list references and persons no media
// item references. Shared rows only disappear here, never during imports.
func (c *CleanupController) SweepOrphans(ctx context.Context) error {
	c.logger.Info("Starting orphan sweep")

	mediaDeleted, err := c.db.DeleteOrphanMediaItems()
	if err != nil {
		return err
	}

	personsDeleted, err := c.db.DeleteOrphanPersons()
	if err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"media_items": mediaDeleted,
		"persons":     personsDeleted,
	}).Info("Orphan sweep completed")
	return nil
}
