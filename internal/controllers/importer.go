package controllers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"golistarr/internal/imdb"
	"golistarr/internal/metrics"
	"golistarr/internal/models"
	"golistarr/internal/services/filestore"
)

// importBatchSize is how many rows of one list resolve concurrently.
// Batches run strictly in order; rows inside a batch fan out.
const importBatchSize = 10

// ImportController drives list imports. Lists are enqueued at creation time
// and consumed by a fixed pool of workers, so task lifetime and error capture
// stay explicit instead of hiding in detached goroutines.
type ImportController struct {
	db        *models.Database
	files     *filestore.Store
	mediaCtrl *MediaController
	logger    *logrus.Logger

	jobs    chan string
	workers int
	wg      sync.WaitGroup
}

// NewImportController creates a new import controller with a worker pool
func NewImportController(db *models.Database, files *filestore.Store, mediaCtrl *MediaController, workers int, logger *logrus.Logger) *ImportController {
	return &ImportController{
		db:        db,
		files:     files,
		mediaCtrl: mediaCtrl,
		logger:    logger,
		jobs:      make(chan string, 64),
		workers:   workers,
	}
}

// Start launches the import workers
func (c *ImportController) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case listID, ok := <-c.jobs:
					if !ok {
						return
					}
					c.Process(ctx, listID)
				}
			}
		}()
	}
	c.logger.WithField("workers", c.workers).Info("Import workers started")
}

// Stop drains the queue and waits for in-flight imports
func (c *ImportController) Stop() {
	close(c.jobs)
	c.wg.Wait()
	c.logger.Info("Import workers stopped")
}

// Enqueue schedules a list for processing
func (c *ImportController) Enqueue(listID string) {
	c.jobs <- listID
}

// Process runs the full import state machine for one list:
// PROCESSING -> COMPLETED, or PROCESSING -> FAILED when the download or
// validation fails. Per-row failures never fail the list.
func (c *ImportController) Process(ctx context.Context, listID string) {
	list, err := c.db.GetListByID(listID)
	if err != nil {
		if models.IsNotFound(err) {
			// deleted between creation and processing
			c.logger.WithField("list_id", listID).Debug("List vanished before processing, skipping")
			return
		}
		c.logger.WithError(err).WithField("list_id", listID).Error("Failed to fetch list")
		return
	}

	if err := c.runImport(ctx, list); err != nil {
		c.logger.WithError(err).WithField("list_id", listID).Error("List processing failed")
		metrics.ListsProcessed.WithLabelValues(string(models.ListStatusFailed)).Inc()
		// Targeted update so it lands even if the list row changed meanwhile
		if updateErr := c.db.UpdateListStatus(listID, models.ListStatusFailed, err.Error()); updateErr != nil {
			c.logger.WithError(updateErr).WithField("list_id", listID).Error("Failed to mark list as failed")
		}
		return
	}

	if err := c.db.UpdateListStatus(listID, models.ListStatusCompleted, ""); err != nil {
		c.logger.WithError(err).WithField("list_id", listID).Error("Failed to mark list as completed")
		return
	}
	metrics.ListsProcessed.WithLabelValues(string(models.ListStatusCompleted)).Inc()
	c.logger.WithField("list_id", listID).Info("List processing completed")
}

// runImport downloads, validates and resolves a list's rows. Any returned
// error becomes the list's persisted failure reason.
func (c *ImportController) runImport(ctx context.Context, list *models.List) error {
	content, err := c.files.Download(list.FileID)
	if err != nil {
		return err
	}

	rows, err := imdb.ParseAndValidate(content)
	if err != nil {
		return err
	}

	// visible to readers before the items finish resolving
	if err := c.db.SetListTotalItems(list.ID, len(rows)); err != nil {
		return err
	}

	for start := 0; start < len(rows); start += importBatchSize {
		end := start + importBatchSize
		if end > len(rows) {
			end = len(rows)
		}

		var wg sync.WaitGroup
		var succeeded, failed int64

		for i, row := range rows[start:end] {
			position := start + i
			wg.Add(1)
			go func(row imdb.Row, position int) {
				defer wg.Done()
				if err := c.processRow(ctx, list.ID, row, position); err != nil {
					c.logger.WithError(err).WithFields(logrus.Fields{
						"list_id": list.ID,
						"imdb_id": row.Const,
					}).Error("Failed to process row")
					atomic.AddInt64(&failed, 1)
					metrics.RowsProcessed.WithLabelValues("failed").Inc()
					return
				}
				atomic.AddInt64(&succeeded, 1)
				metrics.RowsProcessed.WithLabelValues("ok").Inc()
			}(row, position)
		}
		wg.Wait()

		c.logger.WithFields(logrus.Fields{
			"list_id":   list.ID,
			"processed": end,
			"total":     len(rows),
			"ok":        atomic.LoadInt64(&succeeded),
			"failed":    atomic.LoadInt64(&failed),
		}).Info("Processed batch")
	}

	return nil
}

// processRow resolves one row to a media item and records the list entry.
// Position is the row's index in the validated sequence, keeping display
// order independent of resolution latency.
func (c *ImportController) processRow(ctx context.Context, listID string, row imdb.Row, position int) error {
	item, err := c.mediaCtrl.GetOrCreate(ctx, row)
	if err != nil {
		return err
	}

	return c.db.CreateListItem(&models.ListItem{
		ListID:      listID,
		MediaItemID: item.ID,
		UserRating:  row.Rating(),
		DateRated:   row.RatedAt(),
		Position:    position,
	})
}
