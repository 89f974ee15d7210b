package controllers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"golistarr/internal/metrics"
	"golistarr/internal/models"
	"golistarr/internal/services/catalog"
)

// PeopleController de-duplicates cast and crew and links them to media items
type PeopleController struct {
	db            *models.Database
	catalogClient *catalog.Client
	logger        *logrus.Logger
}

// NewPeopleController creates a new people controller
func NewPeopleController(db *models.Database, catalogClient *catalog.Client, logger *logrus.Logger) *PeopleController {
	return &PeopleController{
		db:            db,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Link upserts the person behind a credit and creates the (title, person,
// role) relation if absent. The cross-reference lookup is best-effort; the
// upsert tolerates a concurrent insert of the same person.
func (c *PeopleController) Link(ctx context.Context, mediaItemID uint, ref catalog.PersonRef, role models.PersonRole) error {
	var imdbID *string
	info, err := c.catalogClient.GetPerson(ctx, ref.ID)
	if err != nil {
		c.logger.WithError(err).WithField("person_id", ref.ID).Debug("Person lookup failed, linking without cross-reference")
	} else if info != nil {
		imdbID = info.IMDBID
	}

	person, err := c.db.UpsertPerson(&models.Person{
		TMDBID:      ref.ID,
		Name:        ref.Name,
		ProfilePath: ref.ProfilePath,
		IMDBID:      imdbID,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert person %d: %w", ref.ID, err)
	}

	if err := c.db.LinkMediaPerson(mediaItemID, person.ID, role); err != nil {
		return fmt.Errorf("failed to link person %d: %w", ref.ID, err)
	}

	return nil
}

// LinkAll links every credit concurrently. A single person's failure is
// logged and counted; it never affects the rest or the caller.
func (c *PeopleController) LinkAll(ctx context.Context, mediaItemID uint, refs []catalog.PersonRef, role models.PersonRole) {
	if len(refs) == 0 {
		return
	}

	var wg sync.WaitGroup
	var linked, skipped int64

	for _, ref := range refs {
		wg.Add(1)
		go func(ref catalog.PersonRef) {
			defer wg.Done()
			if err := c.Link(ctx, mediaItemID, ref, role); err != nil {
				c.logger.WithError(err).WithFields(logrus.Fields{
					"media_item_id": mediaItemID,
					"person_id":     ref.ID,
					"role":          role,
				}).Error("Failed to link person")
				atomic.AddInt64(&skipped, 1)
				metrics.PersonsLinked.WithLabelValues("skipped").Inc()
				return
			}
			atomic.AddInt64(&linked, 1)
			metrics.PersonsLinked.WithLabelValues("linked").Inc()
		}(ref)
	}
	wg.Wait()

	c.logger.WithFields(logrus.Fields{
		"media_item_id": mediaItemID,
		"role":          role,
		"linked":        atomic.LoadInt64(&linked),
		"skipped":       atomic.LoadInt64(&skipped),
	}).Debug("Linked credits")
}
