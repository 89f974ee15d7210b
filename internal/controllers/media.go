package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"golistarr/internal/imdb"
	"golistarr/internal/models"
	"golistarr/internal/services/catalog"
)

// topActorCount caps how many top-billed actors are linked per title
const topActorCount = 7

// MediaController resolves import rows into de-duplicated media items,
// enriching new ones from the external catalog
type MediaController struct {
	db            *models.Database
	catalogClient *catalog.Client
	peopleCtrl    *PeopleController
	logger        *logrus.Logger
}

// NewMediaController creates a new media controller
func NewMediaController(db *models.Database, catalogClient *catalog.Client, peopleCtrl *PeopleController, logger *logrus.Logger) *MediaController {
	return &MediaController{
		db:            db,
		catalogClient: catalogClient,
		peopleCtrl:    peopleCtrl,
		logger:        logger,
	}
}

// GetOrCreate returns the media item for a row's natural key. An existing
// item is returned unchanged; a new one is built from the row, enriched from
// the catalog when a match exists, and persisted with an insert that tolerates
// a concurrent resolution of the same key.
func (c *MediaController) GetOrCreate(ctx context.Context, row imdb.Row) (*models.MediaItem, error) {
	existing, err := c.db.GetMediaItemByIMDBID(row.Const)
	if err == nil {
		c.logger.WithField("imdb_id", row.Const).Debug("Media item already exists, reusing")
		return existing, nil
	}
	if !models.IsNotFound(err) {
		return nil, err
	}

	item := c.buildSkeleton(row)

	found, err := c.catalogClient.FindByIMDBID(ctx, row.Const)
	if err != nil {
		c.logger.WithError(err).WithField("imdb_id", row.Const).Warn("Catalog lookup failed, storing unenriched")
		found = nil
	}

	if found == nil {
		return c.db.UpsertMediaItem(item)
	}

	c.enrich(ctx, item, found)

	persisted, err := c.db.UpsertMediaItem(item)
	if err != nil {
		return nil, err
	}

	c.linkCredits(ctx, persisted, found.ID)

	return persisted, nil
}

// buildSkeleton maps a row's own fields onto a new media item
func (c *MediaController) buildSkeleton(row imdb.Row) *models.MediaItem {
	return &models.MediaItem{
		IMDBID:     row.Const,
		Title:      row.Title,
		Type:       inferMediaType(row.TitleType),
		Genres:     row.GenreList(),
		Year:       row.YearInt(),
		IMDBRating: row.Rating10(),
		Runtime:    row.Runtime(),
		LastSyncAt: time.Now(),
	}
}

// enrich fills catalog fields onto the skeleton. Each detail lookup is
// wrapped so one failure leaves the rest of the enrichment intact.
func (c *MediaController) enrich(ctx context.Context, item *models.MediaItem, found *catalog.FindResult) {
	if found.IsTVShow {
		item.Type = models.MediaTypeTV
	} else {
		item.Type = models.MediaTypeMovie
	}
	tmdbID := found.ID
	item.TMDBID = &tmdbID
	item.PosterPath = found.PosterPath

	if item.Type == models.MediaTypeMovie {
		details, err := c.catalogClient.GetMovieDetails(ctx, found.ID)
		if err != nil {
			c.logger.WithError(err).WithField("imdb_id", item.IMDBID).Error("Failed to get movie details")
			return
		}
		item.Countries = countryCodes(details.ProductionCountries)
		item.Companies = companyNames(details.ProductionCompanies)
		status := details.Status
		item.Status = &status
		return
	}

	details, err := c.catalogClient.GetTVShowDetails(ctx, found.ID)
	if err != nil {
		c.logger.WithError(err).WithField("imdb_id", item.IMDBID).Error("Failed to get tv show details")
		return
	}
	item.Countries = countryCodes(details.ProductionCountries)
	item.Companies = companyNames(details.ProductionCompanies)
	status := details.Status
	item.Status = &status
	seasons := details.NumberOfSeasons
	episodes := details.NumberOfEpisodes
	item.NumberOfSeasons = &seasons
	item.NumberOfEpisodes = &episodes
	item.NextEpisodeAirDate = parseAirDate(details.NextEpisodeToAir)
}

// linkCredits fetches credits and hands directors plus the top-billed cast to
// the person resolver. A credits failure degrades to an unlinked title.
func (c *MediaController) linkCredits(ctx context.Context, item *models.MediaItem, catalogID int64) {
	var credits *catalog.Credits
	var err error
	if item.Type == models.MediaTypeMovie {
		credits, err = c.catalogClient.GetMovieCredits(ctx, catalogID)
	} else {
		credits, err = c.catalogClient.GetTVShowCredits(ctx, catalogID)
	}
	if err != nil {
		c.logger.WithError(err).WithField("imdb_id", item.IMDBID).Error("Failed to get credits")
		return
	}

	c.peopleCtrl.LinkAll(ctx, item.ID, catalog.Directors(credits), models.RoleDirector)
	c.peopleCtrl.LinkAll(ctx, item.ID, catalog.TopActors(credits, topActorCount), models.RoleActor)
}

// inferMediaType guesses movie vs tv show from the export's free-text type
func inferMediaType(titleType string) models.MediaType {
	lower := strings.ToLower(titleType)
	if strings.Contains(lower, "tv") || strings.Contains(lower, "series") {
		return models.MediaTypeTV
	}
	return models.MediaTypeMovie
}

func countryCodes(countries []catalog.ProductionCountry) models.StringList {
	codes := make(models.StringList, 0, len(countries))
	for _, country := range countries {
		codes = append(codes, country.ISO31661)
	}
	return codes
}

func companyNames(companies []catalog.ProductionCompany) models.StringList {
	names := make(models.StringList, 0, len(companies))
	for _, company := range companies {
		names = append(names, company.Name)
	}
	return names
}

func parseAirDate(episode *catalog.Episode) *time.Time {
	if episode == nil || episode.AirDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", episode.AirDate)
	if err != nil {
		return nil
	}
	return &t
}
