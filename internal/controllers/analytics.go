package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"golistarr/internal/models"
)

// ErrStillProcessing is returned when analytics are requested on a list
// whose import has not finished yet
var ErrStillProcessing = errors.New("list is still processing, please try again later")

// ProcessingFailedError is returned when analytics are requested on a list
// whose import failed, echoing the stored reason
type ProcessingFailedError struct {
	Reason string
}

func (e *ProcessingFailedError) Error() string {
	return fmt.Sprintf("list processing failed: %s", e.Reason)
}

const (
	companyStatsLimit = 40
	upcomingWindow    = 365 * 24 * time.Hour
)

// AnalyticsController serves read-only aggregations over completed lists.
// Every call checks ownership and list status before touching the joins.
type AnalyticsController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewAnalyticsController creates a new analytics controller
func NewAnalyticsController(db *models.Database, logger *logrus.Logger) *AnalyticsController {
	return &AnalyticsController{db: db, logger: logger}
}

// ready re-fetches the list, checks ownership and requires COMPLETED status
func (c *AnalyticsController) ready(listID, userID string) error {
	list, err := c.db.GetListForUser(listID, userID)
	if err != nil {
		return err
	}

	switch list.Status {
	case models.ListStatusCompleted:
		return nil
	case models.ListStatusProcessing:
		return ErrStillProcessing
	default:
		reason := list.ErrorMessage
		if reason == "" {
			reason = "unknown error"
		}
		return &ProcessingFailedError{Reason: reason}
	}
}

// GenreStats returns the genre histogram; a multi-genre title counts once
// per genre
func (c *AnalyticsController) GenreStats(listID, userID string) (map[string]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.GenreCounts(listID)
}

// TypeStats returns the movie/tv histogram
func (c *AnalyticsController) TypeStats(listID, userID string) (map[models.MediaType]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.TypeCounts(listID)
}

// RatingStats returns the personal-rating histogram with all ten buckets
// present, zero-filled where no ratings exist
func (c *AnalyticsController) RatingStats(listID, userID string, filter models.RatingFilter) (map[int]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}

	counts, err := c.db.RatingCounts(listID, filter)
	if err != nil {
		return nil, err
	}

	stats := make(map[int]int, 10)
	for rating := 1; rating <= 10; rating++ {
		stats[rating] = counts[rating]
	}
	return stats, nil
}

// YearStats returns the release year histogram
func (c *AnalyticsController) YearStats(listID, userID string) (map[int]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.YearCounts(listID)
}

// CountryStats returns the production country histogram
func (c *AnalyticsController) CountryStats(listID, userID string) (map[string]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.CountryCounts(listID)
}

// CompanyStats returns the production company histogram, capped to the most
// frequent companies
func (c *AnalyticsController) CompanyStats(listID, userID string) (map[string]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.CompanyCounts(listID, companyStatsLimit)
}

// AmountStats returns item count and total runtime split by type
func (c *AnalyticsController) AmountStats(listID, userID string) (*models.RuntimeTotals, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.GetRuntimeTotals(listID)
}

// PersonStats returns the paginated person leaderboard for a role
func (c *AnalyticsController) PersonStats(listID, userID string, role models.PersonRole, page, limit int) (*Paged, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	stats, total, err := c.db.GetPersonStats(listID, role, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return newPaged(stats, page, limit, total), nil
}

// MediaItems returns the paginated title listing ordered by import position
// descending
func (c *AnalyticsController) MediaItems(listID, userID string, page, limit int) (*Paged, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	entries, total, err := c.db.GetMediaEntries(listID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return newPaged(entries, page, limit, total), nil
}

// UpcomingTVShows returns tv shows with an episode airing within the next
// year, soonest first
func (c *AnalyticsController) UpcomingTVShows(listID, userID string, page, limit int) (*Paged, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	now := time.Now()
	shows, total, err := c.db.GetUpcomingTVShows(listID, now, now.Add(upcomingWindow), limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return newPaged(shows, page, limit, total), nil
}

// Genres returns the distinct genres appearing in a list
func (c *AnalyticsController) Genres(listID, userID string) ([]string, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.GetDistinctGenres(listID)
}

// Years returns the distinct release years appearing in a list
func (c *AnalyticsController) Years(listID, userID string) ([]int, error) {
	if err := c.ready(listID, userID); err != nil {
		return nil, err
	}
	return c.db.GetDistinctYears(listID)
}
