package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"golistarr/internal/controllers"
	"golistarr/internal/models"
)

// AnalyticsHandler serves the per-list aggregation endpoints
type AnalyticsHandler struct {
	analyticsCtrl *controllers.AnalyticsController
	logger        *logrus.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsCtrl *controllers.AnalyticsController, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsCtrl: analyticsCtrl, logger: logger}
}

// serve runs one aggregation behind the shared identity and error plumbing
func (h *AnalyticsHandler) serve(w http.ResponseWriter, r *http.Request, fn func(listID, user string) (interface{}, error)) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	result, err := fn(r.PathValue("id"), user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Genres handles GET /api/lists/{id}/analytics/genres
func (h *AnalyticsHandler) Genres(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.GenreStats(listID, user)
	})
}

// Types handles GET /api/lists/{id}/analytics/types
func (h *AnalyticsHandler) Types(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.TypeStats(listID, user)
	})
}

// Ratings handles GET /api/lists/{id}/analytics/ratings with optional
// genre, year and type filters
func (h *AnalyticsHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		filter := models.RatingFilter{
			Genre: r.URL.Query().Get("genre"),
			Type:  models.MediaType(r.URL.Query().Get("type")),
		}
		if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
			filter.Year = &y
		}
		return h.analyticsCtrl.RatingStats(listID, user, filter)
	})
}

// Years handles GET /api/lists/{id}/analytics/years
func (h *AnalyticsHandler) Years(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.YearStats(listID, user)
	})
}

// Countries handles GET /api/lists/{id}/analytics/countries
func (h *AnalyticsHandler) Countries(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.CountryStats(listID, user)
	})
}

// Companies handles GET /api/lists/{id}/analytics/companies
func (h *AnalyticsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.CompanyStats(listID, user)
	})
}

// Amount handles GET /api/lists/{id}/analytics/amount
func (h *AnalyticsHandler) Amount(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.AmountStats(listID, user)
	})
}

// Actors handles GET /api/lists/{id}/analytics/actors
func (h *AnalyticsHandler) Actors(w http.ResponseWriter, r *http.Request) {
	h.persons(w, r, models.RoleActor)
}

// Directors handles GET /api/lists/{id}/analytics/directors
func (h *AnalyticsHandler) Directors(w http.ResponseWriter, r *http.Request) {
	h.persons(w, r, models.RoleDirector)
}

func (h *AnalyticsHandler) persons(w http.ResponseWriter, r *http.Request, role models.PersonRole) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		page, limit := pageParams(r)
		return h.analyticsCtrl.PersonStats(listID, user, role, page, limit)
	})
}

// Media handles GET /api/lists/{id}/analytics/media
func (h *AnalyticsHandler) Media(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		page, limit := pageParams(r)
		return h.analyticsCtrl.MediaItems(listID, user, page, limit)
	})
}

// Upcoming handles GET /api/lists/{id}/analytics/upcoming
func (h *AnalyticsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		page, limit := pageParams(r)
		return h.analyticsCtrl.UpcomingTVShows(listID, user, page, limit)
	})
}

// GenreFilters handles GET /api/lists/{id}/analytics/filters/genres
func (h *AnalyticsHandler) GenreFilters(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.Genres(listID, user)
	})
}

// YearFilters handles GET /api/lists/{id}/analytics/filters/years
func (h *AnalyticsHandler) YearFilters(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(listID, user string) (interface{}, error) {
		return h.analyticsCtrl.Years(listID, user)
	})
}
