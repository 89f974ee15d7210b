package models

import (
	"testing"
	"time"
)

// seedAnalyticsList builds one completed list with a small mixed catalog:
// two movies and one tv show, rated, with genres, countries and companies.
func seedAnalyticsList(t *testing.T, db *Database) string {
	t.Helper()

	matrix, err := db.UpsertMediaItem(&MediaItem{
		IMDBID:    "tt0133093",
		Title:     "The Matrix",
		Type:      MediaTypeMovie,
		Genres:    StringList{"Action", "Sci-Fi"},
		Year:      intPtr(1999),
		Runtime:   intPtr(136),
		Countries: StringList{"United States of America"},
		Companies: StringList{"Warner Bros. Pictures"},
	})
	if err != nil {
		t.Fatalf("Failed to seed matrix: %v", err)
	}

	heat, err := db.UpsertMediaItem(&MediaItem{
		IMDBID:    "tt0113277",
		Title:     "Heat",
		Type:      MediaTypeMovie,
		Genres:    StringList{"Action", "Crime"},
		Year:      intPtr(1995),
		Runtime:   intPtr(170),
		Countries: StringList{"United States of America"},
		Companies: StringList{"Warner Bros. Pictures", "Regency Enterprises"},
	})
	if err != nil {
		t.Fatalf("Failed to seed heat: %v", err)
	}

	bb, err := db.UpsertMediaItem(&MediaItem{
		IMDBID:           "tt0903747",
		Title:            "Breaking Bad",
		Type:             MediaTypeTV,
		Genres:           StringList{"Crime", "Drama"},
		Year:             intPtr(2008),
		Runtime:          intPtr(49),
		NumberOfEpisodes: intPtr(62),
		Countries:        StringList{"United States of America"},
		Companies:        StringList{"Sony Pictures Television"},
	})
	if err != nil {
		t.Fatalf("Failed to seed breaking bad: %v", err)
	}

	list := &List{ID: "l1", Name: "watched", FileID: "f1", UserID: "u1", Status: ListStatusCompleted}
	if err := db.CreateList(list); err != nil {
		t.Fatalf("Failed to seed list: %v", err)
	}

	items := []ListItem{
		{ListID: list.ID, MediaItemID: matrix.ID, UserRating: intPtr(9), Position: 0},
		{ListID: list.ID, MediaItemID: heat.ID, UserRating: intPtr(8), Position: 1},
		{ListID: list.ID, MediaItemID: bb.ID, UserRating: intPtr(9), Position: 2},
	}
	for i := range items {
		if err := db.CreateListItem(&items[i]); err != nil {
			t.Fatalf("Failed to seed list item: %v", err)
		}
	}

	return list.ID
}

func TestGenreCounts(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	counts, err := db.GenreCounts(listID)
	if err != nil {
		t.Fatalf("Failed to get genre counts: %v", err)
	}

	// Multi-genre titles count once per genre
	expected := map[string]int{"Action": 2, "Sci-Fi": 1, "Crime": 2, "Drama": 1}
	for genre, want := range expected {
		if counts[genre] != want {
			t.Errorf("Genre %s: expected %d, got %d", genre, want, counts[genre])
		}
	}
	if len(counts) != len(expected) {
		t.Errorf("Expected %d genres, got %v", len(expected), counts)
	}
}

func TestTypeAndYearCounts(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	types, err := db.TypeCounts(listID)
	if err != nil {
		t.Fatalf("Failed to get type counts: %v", err)
	}
	if types[MediaTypeMovie] != 2 || types[MediaTypeTV] != 1 {
		t.Errorf("Type counts mismatch: %v", types)
	}

	years, err := db.YearCounts(listID)
	if err != nil {
		t.Fatalf("Failed to get year counts: %v", err)
	}
	if years[1999] != 1 || years[1995] != 1 || years[2008] != 1 {
		t.Errorf("Year counts mismatch: %v", years)
	}
}

func TestRatingCounts(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	counts, err := db.RatingCounts(listID, RatingFilter{})
	if err != nil {
		t.Fatalf("Failed to get rating counts: %v", err)
	}
	if counts[9] != 2 || counts[8] != 1 {
		t.Errorf("Unfiltered rating counts mismatch: %v", counts)
	}

	// Genre filter narrows to titles carrying the genre
	counts, err = db.RatingCounts(listID, RatingFilter{Genre: "Sci-Fi"})
	if err != nil {
		t.Fatalf("Failed to get filtered rating counts: %v", err)
	}
	if counts[9] != 1 || len(counts) != 1 {
		t.Errorf("Genre-filtered rating counts mismatch: %v", counts)
	}

	counts, err = db.RatingCounts(listID, RatingFilter{Type: MediaTypeTV})
	if err != nil {
		t.Fatalf("Failed to get type-filtered rating counts: %v", err)
	}
	if counts[9] != 1 || len(counts) != 1 {
		t.Errorf("Type-filtered rating counts mismatch: %v", counts)
	}

	counts, err = db.RatingCounts(listID, RatingFilter{Year: intPtr(1995)})
	if err != nil {
		t.Fatalf("Failed to get year-filtered rating counts: %v", err)
	}
	if counts[8] != 1 || len(counts) != 1 {
		t.Errorf("Year-filtered rating counts mismatch: %v", counts)
	}
}

func TestRuntimeTotals(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	totals, err := db.GetRuntimeTotals(listID)
	if err != nil {
		t.Fatalf("Failed to get runtime totals: %v", err)
	}

	if totals.Total != 3 {
		t.Errorf("Expected 3 items, got %d", totals.Total)
	}
	if totals.MoviesRuntime != 136+170 {
		t.Errorf("Expected movie runtime 306, got %d", totals.MoviesRuntime)
	}
	// TV runtime is per-episode runtime times episode count
	if totals.TVShowsRuntime != 49*62 {
		t.Errorf("Expected tv runtime %d, got %d", 49*62, totals.TVShowsRuntime)
	}
	if totals.TotalRuntime != totals.MoviesRuntime+totals.TVShowsRuntime {
		t.Errorf("Total runtime does not add up: %+v", totals)
	}
}

func TestGetPersonStatsRanking(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	matrix, _ := db.GetMediaItemByIMDBID("tt0133093")
	heat, _ := db.GetMediaItemByIMDBID("tt0113277")

	// Pacino appears in one title, De Niro in two
	deniro, err := db.UpsertPerson(&Person{TMDBID: 380, Name: "Robert De Niro"})
	if err != nil {
		t.Fatalf("Failed to seed person: %v", err)
	}
	pacino, err := db.UpsertPerson(&Person{TMDBID: 1158, Name: "Al Pacino"})
	if err != nil {
		t.Fatalf("Failed to seed person: %v", err)
	}

	for _, link := range []struct {
		media uint
		pers  uint
	}{
		{heat.ID, deniro.ID},
		{matrix.ID, deniro.ID},
		{heat.ID, pacino.ID},
	} {
		if err := db.LinkMediaPerson(link.media, link.pers, RoleActor); err != nil {
			t.Fatalf("Failed to link person: %v", err)
		}
	}

	stats, total, err := db.GetPersonStats(listID, RoleActor, 10, 0)
	if err != nil {
		t.Fatalf("Failed to get person stats: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 actors, got %d", total)
	}
	if stats[0].Name != "Robert De Niro" || stats[0].ItemCount != 2 {
		t.Errorf("Expected De Niro first with 2 titles, got %+v", stats[0])
	}
	if stats[1].Name != "Al Pacino" || stats[1].ItemCount != 1 {
		t.Errorf("Expected Pacino second with 1 title, got %+v", stats[1])
	}

	// No directors were linked
	_, total, err = db.GetPersonStats(listID, RoleDirector, 10, 0)
	if err != nil {
		t.Fatalf("Failed to get director stats: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected no directors, got %d", total)
	}
}

func TestGetMediaEntriesOrder(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	entries, total, err := db.GetMediaEntries(listID, 10, 0)
	if err != nil {
		t.Fatalf("Failed to get media entries: %v", err)
	}
	if total != 3 || len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got total=%d len=%d", total, len(entries))
	}

	// Highest import position first
	if entries[0].Title != "Breaking Bad" || entries[2].Title != "The Matrix" {
		t.Errorf("Expected position-descending order, got %s ... %s", entries[0].Title, entries[2].Title)
	}

	// Pagination slices the same order
	page2, _, err := db.GetMediaEntries(listID, 2, 2)
	if err != nil {
		t.Fatalf("Failed to get second page: %v", err)
	}
	if len(page2) != 1 || page2[0].Title != "The Matrix" {
		t.Errorf("Second page mismatch: %+v", page2)
	}
}

func TestGetUpcomingTVShows(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	now := time.Now()
	soon := now.Add(30 * 24 * time.Hour)
	farOut := now.Add(400 * 24 * time.Hour)

	bb, _ := db.GetMediaItemByIMDBID("tt0903747")
	bb.NextEpisodeAirDate = timePtr(soon)
	if err := db.SaveMediaItem(bb); err != nil {
		t.Fatalf("Failed to set air date: %v", err)
	}

	// A show airing beyond the window must not appear
	severance, err := db.UpsertMediaItem(&MediaItem{
		IMDBID:             "tt11280740",
		Title:              "Severance",
		Type:               MediaTypeTV,
		NextEpisodeAirDate: timePtr(farOut),
	})
	if err != nil {
		t.Fatalf("Failed to seed severance: %v", err)
	}
	if err := db.CreateListItem(&ListItem{ListID: listID, MediaItemID: severance.ID, Position: 3}); err != nil {
		t.Fatalf("Failed to add severance to list: %v", err)
	}

	shows, total, err := db.GetUpcomingTVShows(listID, now, now.Add(365*24*time.Hour), 10, 0)
	if err != nil {
		t.Fatalf("Failed to get upcoming shows: %v", err)
	}
	if total != 1 || len(shows) != 1 {
		t.Fatalf("Expected 1 upcoming show, got total=%d len=%d", total, len(shows))
	}
	if shows[0].Title != "Breaking Bad" {
		t.Errorf("Expected Breaking Bad, got %s", shows[0].Title)
	}
}

func TestDistinctGenresAndYears(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	genres, err := db.GetDistinctGenres(listID)
	if err != nil {
		t.Fatalf("Failed to get distinct genres: %v", err)
	}
	expected := []string{"Action", "Crime", "Drama", "Sci-Fi"}
	if len(genres) != len(expected) {
		t.Fatalf("Expected %d genres, got %v", len(expected), genres)
	}
	for i, g := range expected {
		if genres[i] != g {
			t.Errorf("Expected genre %s at %d, got %s", g, i, genres[i])
		}
	}

	years, err := db.GetDistinctYears(listID)
	if err != nil {
		t.Fatalf("Failed to get distinct years: %v", err)
	}
	if len(years) != 3 || years[0] != 1995 || years[2] != 2008 {
		t.Errorf("Expected sorted years [1995 1999 2008], got %v", years)
	}
}

func TestCountryAndCompanyCounts(t *testing.T) {
	db := newTestDB(t)
	listID := seedAnalyticsList(t, db)

	countries, err := db.CountryCounts(listID)
	if err != nil {
		t.Fatalf("Failed to get country counts: %v", err)
	}
	if countries["United States of America"] != 3 {
		t.Errorf("Country counts mismatch: %v", countries)
	}

	companies, err := db.CompanyCounts(listID, 40)
	if err != nil {
		t.Fatalf("Failed to get company counts: %v", err)
	}
	if companies["Warner Bros. Pictures"] != 2 || companies["Regency Enterprises"] != 1 {
		t.Errorf("Company counts mismatch: %v", companies)
	}

	// The cap keeps only the most frequent companies
	capped, err := db.CompanyCounts(listID, 1)
	if err != nil {
		t.Fatalf("Failed to get capped company counts: %v", err)
	}
	if len(capped) != 1 || capped["Warner Bros. Pictures"] != 2 {
		t.Errorf("Expected cap to keep the top company, got %v", capped)
	}
}
