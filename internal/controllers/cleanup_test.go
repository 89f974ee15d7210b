package controllers

import (
	"context"
	"testing"

	"golistarr/internal/models"
)

func TestRefreshActiveMediaUpdatesTVShow(t *testing.T) {
	env := newTestEnv(t)

	tmdbID := int64(1396)
	status := "Returning Series"
	episodes := 62
	item, err := env.db.UpsertMediaItem(&models.MediaItem{
		IMDBID:           "tt0903747",
		Title:            "Breaking Bad",
		Type:             models.MediaTypeTV,
		TMDBID:           &tmdbID,
		Status:           &status,
		NumberOfEpisodes: &episodes,
	})
	if err != nil {
		t.Fatalf("Failed to seed tv show: %v", err)
	}

	// Items with a terminal status are left alone
	ended := "Ended"
	if _, err := env.db.UpsertMediaItem(&models.MediaItem{
		IMDBID: "tt0306414",
		Title:  "The Wire",
		Type:   models.MediaTypeTV,
		Status: &ended,
	}); err != nil {
		t.Fatalf("Failed to seed ended show: %v", err)
	}

	if err := env.cleanupCtrl.RefreshActiveMedia(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	got, err := env.db.GetMediaItemByIMDBID("tt0903747")
	if err != nil {
		t.Fatalf("Failed to fetch refreshed item: %v", err)
	}
	if got.ID != item.ID {
		t.Fatalf("Refresh must update in place, got new row %d", got.ID)
	}
	if got.NumberOfEpisodes == nil || *got.NumberOfEpisodes != 63 {
		t.Errorf("Expected refreshed episode count 63, got %v", got.NumberOfEpisodes)
	}
	if got.NumberOfSeasons == nil || *got.NumberOfSeasons != 6 {
		t.Errorf("Expected refreshed season count 6, got %v", got.NumberOfSeasons)
	}
	if got.NextEpisodeAirDate == nil || got.NextEpisodeAirDate.Format("2006-01-02") != "2026-09-15" {
		t.Errorf("Expected refreshed air date, got %v", got.NextEpisodeAirDate)
	}
}

func TestSweepOrphans(t *testing.T) {
	env := newTestEnv(t)

	orphan, err := env.db.UpsertMediaItem(&models.MediaItem{IMDBID: "tt0000009", Title: "Orphan", Type: models.MediaTypeMovie})
	if err != nil {
		t.Fatalf("Failed to seed orphan: %v", err)
	}
	person, err := env.db.UpsertPerson(&models.Person{TMDBID: 42, Name: "Orphan Actor"})
	if err != nil {
		t.Fatalf("Failed to seed person: %v", err)
	}
	if err := env.db.LinkMediaPerson(orphan.ID, person.ID, models.RoleActor); err != nil {
		t.Fatalf("Failed to link person: %v", err)
	}

	kept, err := env.db.UpsertMediaItem(&models.MediaItem{IMDBID: "tt0000010", Title: "Kept", Type: models.MediaTypeMovie})
	if err != nil {
		t.Fatalf("Failed to seed kept item: %v", err)
	}
	if err := env.db.CreateList(&models.List{ID: "l1", Name: "l1", FileID: "f1", UserID: "u1", Status: models.ListStatusCompleted}); err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}
	if err := env.db.CreateListItem(&models.ListItem{ListID: "l1", MediaItemID: kept.ID}); err != nil {
		t.Fatalf("Failed to create list item: %v", err)
	}

	if err := env.cleanupCtrl.SweepOrphans(context.Background()); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if _, err := env.db.GetMediaItemByIMDBID("tt0000009"); !models.IsNotFound(err) {
		t.Errorf("Expected orphan media item gone, got %v", err)
	}
	if _, err := env.db.GetPersonByTMDBID(42); !models.IsNotFound(err) {
		t.Errorf("Expected orphan person gone, got %v", err)
	}
	if _, err := env.db.GetMediaItemByIMDBID("tt0000010"); err != nil {
		t.Errorf("Expected referenced item kept, got %v", err)
	}
}
