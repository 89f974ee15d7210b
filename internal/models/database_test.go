package models

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func intPtr(n int) *int              { return &n }
func timePtr(t time.Time) *time.Time { return &t }

func TestUpsertMediaItemDedup(t *testing.T) {
	db := newTestDB(t)

	first, err := db.UpsertMediaItem(&MediaItem{IMDBID: "tt0133093", Title: "The Matrix", Type: MediaTypeMovie})
	if err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	// Same natural key again, conflicting payload: the existing row wins
	second, err := db.UpsertMediaItem(&MediaItem{IMDBID: "tt0133093", Title: "Different Title", Type: MediaTypeTV})
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected same row id, got %d and %d", first.ID, second.ID)
	}
	if second.Title != "The Matrix" {
		t.Errorf("Expected existing row unchanged, got title %q", second.Title)
	}
}

func TestUpsertPersonDedup(t *testing.T) {
	db := newTestDB(t)

	first, err := db.UpsertPerson(&Person{TMDBID: 6384, Name: "Keanu Reeves"})
	if err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	second, err := db.UpsertPerson(&Person{TMDBID: 6384, Name: "Someone Else"})
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	if second.ID != first.ID || second.Name != "Keanu Reeves" {
		t.Errorf("Expected existing person row, got %+v", second)
	}
}

func TestLinkMediaPersonIdempotent(t *testing.T) {
	db := newTestDB(t)

	item, err := db.UpsertMediaItem(&MediaItem{IMDBID: "tt0133093", Title: "The Matrix", Type: MediaTypeMovie})
	if err != nil {
		t.Fatalf("Failed to create media item: %v", err)
	}
	person, err := db.UpsertPerson(&Person{TMDBID: 6384, Name: "Keanu Reeves"})
	if err != nil {
		t.Fatalf("Failed to create person: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := db.LinkMediaPerson(item.ID, person.ID, RoleActor); err != nil {
			t.Fatalf("Link attempt %d failed: %v", i, err)
		}
	}
	// Same pair under a different role is a distinct relation
	if err := db.LinkMediaPerson(item.ID, person.ID, RoleDirector); err != nil {
		t.Fatalf("Link with second role failed: %v", err)
	}

	list := &List{ID: "l1", Name: "test", FileID: "f1", UserID: "u1", Status: ListStatusCompleted}
	if err := db.CreateList(list); err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}
	if err := db.CreateListItem(&ListItem{ListID: list.ID, MediaItemID: item.ID}); err != nil {
		t.Fatalf("Failed to create list item: %v", err)
	}

	stats, total, err := db.GetPersonStats(list.ID, RoleActor, 10, 0)
	if err != nil {
		t.Fatalf("Failed to get person stats: %v", err)
	}
	if total != 1 || len(stats) != 1 || stats[0].ItemCount != 1 {
		t.Errorf("Expected one actor with one title, got total=%d stats=%+v", total, stats)
	}
}

func TestListStatusUpdate(t *testing.T) {
	db := newTestDB(t)

	list := &List{ID: "l1", Name: "my list", FileID: "f1", UserID: "u1", Status: ListStatusProcessing}
	if err := db.CreateList(list); err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}

	if err := db.SetListTotalItems(list.ID, 42); err != nil {
		t.Fatalf("Failed to set total items: %v", err)
	}
	if err := db.UpdateListStatus(list.ID, ListStatusFailed, "csv file is empty"); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	got, err := db.GetListByID(list.ID)
	if err != nil {
		t.Fatalf("Failed to fetch list: %v", err)
	}
	if got.TotalItems != 42 {
		t.Errorf("Expected total items 42, got %d", got.TotalItems)
	}
	if got.Status != ListStatusFailed || got.ErrorMessage != "csv file is empty" {
		t.Errorf("Expected failed status with message, got %s %q", got.Status, got.ErrorMessage)
	}

	// Completion clears any stale error message
	if err := db.UpdateListStatus(list.ID, ListStatusCompleted, ""); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}
	got, _ = db.GetListByID(list.ID)
	if got.Status != ListStatusCompleted || got.ErrorMessage != "" {
		t.Errorf("Expected completed with empty message, got %s %q", got.Status, got.ErrorMessage)
	}
}

func TestGetListForUserScoping(t *testing.T) {
	db := newTestDB(t)

	list := &List{ID: "l1", Name: "mine", FileID: "f1", UserID: "u1", Status: ListStatusProcessing}
	if err := db.CreateList(list); err != nil {
		t.Fatalf("Failed to create list: %v", err)
	}

	if _, err := db.GetListForUser("l1", "u1"); err != nil {
		t.Errorf("Owner lookup failed: %v", err)
	}
	_, err := db.GetListForUser("l1", "u2")
	if !IsNotFound(err) {
		t.Errorf("Expected not-found for other user, got %v", err)
	}
}

func TestGetListsFilterAndOrder(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"watched 2023", "watched 2024", "favorites"} {
		list := &List{
			ID:        name,
			Name:      name,
			FileID:    "f1",
			UserID:    "u1",
			Status:    ListStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.CreateList(list); err != nil {
			t.Fatalf("Failed to create list %s: %v", name, err)
		}
	}

	lists, total, err := db.GetLists("u1", "", 10, 0)
	if err != nil {
		t.Fatalf("Failed to get lists: %v", err)
	}
	if total != 3 || len(lists) != 3 {
		t.Fatalf("Expected 3 lists, got total=%d len=%d", total, len(lists))
	}
	if lists[0].Name != "favorites" {
		t.Errorf("Expected newest first, got %s", lists[0].Name)
	}

	lists, total, err = db.GetLists("u1", "watched", 10, 0)
	if err != nil {
		t.Fatalf("Failed to get filtered lists: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 name-filtered lists, got %d", total)
	}

	_, total, err = db.GetLists("u2", "", 10, 0)
	if err != nil {
		t.Fatalf("Failed to get lists for other user: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected no lists for other user, got %d", total)
	}
}

func TestDeleteListKeepsSharedRows(t *testing.T) {
	db := newTestDB(t)

	item, err := db.UpsertMediaItem(&MediaItem{IMDBID: "tt0133093", Title: "The Matrix", Type: MediaTypeMovie})
	if err != nil {
		t.Fatalf("Failed to create media item: %v", err)
	}
	person, err := db.UpsertPerson(&Person{TMDBID: 6384, Name: "Keanu Reeves"})
	if err != nil {
		t.Fatalf("Failed to create person: %v", err)
	}
	if err := db.LinkMediaPerson(item.ID, person.ID, RoleActor); err != nil {
		t.Fatalf("Failed to link person: %v", err)
	}

	for _, id := range []string{"l1", "l2"} {
		if err := db.CreateList(&List{ID: id, Name: id, FileID: "f-" + id, UserID: "u1", Status: ListStatusCompleted}); err != nil {
			t.Fatalf("Failed to create list %s: %v", id, err)
		}
		if err := db.CreateListItem(&ListItem{ListID: id, MediaItemID: item.ID}); err != nil {
			t.Fatalf("Failed to create list item for %s: %v", id, err)
		}
	}

	if err := db.DeleteList("l1"); err != nil {
		t.Fatalf("Failed to delete list: %v", err)
	}

	if count, _ := db.CountListItems("l1"); count != 0 {
		t.Errorf("Expected deleted list's items gone, got %d", count)
	}
	if _, err := db.GetMediaItemByIMDBID("tt0133093"); err != nil {
		t.Errorf("Expected shared media item to survive list deletion: %v", err)
	}

	// Still referenced by l2, the sweep must not touch it
	deleted, err := db.DeleteOrphanMediaItems()
	if err != nil {
		t.Fatalf("Orphan sweep failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected no orphans while l2 references the item, deleted %d", deleted)
	}

	if err := db.DeleteList("l2"); err != nil {
		t.Fatalf("Failed to delete second list: %v", err)
	}
	deleted, err = db.DeleteOrphanMediaItems()
	if err != nil {
		t.Fatalf("Orphan sweep failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 orphaned media item deleted, got %d", deleted)
	}

	// Deleting the media item dropped its person links, so the person is
	// orphaned now too
	personsDeleted, err := db.DeleteOrphanPersons()
	if err != nil {
		t.Fatalf("Person sweep failed: %v", err)
	}
	if personsDeleted != 1 {
		t.Errorf("Expected 1 orphaned person deleted, got %d", personsDeleted)
	}
	if _, err := db.GetPersonByTMDBID(6384); !IsNotFound(err) {
		t.Errorf("Expected person gone after sweep, got %v", err)
	}
}
