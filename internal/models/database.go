package models

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm connection
type Database struct {
	db *gorm.DB
}

// NewDatabase opens the sqlite database and migrates the schema
func NewDatabase(path string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&File{}, &List{}, &MediaItem{}, &Person{}, &ListItem{}, &MediaPerson{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the underlying connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsNotFound reports whether err is a record-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// File operations

// CreateFile creates a file metadata record
func (d *Database) CreateFile(file *File) error {
	return d.db.Create(file).Error
}

// GetFileByID retrieves a file record by id
func (d *Database) GetFileByID(id string) (*File, error) {
	var file File
	if err := d.db.First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile deletes a file metadata record
func (d *Database) DeleteFile(id string) error {
	return d.db.Delete(&File{}, "id = ?", id).Error
}

// List operations

// CreateList creates a new list
func (d *Database) CreateList(list *List) error {
	return d.db.Create(list).Error
}

// GetListByID retrieves a list by id regardless of owner
func (d *Database) GetListByID(id string) (*List, error) {
	var list List
	if err := d.db.First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// GetListForUser retrieves a list by id scoped to its owner
func (d *Database) GetListForUser(id, userID string) (*List, error) {
	var list List
	if err := d.db.First(&list, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// GetLists retrieves a user's lists, newest first, optionally filtered by name
func (d *Database) GetLists(userID, name string, limit, offset int) ([]List, int64, error) {
	query := d.db.Model(&List{}).Where("user_id = ?", userID)
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lists []List
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&lists).Error
	return lists, total, err
}

// SetListTotalItems records the validated row count for a list
func (d *Database) SetListTotalItems(id string, total int) error {
	return d.db.Model(&List{}).Where("id = ?", id).Update("total_items", total).Error
}

// UpdateListStatus transitions a list to a terminal status. The update targets
// the row directly so it applies even when the in-memory list is stale.
func (d *Database) UpdateListStatus(id string, status ListStatus, errorMessage string) error {
	return d.db.Model(&List{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
	}).Error
}

// DeleteList deletes a list and its items. Shared media items and persons
// stay behind for the orphan sweep.
func (d *Database) DeleteList(id string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ListItem{}, "list_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&List{}, "id = ?", id).Error
	})
}

// MediaItem operations

// GetMediaItemByIMDBID retrieves a media item by its natural key
func (d *Database) GetMediaItemByIMDBID(imdbID string) (*MediaItem, error) {
	var item MediaItem
	if err := d.db.First(&item, "imdb_id = ?", imdbID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertMediaItem inserts a media item, ignoring a concurrent insert of the
// same natural key, and returns the persisted row either way.
func (d *Database) UpsertMediaItem(item *MediaItem) (*MediaItem, error) {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "imdb_id"}},
		DoNothing: true,
	}).Create(item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to insert media item: %w", err)
	}
	return d.GetMediaItemByIMDBID(item.IMDBID)
}

// SaveMediaItem persists updated enrichment fields
func (d *Database) SaveMediaItem(item *MediaItem) error {
	return d.db.Save(item).Error
}

// GetActiveMedia retrieves a batch of media items of the given type whose
// lifecycle status is in statuses
func (d *Database) GetActiveMedia(mediaType MediaType, statuses []string, limit, offset int) ([]MediaItem, error) {
	var items []MediaItem
	err := d.db.Where("type = ? AND status IN ?", mediaType, statuses).
		Order("id").Limit(limit).Offset(offset).Find(&items).Error
	return items, err
}

// DeleteOrphanMediaItems deletes media items no list references, along with
// their person links so the person sweep sees them as unreferenced
func (d *Database) DeleteOrphanMediaItems() (int64, error) {
	var deleted int64
	err := d.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`DELETE FROM media_items WHERE id NOT IN (SELECT DISTINCT media_item_id FROM list_items)`)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Exec(`DELETE FROM media_people WHERE media_item_id NOT IN (SELECT id FROM media_items)`).Error
	})
	return deleted, err
}

// Person operations

// GetPersonByTMDBID retrieves a person by catalog id
func (d *Database) GetPersonByTMDBID(tmdbID int64) (*Person, error) {
	var person Person
	if err := d.db.First(&person, "tmdb_id = ?", tmdbID).Error; err != nil {
		return nil, err
	}
	return &person, nil
}

// UpsertPerson inserts a person, ignoring a concurrent insert of the same
// catalog id, and returns the persisted row either way.
func (d *Database) UpsertPerson(person *Person) (*Person, error) {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoNothing: true,
	}).Create(person).Error
	if err != nil {
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}
	return d.GetPersonByTMDBID(person.TMDBID)
}

// DeleteOrphanPersons deletes persons no media item references
func (d *Database) DeleteOrphanPersons() (int64, error) {
	res := d.db.Exec(`DELETE FROM people WHERE id NOT IN (SELECT DISTINCT person_id FROM media_people)`)
	return res.RowsAffected, res.Error
}

// MediaPerson operations

// LinkMediaPerson creates the (media item, person, role) relation if absent
func (d *Database) LinkMediaPerson(mediaItemID, personID uint, role PersonRole) error {
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&MediaPerson{
		MediaItemID: mediaItemID,
		PersonID:    personID,
		Role:        role,
	}).Error
}

// ListItem operations

// CreateListItem creates one list entry for a resolved media item
func (d *Database) CreateListItem(item *ListItem) error {
	return d.db.Create(item).Error
}

// CountListItems counts the linked items of a list
func (d *Database) CountListItems(listID string) (int64, error) {
	var count int64
	err := d.db.Model(&ListItem{}).Where("list_id = ?", listID).Count(&count).Error
	return count, err
}
