package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores a list of strings as a JSON text column.
// SQLite has no native array type, so genres/countries/companies are
// serialized and queried through json_each.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// MediaItem is a de-duplicated catalog entry for a movie or tv show.
// Rows are shared across all lists and users; the IMDB id is the natural key.
type MediaItem struct {
	ID     uint   `gorm:"primaryKey"`
	IMDBID string `gorm:"column:imdb_id;uniqueIndex;not null"`

	Title  string     `gorm:"not null"`
	Type   MediaType  `gorm:"index;not null"`
	Genres StringList `gorm:"type:text"`
	Year   *int       `gorm:"index"`

	IMDBRating *float64 `gorm:"column:imdb_rating"`
	Runtime    *int // minutes; per-episode for tv shows

	// Enrichment from the external catalog (nil when the item was never matched)
	TMDBID             *int64 `gorm:"column:tmdb_id;index"`
	PosterPath         *string
	Countries          StringList `gorm:"type:text"`
	Companies          StringList `gorm:"type:text"`
	Status             *string    // lifecycle text, e.g. "Returning Series", "Released"
	NumberOfSeasons    *int
	NumberOfEpisodes   *int
	NextEpisodeAirDate *time.Time

	LastSyncAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Person is a de-duplicated cast or crew member, keyed by catalog id.
type Person struct {
	ID     uint  `gorm:"primaryKey"`
	TMDBID int64 `gorm:"column:tmdb_id;uniqueIndex;not null"`

	Name        string `gorm:"not null"`
	ProfilePath *string
	IMDBID      *string `gorm:"column:imdb_id"` // cross-reference id, best-effort

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MediaPerson links a person to a media item under a role.
// The (media item, person, role) triple is unique.
type MediaPerson struct {
	ID          uint       `gorm:"primaryKey"`
	MediaItemID uint       `gorm:"index;uniqueIndex:idx_media_person_role;not null"`
	PersonID    uint       `gorm:"index;uniqueIndex:idx_media_person_role;not null"`
	Role        PersonRole `gorm:"uniqueIndex:idx_media_person_role;not null"`

	MediaItem MediaItem `gorm:"constraint:OnDelete:CASCADE"`
	Person    Person    `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}
