package models

import "time"

// List is one user-owned import job over an uploaded watch-history file.
type List struct {
	ID     string `gorm:"primaryKey"` // uuid
	Name   string `gorm:"not null"`
	FileID string `gorm:"not null"`
	UserID string `gorm:"index;not null"`

	TotalItems   int        `gorm:"default:0"` // validated row count, set before item resolution
	Status       ListStatus `gorm:"not null;default:processing"`
	ErrorMessage string

	Items []ListItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListItem is one user's inclusion of a media item in a list.
// The (list, media item) pair is unique; Position preserves the original
// row order of the uploaded file regardless of resolution concurrency.
type ListItem struct {
	ID          uint   `gorm:"primaryKey"`
	ListID      string `gorm:"index;uniqueIndex:idx_list_media;not null"`
	MediaItemID uint   `gorm:"index;uniqueIndex:idx_list_media;not null"`

	UserRating *int
	DateRated  *time.Time
	Position   int `gorm:"default:0"`

	MediaItem MediaItem `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

// File is the metadata record for an uploaded blob.
type File struct {
	ID     string `gorm:"primaryKey"` // uuid
	UserID string `gorm:"index;not null"`
	Name   string `gorm:"not null"`
	Size   int64

	CreatedAt time.Time
}
