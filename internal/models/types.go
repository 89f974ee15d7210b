package models

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ListStatus represents the current processing status of a list import
type ListStatus string

const (
	ListStatusProcessing ListStatus = "processing"
	ListStatusCompleted  ListStatus = "completed"
	ListStatusFailed     ListStatus = "failed"
)

// PersonRole represents how a person is credited on a media item
type PersonRole string

const (
	RoleActor    PersonRole = "actor"
	RoleDirector PersonRole = "director"
)
