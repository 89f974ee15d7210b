package imdb

import (
	"strconv"
	"strings"
	"time"
)

// Row is one validated line of an exported watch-history CSV.
// All fields carry the raw cell text; typed accessors parse on demand
// with empty cells mapping to nil.
type Row struct {
	Const       string // natural key, e.g. "tt0133093"
	YourRating  string
	DateRated   string
	Title       string
	URL         string
	TitleType   string
	IMDBRating  string
	RuntimeMins string
	Year        string
	Genres      string
	NumVotes    string
	ReleaseDate string
	Directors   string
}

// Rating returns the personal rating as an int, or nil when unrated
func (r Row) Rating() *int {
	return parseInt(r.YourRating)
}

// RatedAt returns the personal rating date, or nil when absent or unparseable
func (r Row) RatedAt() *time.Time {
	if r.DateRated == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.DateRated)
	if err != nil {
		return nil
	}
	return &t
}

// YearInt returns the release year, or nil when absent
func (r Row) YearInt() *int {
	return parseInt(r.Year)
}

// Runtime returns the runtime in minutes, or nil when absent
func (r Row) Runtime() *int {
	return parseInt(r.RuntimeMins)
}

// Rating10 returns the external catalog rating, or nil when absent
func (r Row) Rating10() *float64 {
	if r.IMDBRating == "" {
		return nil
	}
	f, err := strconv.ParseFloat(r.IMDBRating, 64)
	if err != nil {
		return nil
	}
	return &f
}

// GenreList splits the delimited genre cell into trimmed names
func (r Row) GenreList() []string {
	if r.Genres == "" {
		return []string{}
	}
	parts := strings.Split(r.Genres, ",")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		if g := strings.TrimSpace(part); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
