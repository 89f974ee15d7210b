package catalog

import "sort"

// FindResult is the outcome of resolving a natural key against the catalog
type FindResult struct {
	ID         int64
	IsTVShow   bool
	PosterPath *string
}

// MovieDetails carries the enrichment fields of a movie
type MovieDetails struct {
	ID                  int64               `json:"id"`
	Status              string              `json:"status"`
	Runtime             int                 `json:"runtime"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
}

// TVShowDetails carries the enrichment fields of a tv show
type TVShowDetails struct {
	ID                  int64               `json:"id"`
	Status              string              `json:"status"`
	NumberOfSeasons     int                 `json:"number_of_seasons"`
	NumberOfEpisodes    int                 `json:"number_of_episodes"`
	NextEpisodeToAir    *Episode            `json:"next_episode_to_air"`
	EpisodeRunTime      []int               `json:"episode_run_time"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
}

// Episode is a scheduled episode reference
type Episode struct {
	AirDate string `json:"air_date"` // YYYY-MM-DD
}

// ProductionCountry is an ISO country reference
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// ProductionCompany is a production company reference
type ProductionCompany struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Credits holds the cast and crew of one title
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one billed actor
type CastMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

// CrewMember is one crew credit
type CrewMember struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profile_path"`
	Job         string  `json:"job"`
}

// PersonDetails is a person's catalog record
type PersonDetails struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profile_path"`
	IMDBID      *string `json:"imdb_id"`
}

// PersonRef is the common shape handed to the person resolver for both
// cast and crew credits
type PersonRef struct {
	ID          int64
	Name        string
	ProfilePath *string
}

// Directors extracts the directing crew from credits
func Directors(credits *Credits) []PersonRef {
	if credits == nil {
		return nil
	}
	var refs []PersonRef
	for _, member := range credits.Crew {
		if member.Job == "Director" {
			refs = append(refs, PersonRef{ID: member.ID, Name: member.Name, ProfilePath: member.ProfilePath})
		}
	}
	return refs
}

// TopActors extracts up to limit cast members ordered by billing
func TopActors(credits *Credits, limit int) []PersonRef {
	if credits == nil || len(credits.Cast) == 0 {
		return nil
	}

	cast := make([]CastMember, len(credits.Cast))
	copy(cast, credits.Cast)
	sort.SliceStable(cast, func(i, j int) bool {
		return cast[i].Order < cast[j].Order
	})

	if limit > len(cast) {
		limit = len(cast)
	}
	refs := make([]PersonRef, 0, limit)
	for _, member := range cast[:limit] {
		refs = append(refs, PersonRef{ID: member.ID, Name: member.Name, ProfilePath: member.ProfilePath})
	}
	return refs
}

// findResponse is the wire shape of the natural-key lookup
type findResponse struct {
	MovieResults []findEntry `json:"movie_results"`
	TVResults    []findEntry `json:"tv_results"`
}

type findEntry struct {
	ID         int64   `json:"id"`
	PosterPath *string `json:"poster_path"`
}
