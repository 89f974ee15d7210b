package models

import "time"

// Aggregation queries over a completed list's joined rows. Callers are
// expected to have checked ownership and list status first.

// PersonStat is one row of the person leaderboard
type PersonStat struct {
	TMDBID      int64   `gorm:"column:tmdb_id" json:"id"`
	Name        string  `json:"name"`
	ProfilePath *string `json:"profilePath"`
	ItemCount   int     `json:"itemCount"`
}

// MediaEntry is one row of the paginated title listing
type MediaEntry struct {
	TMDBID     *int64    `gorm:"column:tmdb_id" json:"id"`
	IMDBID     string    `gorm:"column:imdb_id" json:"imdbId"`
	Title      string    `json:"title"`
	PosterPath *string   `json:"posterPath"`
	Type       MediaType `json:"type"`
}

// UpcomingShow is one row of the upcoming tv show listing
type UpcomingShow struct {
	TMDBID             *int64     `gorm:"column:tmdb_id" json:"id"`
	Title              string     `json:"title"`
	PosterPath         *string    `json:"posterPath"`
	NextEpisodeAirDate *time.Time `json:"nextEpisodeAirDate"`
}

// RuntimeTotals sums watch time split by media type.
// TV show runtime counts per-episode runtime times episode count.
type RuntimeTotals struct {
	Total          int64 `json:"total"`
	MoviesRuntime  int64 `json:"totalMoviesRuntime"`
	TVShowsRuntime int64 `json:"totalTVShowsRuntime"`
	TotalRuntime   int64 `json:"totalRuntime"`
}

// RatingFilter narrows the rating histogram
type RatingFilter struct {
	Genre string
	Year  *int
	Type  MediaType
}

// GenreCounts returns the genre histogram for a list. A title with several
// genres contributes once per genre.
func (d *Database) GenreCounts(listID string) (map[string]int, error) {
	return d.countsByKey(`
		SELECT je.value AS key, COUNT(*) AS count
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		JOIN json_each(mi.genres) je
		WHERE li.list_id = ?
		GROUP BY je.value`, listID)
}

// CountryCounts returns the production country histogram for a list
func (d *Database) CountryCounts(listID string) (map[string]int, error) {
	return d.countsByKey(`
		SELECT je.value AS key, COUNT(*) AS count
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		JOIN json_each(mi.countries) je
		WHERE li.list_id = ?
		GROUP BY je.value`, listID)
}

// CompanyCounts returns the production company histogram for a list,
// capped to the most frequent companies
func (d *Database) CompanyCounts(listID string, limit int) (map[string]int, error) {
	return d.countsByKey(`
		SELECT je.value AS key, COUNT(*) AS count
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		JOIN json_each(mi.companies) je
		WHERE li.list_id = ?
		GROUP BY je.value
		ORDER BY count DESC
		LIMIT ?`, listID, limit)
}

// TypeCounts returns the movie/tv histogram for a list
func (d *Database) TypeCounts(listID string) (map[MediaType]int, error) {
	var rows []struct {
		Key   MediaType
		Count int
	}
	err := d.db.Raw(`
		SELECT mi.type AS key, COUNT(*) AS count
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ?
		GROUP BY mi.type`, listID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[MediaType]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// YearCounts returns the release year histogram for a list
func (d *Database) YearCounts(listID string) (map[int]int, error) {
	var rows []struct {
		Key   int
		Count int
	}
	err := d.db.Raw(`
		SELECT mi.year AS key, COUNT(*) AS count
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ? AND mi.year IS NOT NULL
		GROUP BY mi.year`, listID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// RatingCounts returns raw personal-rating counts for a list, optionally
// filtered. Zero-filling of the 1..10 range is done by the caller.
func (d *Database) RatingCounts(listID string, filter RatingFilter) (map[int]int, error) {
	query := d.db.Table("list_items li").
		Select("li.user_rating AS key, COUNT(*) AS count").
		Joins("JOIN media_items mi ON mi.id = li.media_item_id").
		Where("li.list_id = ? AND li.user_rating IS NOT NULL", listID).
		Group("li.user_rating")

	if filter.Genre != "" {
		query = query.Where("EXISTS (SELECT 1 FROM json_each(mi.genres) je WHERE je.value = ?)", filter.Genre)
	}
	if filter.Year != nil {
		query = query.Where("mi.year = ?", *filter.Year)
	}
	if filter.Type != "" {
		query = query.Where("mi.type = ?", filter.Type)
	}

	var rows []struct {
		Key   int
		Count int
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// GetRuntimeTotals sums runtimes for a list split by type
func (d *Database) GetRuntimeTotals(listID string) (*RuntimeTotals, error) {
	totals := &RuntimeTotals{}

	if err := d.db.Table("list_items").Where("list_id = ?", listID).Count(&totals.Total).Error; err != nil {
		return nil, err
	}

	err := d.db.Raw(`
		SELECT COALESCE(SUM(mi.runtime), 0)
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ? AND mi.type = ?`, listID, MediaTypeMovie).Scan(&totals.MoviesRuntime).Error
	if err != nil {
		return nil, err
	}

	err = d.db.Raw(`
		SELECT COALESCE(SUM(mi.runtime * mi.number_of_episodes), 0)
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ? AND mi.type = ?`, listID, MediaTypeTV).Scan(&totals.TVShowsRuntime).Error
	if err != nil {
		return nil, err
	}

	totals.TotalRuntime = totals.MoviesRuntime + totals.TVShowsRuntime
	return totals, nil
}

// GetPersonStats returns the paginated person leaderboard for a role,
// ranked by distinct-title count with name as the tiebreak
func (d *Database) GetPersonStats(listID string, role PersonRole, limit, offset int) ([]PersonStat, int64, error) {
	var total int64
	err := d.db.Raw(`
		SELECT COUNT(DISTINCT p.id)
		FROM media_people mp
		JOIN people p ON p.id = mp.person_id
		JOIN list_items li ON li.media_item_id = mp.media_item_id
		WHERE li.list_id = ? AND mp.role = ?`, listID, role).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var stats []PersonStat
	err = d.db.Raw(`
		SELECT p.tmdb_id AS tmdb_id, p.name AS name, p.profile_path AS profile_path,
			COUNT(DISTINCT mp.media_item_id) AS item_count
		FROM media_people mp
		JOIN people p ON p.id = mp.person_id
		JOIN list_items li ON li.media_item_id = mp.media_item_id
		WHERE li.list_id = ? AND mp.role = ?
		GROUP BY p.tmdb_id, p.name, p.profile_path
		ORDER BY item_count DESC, p.name ASC
		LIMIT ? OFFSET ?`, listID, role, limit, offset).Scan(&stats).Error
	return stats, total, err
}

// GetMediaEntries returns the paginated title listing ordered by import
// position, newest position first
func (d *Database) GetMediaEntries(listID string, limit, offset int) ([]MediaEntry, int64, error) {
	total, err := d.CountListItems(listID)
	if err != nil {
		return nil, 0, err
	}

	var entries []MediaEntry
	err = d.db.Raw(`
		SELECT mi.tmdb_id AS tmdb_id, mi.imdb_id AS imdb_id, mi.title AS title,
			mi.poster_path AS poster_path, mi.type AS type
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ?
		ORDER BY li.position DESC
		LIMIT ? OFFSET ?`, listID, limit, offset).Scan(&entries).Error
	return entries, total, err
}

// GetUpcomingTVShows returns tv shows with an episode airing within the
// given window, soonest first
func (d *Database) GetUpcomingTVShows(listID string, from, to time.Time, limit, offset int) ([]UpcomingShow, int64, error) {
	var total int64
	err := d.db.Raw(`
		SELECT COUNT(*)
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ? AND mi.type = ?
			AND mi.next_episode_air_date IS NOT NULL
			AND mi.next_episode_air_date BETWEEN ? AND ?`,
		listID, MediaTypeTV, from, to).Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var shows []UpcomingShow
	err = d.db.Raw(`
		SELECT mi.tmdb_id AS tmdb_id, mi.title AS title, mi.poster_path AS poster_path,
			mi.next_episode_air_date AS next_episode_air_date
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ? AND mi.type = ?
			AND mi.next_episode_air_date IS NOT NULL
			AND mi.next_episode_air_date BETWEEN ? AND ?
		ORDER BY mi.next_episode_air_date ASC
		LIMIT ? OFFSET ?`,
		listID, MediaTypeTV, from, to, limit, offset).Scan(&shows).Error
	return shows, total, err
}

// GetDistinctGenres returns the sorted distinct genres appearing in a list
func (d *Database) GetDistinctGenres(listID string) ([]string, error) {
	var genres []string
	err := d.db.Raw(`
		SELECT DISTINCT je.value
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		JOIN json_each(mi.genres) je
		WHERE li.list_id = ?
		ORDER BY je.value ASC`, listID).Scan(&genres).Error
	return genres, err
}

// GetDistinctYears returns the sorted distinct release years appearing in a list
func (d *Database) GetDistinctYears(listID string) ([]int, error) {
	var years []int
	err := d.db.Raw(`
		SELECT DISTINCT mi.year
		FROM list_items li
		JOIN media_items mi ON mi.id = li.media_item_id
		WHERE li.list_id = ? AND mi.year IS NOT NULL
		ORDER BY mi.year ASC`, listID).Scan(&years).Error
	return years, err
}

// countsByKey runs a key/count aggregation and folds it into a map
func (d *Database) countsByKey(query string, args ...interface{}) (map[string]int, error) {
	var rows []struct {
		Key   string
		Count int
	}
	if err := d.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
