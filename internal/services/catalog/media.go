package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// FindByIMDBID resolves a natural key against the catalog. A missing entry is
// a valid nil result, not an error.
func (c *Client) FindByIMDBID(ctx context.Context, imdbID string) (*FindResult, error) {
	query := url.Values{}
	query.Set("external_source", "imdb_id")

	var response findResponse
	err := c.doRequest(ctx, "find", fmt.Sprintf("/find/%s", imdbID), query, &response)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find media by imdb id: %w", err)
	}

	if len(response.MovieResults) > 0 {
		entry := response.MovieResults[0]
		return &FindResult{ID: entry.ID, IsTVShow: false, PosterPath: entry.PosterPath}, nil
	}
	if len(response.TVResults) > 0 {
		entry := response.TVResults[0]
		return &FindResult{ID: entry.ID, IsTVShow: true, PosterPath: entry.PosterPath}, nil
	}

	return nil, nil
}

// GetMovieDetails retrieves movie enrichment fields
func (c *Client) GetMovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.doRequest(ctx, "movie_details", fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get movie details: %w", err)
	}
	return &details, nil
}

// GetTVShowDetails retrieves tv show enrichment fields
func (c *Client) GetTVShowDetails(ctx context.Context, id int64) (*TVShowDetails, error) {
	var details TVShowDetails
	if err := c.doRequest(ctx, "tv_details", fmt.Sprintf("/tv/%d", id), nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get tv show details: %w", err)
	}
	return &details, nil
}

// GetMovieCredits retrieves the cast and crew of a movie
func (c *Client) GetMovieCredits(ctx context.Context, id int64) (*Credits, error) {
	var credits Credits
	if err := c.doRequest(ctx, "movie_credits", fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get movie credits: %w", err)
	}
	return &credits, nil
}

// GetTVShowCredits retrieves the aggregated cast and crew of a tv show
func (c *Client) GetTVShowCredits(ctx context.Context, id int64) (*Credits, error) {
	var credits Credits
	if err := c.doRequest(ctx, "tv_credits", fmt.Sprintf("/tv/%d/aggregate_credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get tv show credits: %w", err)
	}
	return &credits, nil
}

// GetPerson retrieves a person's catalog record. Results are cached; the same
// actors recur across titles within one import.
func (c *Client) GetPerson(ctx context.Context, id int64) (*PersonDetails, error) {
	cacheKey := fmt.Sprintf("person:%d", id)
	if cached, ok := c.personCache.Get(cacheKey); ok {
		return cached.(*PersonDetails), nil
	}

	var person PersonDetails
	if err := c.doRequest(ctx, "person", fmt.Sprintf("/person/%d", id), nil, &person); err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	c.personCache.SetDefault(cacheKey, &person)
	return &person, nil
}
