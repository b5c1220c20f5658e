package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/tvrename/internal/provider"
)

// Lookup resolves show to an OMDb series and collects the episodes of every
// numbered season. OMDb has no localized titles, so language is unused.
func (p *Provider) Lookup(ctx context.Context, show, language string) (*provider.Series, error) {
	if p.client == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}

	query := strings.TrimSpace(show)
	if query == "" {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalid,
			Message:  "series lookup requires a title",
			Retry:    false,
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := p.searchSeries(query)
	if err != nil {
		return nil, err
	}

	seasons, _ := strconv.Atoi(strings.TrimSpace(series.TotalSeasons))

	var episodes []provider.Episode
	for season := 1; season <= seasons; season++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := p.seasonEpisodes(series.ImdbID, query, season)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		episodes = append(episodes, batch...)
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})

	name := strings.TrimSpace(series.Title)
	if name == "" {
		name = query
	}
	return &provider.Series{Name: name, Episodes: episodes}, nil
}

func (p *Provider) searchSeries(title string) (*omdb.SeriesResult, error) {
	result, err := p.client.SearchByTitle(omdb.QueryData{
		Title:      title,
		SearchType: "series",
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	switch series := result.(type) {
	case omdb.SeriesResult:
		return &series, nil
	case *omdb.SeriesResult:
		return series, nil
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("no results found for show: %s", title),
			Retry:    false,
		}
	}
}

func (p *Provider) seasonEpisodes(imdbID, title string, season int) ([]provider.Episode, error) {
	query := omdb.QueryData{
		Title:  title,
		Season: strconv.Itoa(season),
	}

	var result any
	var err error
	if imdbID != "" {
		query.ImdbID = imdbID
		result, err = p.client.SearchByImdbID(query)
	} else {
		result, err = p.client.SearchByTitle(query)
	}
	if err != nil {
		return nil, p.mapError(err)
	}

	var resp *omdb.SeasonResult
	switch s := result.(type) {
	case omdb.SeasonResult:
		resp = &s
	case *omdb.SeasonResult:
		resp = s
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("season %d not found", season),
			Retry:    false,
		}
	}

	return toEpisodes(resp.Episodes, season)
}

// seasonEntry holds the fields of an OMDb season listing row that matter for
// renaming. OMDb reports numbers as strings.
type seasonEntry struct {
	Title   string `json:"Title"`
	Episode string `json:"Episode"`
}

// toEpisodes reads the season listing through its JSON form so only the wire
// field names are relied on.
func toEpisodes(listing any, season int) ([]provider.Episode, error) {
	raw, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("encode season %d listing: %w", season, err)
	}
	var entries []seasonEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode season %d listing: %w", season, err)
	}

	out := make([]provider.Episode, 0, len(entries))
	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" || title == "N/A" {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(e.Episode))
		if err != nil {
			continue
		}
		out = append(out, provider.Episode{Title: title, Season: season, Number: number})
	}
	return out, nil
}

func isNotFound(err error) bool {
	var perr *provider.ProviderError
	return errors.As(err, &perr) && perr.Code == provider.CodeNotFound
}
