package tmdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Digital-Shane/tvrename/internal/provider"
	"github.com/ryanbradynd05/go-tmdb"
)

// Lookup searches TMDB for show and collects the episodes of every season,
// specials included, with titles in the requested language.
func (p *Provider) Lookup(ctx context.Context, show, language string) (*provider.Series, error) {
	if p.client == nil {
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

	options := map[string]string{}
	if language != "" {
		options["language"] = language
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	results, err := p.client.SearchTv(query, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("no results found for show: %s", show),
			Retry:    false,
		}
	}

	// Take the first result
	showID := results.Results[0].ID

	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	info, err := p.client.GetTvInfo(showID, options)
	if err != nil {
		return nil, p.mapError(err)
	}
	if info == nil {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  fmt.Sprintf("show %d not found", showID),
			Retry:    false,
		}
	}

	var episodes []provider.Episode
	for season := 0; season <= info.NumberOfSeasons; season++ {
		if err := p.wait(ctx); err != nil {
			return nil, err
		}
		seasonInfo, err := p.client.GetTvSeasonInfo(showID, season, options)
		if err != nil {
			mapped := p.mapError(err)
			// Most shows have no specials season.
			if season == 0 && isNotFound(mapped) {
				continue
			}
			return nil, mapped
		}
		if seasonInfo == nil {
			continue
		}
		episodes = append(episodes, seasonEpisodes(seasonInfo)...)
	}
	sortEpisodes(episodes)

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = strings.TrimSpace(results.Results[0].Name)
	}
	if name == "" {
		name = query
	}

	return &provider.Series{Name: name, Episodes: episodes}, nil
}

func (p *Provider) wait(ctx context.Context) error {
	if p.rateLimiter == nil {
		return ctx.Err()
	}
	return p.rateLimiter.wait(ctx)
}

func seasonEpisodes(season *tmdb.TvSeason) []provider.Episode {
	out := make([]provider.Episode, 0, len(season.Episodes))
	for _, ep := range season.Episodes {
		title := strings.TrimSpace(ep.Name)
		if title == "" {
			continue
		}
		seasonNum := ep.SeasonNumber
		if seasonNum == 0 {
			seasonNum = season.SeasonNumber
		}
		out = append(out, provider.Episode{
			Title:  title,
			Season: seasonNum,
			Number: ep.EpisodeNumber,
		})
	}
	return out
}

func sortEpisodes(episodes []provider.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})
}

func isNotFound(err error) bool {
	var perr *provider.ProviderError
	return errors.As(err, &perr) && perr.Code == provider.CodeNotFound
}
