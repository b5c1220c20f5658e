package tvdb

import (
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/operations"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

// clientAdapter narrows the dashotv client to seriesAPI.
type clientAdapter struct {
	client *tvdbapi.Client
}

func (a *clientAdapter) SearchSeries(query string) ([]shared.SearchResult, error) {
	typeSeries := "series"
	resp, err := a.client.GetSearchResults(operations.GetSearchResultsRequest{
		Query: &query,
		Type:  &typeSeries,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Data, nil
}

func (a *clientAdapter) SeriesEpisodes(id int64, page int64) ([]shared.EpisodeBaseRecord, string, error) {
	resp, err := a.client.GetSeriesEpisodes(operations.GetSeriesEpisodesRequest{
		ID:         float64(id),
		SeasonType: "official",
		Page:       page,
	})
	if err != nil {
		return nil, "", err
	}
	if resp == nil || resp.Data == nil {
		return nil, "", nil
	}

	name := ""
	if resp.Data.Series != nil {
		name = pointerToString(resp.Data.Series.Name)
	}
	return resp.Data.Episodes, name, nil
}
