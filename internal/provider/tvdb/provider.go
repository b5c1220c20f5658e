package tvdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Digital-Shane/tvrename/internal/provider"
	tvdbapi "github.com/dashotv/tvdb"
	"github.com/dashotv/tvdb/openapi/models/shared"
)

const (
	providerName = "tvdb"

	// TVDB pages series episodes in blocks of this size.
	episodePageSize = 500
	maxEpisodePages = 40
)

// seriesAPI is the slice of TheTVDB v4 API the catalog needs.
type seriesAPI interface {
	SearchSeries(query string) ([]shared.SearchResult, error)
	SeriesEpisodes(id int64, page int64) (episodes []shared.EpisodeBaseRecord, seriesName string, err error)
}

// loginFunc authenticates against TVDB; replaced in tests.
var loginFunc = func(apiKey string) (seriesAPI, error) {
	client, err := tvdbapi.Login(apiKey)
	if err != nil {
		return nil, err
	}
	return &clientAdapter{client: client}, nil
}

// Provider implements provider.Provider for TheTVDB.
type Provider struct {
	api    seriesAPI
	apiKey string
}

// New creates a new TVDB provider instance.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "TheTVDB (TVDB) episode catalog"
}

// Capabilities reports that TVDB needs a key and serves titles in the
// series' official translation regardless of the requested language.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		RequiresAuth: true,
		Localized:    false,
		Specials:     true,
	}
}

// Configure logs in with the api_key entry. Authentication failures surface
// here so a bad credential stops the run before any file is touched.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	api, err := loginFunc(apiKey)
	if err != nil {
		return mapError(err)
	}

	p.apiKey = apiKey
	p.api = api
	return nil
}

// Lookup finds the series and returns every aired episode in (season, number)
// order. TVDB serves episode names in the series' official translation; the
// language argument is not forwarded.
func (p *Provider) Lookup(ctx context.Context, show, language string) (*provider.Series, error) {
	if p.api == nil || p.apiKey == "" {
		return nil, fmt.Errorf("provider not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := p.searchSeriesRecord(show)
	if err != nil {
		return nil, err
	}

	var (
		records    []shared.EpisodeBaseRecord
		seriesName string
	)
	for page := int64(0); page < maxEpisodePages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, name, err := p.api.SeriesEpisodes(record.ID, page)
		if err != nil {
			return nil, mapError(err)
		}
		if seriesName == "" {
			seriesName = name
		}
		records = append(records, batch...)
		if len(batch) < episodePageSize {
			break
		}
	}

	return &provider.Series{
		Name:     firstNonEmptyString(seriesName, record.Name, show),
		Episodes: toEpisodes(records),
	}, nil
}

type searchRecord struct {
	ID   int64
	Name string
}

func (p *Provider) searchSeriesRecord(show string) (*searchRecord, error) {
	query := strings.TrimSpace(show)
	if query == "" {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeInvalid, Message: "series lookup requires a title", Retry: false}
	}

	results, err := p.api.SearchSeries(query)
	if err != nil {
		return nil, mapError(err)
	}
	if len(results) == 0 {
		return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: fmt.Sprintf("no results found for show: %s", show), Retry: false}
	}

	for _, candidate := range results {
		r := toSearchRecord(candidate)
		if r.ID == 0 {
			continue
		}
		if typ := pointerToString(candidate.Type); typ == "" || strings.EqualFold(typ, "series") {
			return r, nil
		}
	}

	return nil, &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: fmt.Sprintf("series not found: %s", show), Retry: false}
}

// toEpisodes drops nameless entries and orders the rest by season and number.
// The sort is stable so equal positions keep the API's order.
func toEpisodes(records []shared.EpisodeBaseRecord) []provider.Episode {
	episodes := make([]provider.Episode, 0, len(records))
	for _, r := range records {
		name := pointerToString(r.Name)
		if name == "" {
			continue
		}
		episodes = append(episodes, provider.Episode{
			Title:  name,
			Season: int(pointerToInt64(r.SeasonNumber)),
			Number: int(pointerToInt64(r.Number)),
		})
	}
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})
	return episodes
}

func toSearchRecord(result shared.SearchResult) *searchRecord {
	id := parseInt64(pointerToString(result.TvdbID))
	if id == 0 {
		id = parseInt64(strings.TrimPrefix(pointerToString(result.ID), "series-"))
	}

	name := firstNonEmptyString(pointerToString(result.Name), pointerToString(result.NameTranslated), pointerToString(result.Title))
	return &searchRecord{ID: id, Name: name}
}

func pointerToString(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func pointerToInt64(value *int64) int64 {
	if value == nil {
		return 0
	}
	return *value
}

func parseInt64(value string) int64 {
	parsed, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return parsed
}

func firstNonEmptyString(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "401"), strings.Contains(lower, "unauthorized"), strings.Contains(lower, "apikey"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeAuthFailed, Message: "TVDB authentication failed: " + msg, Retry: false}
	case strings.Contains(lower, "429"), strings.Contains(lower, "too many"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeRateLimited, Message: msg, Retry: true, RetryAfter: 5}
	case strings.Contains(lower, "404"), strings.Contains(lower, "not found"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeNotFound, Message: msg, Retry: false}
	case strings.Contains(lower, "503"), strings.Contains(lower, "unavailable"):
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeUnavailable, Message: msg, Retry: true, RetryAfter: 30}
	default:
		return &provider.ProviderError{Provider: providerName, Code: provider.CodeUnknown, Message: msg, Retry: false}
	}
}
