package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/tvrename/internal/provider"
)

const providerName = "omdb"

// Provider implements provider.Provider for the Open Movie Database. Episode
// titles come from OMDb's per-season listings.
type Provider struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
}

// New creates a new OMDb provider instance.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Description returns a human readable description of the provider.
func (p *Provider) Description() string {
	return "Open Movie Database (OMDb) episode catalog"
}

// Capabilities reports that OMDb needs a key, only serves English titles and
// has no specials season.
func (p *Provider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{
		RequiresAuth: true,
		Localized:    false,
		Specials:     false,
	}
}

// Configure builds the OMDb client from the api_key entry. OMDb has no login
// step, so a bad key only surfaces on the first lookup.
func (p *Provider) Configure(config map[string]interface{}) error {
	apiKeyRaw, ok := config["api_key"].(string)
	if !ok {
		return fmt.Errorf("api_key is required")
	}

	apiKey := strings.TrimSpace(apiKeyRaw)
	if apiKey == "" {
		return fmt.Errorf("api_key is required")
	}

	// Tests install their own transport before configuring.
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	p.apiKey = apiKey
	p.client = omdb.NewClient(p.apiKey, p.httpClient)
	return nil
}

// mapError turns omdb client failures into provider errors. The client only
// reports OMDb's "Error" text, so the code is derived from that message.
func (p *Provider) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
			Retry:    false,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
			Retry:    false,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		// The free tier resets daily; retrying within a run will not help.
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeRateLimited,
			Message:  "OMDb request limit reached: " + msg,
			Retry:    false,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  "OMDb error: " + msg,
			Retry:    false,
		}
	}
}
