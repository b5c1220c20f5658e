package provider

import (
	"context"
	"fmt"
)

// Provider is the interface every episode catalog backend implements.
type Provider interface {
	// Identification
	Name() string
	Description() string
	Capabilities() ProviderCapabilities

	// Configuration
	Configure(config map[string]interface{}) error

	// Lookup resolves a show guess to its canonical name and full episode list.
	// It is called once per show and must not be retried by the caller.
	Lookup(ctx context.Context, show, language string) (*Series, error)
}

// Episode is one canonical catalog entry. Values are never modified after a
// provider returns them.
type Episode struct {
	Title  string
	Season int
	Number int
}

// Code returns the SxxEyy form of the episode position.
func (e Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.Number)
}

// Series is the result of a single catalog query.
type Series struct {
	Name     string
	Episodes []Episode
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Message
}

// Error codes shared by all providers.
const (
	CodeAuthFailed  = "AUTH_FAILED"
	CodeNotFound    = "NOT_FOUND"
	CodeRateLimited = "RATE_LIMITED"
	CodeUnavailable = "UNAVAILABLE"
	CodeInvalid     = "INVALID_REQUEST"
	CodeUnknown     = "UNKNOWN"
)
