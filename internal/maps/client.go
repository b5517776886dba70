// README: Shared Google Maps client construction and place/route sentinels.
package maps

import (
	"errors"
	"fmt"
	"net/http"

	"googlemaps.github.io/maps"
)

var (
	ErrNotFound           = errors.New("place not found")
	ErrDetailsUnavailable = errors.New("place details unavailable")
	// ErrUnavailable covers transport failures and non-OK statuses from the maps API.
	ErrUnavailable = errors.New("maps service unavailable")
	ErrNoRoute     = errors.New("no route found")
)

// DefaultBaseURL is the Maps web service host. Tests point it at httptest.
const DefaultBaseURL = "https://maps.googleapis.com"

type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func newClient(opts Options) (*maps.Client, error) {
	clientOpts := []maps.ClientOption{maps.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(opts.HTTPClient))
	}
	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}
