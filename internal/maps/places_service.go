// README: Places lookup; text search, place details and photo URL resolution reshaped into trip.PlaceDetails.
package maps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"googlemaps.github.io/maps"

	"tripwise/internal/trip"
)

const (
	maxPhotos  = 3
	maxReviews = 3
)

var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMask("name"),
	maps.PlaceDetailsFieldMask("formatted_address"),
	maps.PlaceDetailsFieldMask("geometry"),
	maps.PlaceDetailsFieldMask("photos"),
	maps.PlaceDetailsFieldMask("website"),
	maps.PlaceDetailsFieldMask("rating"),
	maps.PlaceDetailsFieldMask("reviews"),
	maps.PlaceDetailsFieldMask("opening_hours"),
	maps.PlaceDetailsFieldMask("url"),
}

// PlacesConfig tunes outbound behaviour. Zero values fall back to defaults.
type PlacesConfig struct {
	Timeout          time.Duration
	QPS              float64
	PhotoConcurrency int
}

// PlacesService handles interactions with the Google Places API.
type PlacesService struct {
	client      *maps.Client
	photos      PhotoResolver
	limiter     *rate.Limiter
	timeout     time.Duration
	concurrency int
	log         *zap.Logger
}

// NewPlacesService creates a PlacesService. photos may be nil, in which case
// lookups return no photo URLs.
func NewPlacesService(opts Options, cfg PlacesConfig, photos PhotoResolver, log *zap.Logger) (*PlacesService, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.QPS <= 0 {
		cfg.QPS = 10
	}
	if cfg.PhotoConcurrency <= 0 {
		cfg.PhotoConcurrency = maxPhotos
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PlacesService{
		client:      client,
		photos:      photos,
		limiter:     rate.NewLimiter(rate.Limit(cfg.QPS), int(cfg.QPS)+1),
		timeout:     cfg.Timeout,
		concurrency: cfg.PhotoConcurrency,
		log:         log,
	}, nil
}

// Lookup runs text search, then details for the first hit, then photo
// resolution. Zero search results return ErrNotFound before any further call.
func (s *PlacesService) Lookup(ctx context.Context, q trip.PlaceQuery) (trip.PlaceDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	placeID, err := s.search(ctx, q)
	if err != nil {
		return trip.PlaceDetails{}, err
	}

	details, err := s.details(ctx, placeID)
	if err != nil {
		return trip.PlaceDetails{}, err
	}

	out := trip.PlaceDetails{
		Name:         details.Name,
		Address:      details.FormattedAddress,
		Rating:       details.Rating,
		Photos:       s.resolvePhotos(ctx, details.Photos),
		Website:      details.Website,
		OpeningHours: []string{},
		Reviews:      toReviews(details.Reviews),
		MapsURL:      MapsURL(placeID),
	}
	if details.OpeningHours != nil && details.OpeningHours.WeekdayText != nil {
		out.OpeningHours = details.OpeningHours.WeekdayText
	}
	return out, nil
}

func (s *PlacesService) search(ctx context.Context, q trip.PlaceQuery) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req := &maps.TextSearchRequest{Query: SearchQuery(q), Type: placeType(q.Category)}
	resp, err := s.client.TextSearch(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: text search: %v", ErrUnavailable, err)
	}
	if len(resp.Results) == 0 {
		return "", ErrNotFound
	}
	return resp.Results[0].PlaceID, nil
}

func (s *PlacesService) details(ctx context.Context, placeID string) (maps.PlaceDetailsResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return maps.PlaceDetailsResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID, Fields: detailFields})
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") || strings.Contains(err.Error(), "ZERO_RESULTS") {
			return res, ErrDetailsUnavailable
		}
		return res, fmt.Errorf("%w: place details: %v", ErrUnavailable, err)
	}
	if res.Name == "" && res.PlaceID == "" && res.FormattedAddress == "" {
		return res, ErrDetailsUnavailable
	}
	return res, nil
}

// resolvePhotos resolves up to maxPhotos references concurrently. Output
// keeps reference order; a failed reference is dropped.
func (s *PlacesService) resolvePhotos(ctx context.Context, photos []maps.Photo) []string {
	if s.photos == nil || len(photos) == 0 {
		return []string{}
	}
	if len(photos) > maxPhotos {
		photos = photos[:maxPhotos]
	}

	urls := make([]string, len(photos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, p := range photos {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				return nil
			}
			u, err := s.photos.ResolvePhotoURL(gctx, p.PhotoReference)
			if err != nil {
				s.log.Warn("photo resolution failed", zap.String("reference", p.PhotoReference), zap.Error(err))
				return nil
			}
			urls[i] = u
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// SearchQuery joins the non-empty name, city and country.
func SearchQuery(q trip.PlaceQuery) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{q.Name, q.City, q.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func placeType(category string) maps.PlaceType {
	switch strings.ToLower(category) {
	case trip.CategoryAccommodation:
		return maps.PlaceTypeLodging
	case trip.CategoryRestaurant:
		return maps.PlaceTypeRestaurant
	default:
		return ""
	}
}

func toReviews(in []maps.PlaceReview) []trip.Review {
	if len(in) > maxReviews {
		in = in[:maxReviews]
	}
	out := make([]trip.Review, 0, len(in))
	for _, r := range in {
		rev := trip.Review{Author: r.AuthorName, Rating: r.Rating, Text: r.Text}
		if r.Time > 0 {
			rev.Time = time.Unix(int64(r.Time), 0).UTC().Format("2006-01-02")
		}
		out = append(out, rev)
	}
	return out
}

// MapsURL is the deep link for a place id.
func MapsURL(placeID string) string {
	return "https://www.google.com/maps/place/?q=place_id:" + placeID
}
