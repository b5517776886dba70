// README: Photo reference to direct URL resolution, with in-process and Redis caches.
package maps

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const defaultPhotoMaxWidth = 400

// PhotoResolver turns a photo reference into a direct image URL.
type PhotoResolver interface {
	ResolvePhotoURL(ctx context.Context, reference string) (string, error)
}

// HTTPPhotoResolver asks the photo endpoint for the image and returns the
// redirect target instead of downloading the bytes.
type HTTPPhotoResolver struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	maxWidth int
}

func NewHTTPPhotoResolver(opts Options) *HTTPPhotoResolver {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	c := &http.Client{Timeout: 10 * time.Second}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		c = &cp
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &HTTPPhotoResolver{client: c, baseURL: base, apiKey: opts.APIKey, maxWidth: defaultPhotoMaxWidth}
}

func (r *HTTPPhotoResolver) ResolvePhotoURL(ctx context.Context, reference string) (string, error) {
	q := url.Values{}
	q.Set("maxwidth", strconv.Itoa(r.maxWidth))
	q.Set("photo_reference", reference)
	q.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/maps/api/place/photo?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: photo: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if loc := resp.Header.Get("Location"); loc != "" {
			return loc, nil
		}
	}
	return "", fmt.Errorf("%w: photo: unexpected status %d", ErrUnavailable, resp.StatusCode)
}

// PhotoCache stores resolved URLs by reference.
type PhotoCache interface {
	Get(ctx context.Context, reference string) (string, bool)
	Set(ctx context.Context, reference, url string)
}

// CachedPhotoResolver consults cache before delegating to next.
type CachedPhotoResolver struct {
	next  PhotoResolver
	cache PhotoCache
}

func NewCachedPhotoResolver(next PhotoResolver, cache PhotoCache) *CachedPhotoResolver {
	return &CachedPhotoResolver{next: next, cache: cache}
}

func (c *CachedPhotoResolver) ResolvePhotoURL(ctx context.Context, reference string) (string, error) {
	if u, ok := c.cache.Get(ctx, reference); ok {
		return u, nil
	}
	u, err := c.next.ResolvePhotoURL(ctx, reference)
	if err != nil {
		return "", err
	}
	c.cache.Set(ctx, reference, u)
	return u, nil
}

type MemoryPhotoCache struct {
	c *cache.Cache
}

func NewMemoryPhotoCache(ttl time.Duration) *MemoryPhotoCache {
	return &MemoryPhotoCache{c: cache.New(ttl, 2*ttl)}
}

func (m *MemoryPhotoCache) Get(_ context.Context, reference string) (string, bool) {
	v, ok := m.c.Get(reference)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryPhotoCache) Set(_ context.Context, reference, url string) {
	m.c.Set(reference, url, cache.DefaultExpiration)
}

const photoKeyPrefix = "tripwise:photo:"

// RedisPhotoCache shares resolved URLs between instances. Redis errors are
// treated as misses.
type RedisPhotoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPhotoCache(rdb *redis.Client, ttl time.Duration) *RedisPhotoCache {
	return &RedisPhotoCache{rdb: rdb, ttl: ttl}
}

func (r *RedisPhotoCache) Get(ctx context.Context, reference string) (string, bool) {
	v, err := r.rdb.Get(ctx, photoKeyPrefix+reference).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (r *RedisPhotoCache) Set(ctx context.Context, reference, url string) {
	_ = r.rdb.Set(ctx, photoKeyPrefix+reference, url, r.ttl).Err()
}
