// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

/*
Package vimeo implements a thin typed client for the six read-only Vimeo
API endpoints the provider consumes.

Request contract (all operations):
  - Authentication: Authorization: Bearer <token> on every request
  - Field projection: an endpoint-specific default "fields" parameter,
    merged with caller query parameters (caller wins on conflict)
  - 404 responses resolve to a nil result, not an error
  - 429 responses arm a cooldown window; calls inside the window fail
    fast with CodeBlocked without touching the network
  - Response bodies must be JSON with a Vimeo JSON content type

The cooldown is an explicit two-state machine (open / blocked-until-T)
driven by an injected clock, so tests never need real timers. A 429
observed while already blocked restarts the window: the latest deadline
wins.
*/
package vimeo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/vimeo-provider/internal/logging"
	"github.com/tomtom215/vimeo-provider/internal/metrics"
)

const (
	// DefaultAPIBaseURL is the primary REST API host.
	DefaultAPIBaseURL = "https://api.vimeo.com"

	// DefaultPlayerBaseURL hosts the secondary video config resource.
	DefaultPlayerBaseURL = "https://player.vimeo.com"

	// DefaultCooldownWindow is how long the client refuses requests after
	// an upstream HTTP 429.
	DefaultCooldownWindow = 20 * time.Minute

	// DefaultAlbumFields is the projection requested for album resources.
	DefaultAlbumFields = "uri,name,description,pictures,metadata.connections.videos.total"

	// DefaultVideoFields is the projection requested for video resources.
	DefaultVideoFields = "uri,name,description,duration,release_time,pictures,files"
)

// contentTypeRE accepts the Vimeo JSON content type family, including
// vendor-specific subtypes like application/vnd.vimeo.album+json.
var contentTypeRE = regexp.MustCompile(`^application/(vnd\.vimeo\.\w+\+)?json`)

// API is the client surface consumed by the orchestrators. Both Client and
// CircuitBreakerClient implement it.
type API interface {
	ListAlbums(ctx context.Context, args Args) (*AlbumList, error)
	GetAlbum(ctx context.Context, args Args) (*Album, error)
	ListVideosInAlbum(ctx context.Context, args Args) (*VideoList, error)
	ListVideos(ctx context.Context, args Args) (*VideoList, error)
	GetVideo(ctx context.Context, args Args) (*Video, error)
	GetVideoConfig(ctx context.Context, args Args) (*VideoConfig, error)
}

var _ API = (*Client)(nil)

// Args carries per-call parameters.
type Args struct {
	// AlbumURI identifies an album for GetAlbum / ListVideosInAlbum,
	// e.g. "/users/123/albums/456". The trailing segment is the album id.
	AlbumURI string

	// VideoURI identifies a video for GetVideo / GetVideoConfig.
	VideoURI string

	// AccessToken overrides the client default token for this call.
	AccessToken string

	// Query is merged over the endpoint's default field projection;
	// caller values win on conflict.
	Query url.Values
}

// Notifier receives rate-limit lifecycle notifications. The daemon wires
// this to bus broadcasts; nil disables notifications.
type Notifier interface {
	Notify(ctx context.Context, level string, payload interface{})
}

// Options configures a Client.
type Options struct {
	// AccessToken is the default bearer token. Required unless every call
	// supplies its own.
	AccessToken string

	// BaseURL and PlayerBaseURL default to the production Vimeo hosts.
	BaseURL       string
	PlayerBaseURL string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	// CooldownWindow defaults to DefaultCooldownWindow.
	CooldownWindow time.Duration

	// RequestsPerSecond throttles outbound requests. 0 disables the limiter.
	RequestsPerSecond float64

	// Notifier receives cooldown notifications. Optional.
	Notifier Notifier

	// Now is the clock used by the cooldown state machine. Defaults to
	// time.Now; tests inject a fake.
	Now func() time.Time
}

// Client issues authenticated GET requests against the Vimeo API.
//
// The only mutable state is the rate-limit cooldown deadline, which is
// owned per client instance; it is not shared across processes.
// Safe for concurrent use.
type Client struct {
	baseURL       string
	playerBaseURL string
	accessToken   string
	httpClient    *http.Client
	cooldown      time.Duration
	limiter       *rate.Limiter
	notifier      Notifier
	now           func() time.Time

	mu           sync.Mutex
	blockedUntil time.Time // zero = open
}

// NewClient creates a Vimeo API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAPIBaseURL
	}
	if opts.PlayerBaseURL == "" {
		opts.PlayerBaseURL = DefaultPlayerBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.CooldownWindow <= 0 {
		opts.CooldownWindow = DefaultCooldownWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:       strings.TrimSuffix(opts.BaseURL, "/"),
		playerBaseURL: strings.TrimSuffix(opts.PlayerBaseURL, "/"),
		accessToken:   opts.AccessToken,
		httpClient:    opts.HTTPClient,
		cooldown:      opts.CooldownWindow,
		limiter:       limiter,
		notifier:      opts.Notifier,
		now:           opts.Now,
	}
}

// ListAlbums fetches the authenticated user's albums.
func (c *Client) ListAlbums(ctx context.Context, args Args) (*AlbumList, error) {
	var list AlbumList
	ok, err := c.request(ctx, "albums.list", c.baseURL, "/me/albums", DefaultAlbumFields, args, &list)
	if err != nil || !ok {
		return nil, err
	}
	return &list, nil
}

// GetAlbum fetches one album by reference. A nil result means the upstream
// reported 404.
func (c *Client) GetAlbum(ctx context.Context, args Args) (*Album, error) {
	id, err := albumID(args)
	if err != nil {
		return nil, err
	}

	var album Album
	ok, err := c.request(ctx, "albums.get", c.baseURL, "/me/albums/"+id, DefaultAlbumFields, args, &album)
	if err != nil || !ok {
		return nil, err
	}
	return &album, nil
}

// ListVideosInAlbum fetches one page of an album's videos. The page is
// selected via args.Query ("page").
func (c *Client) ListVideosInAlbum(ctx context.Context, args Args) (*VideoList, error) {
	id, err := albumID(args)
	if err != nil {
		return nil, err
	}

	var list VideoList
	ok, err := c.request(ctx, "albums.videos", c.baseURL, "/me/albums/"+id+"/videos", DefaultVideoFields, args, &list)
	if err != nil || !ok {
		return nil, err
	}
	return &list, nil
}

// ListVideos fetches the authenticated user's videos.
func (c *Client) ListVideos(ctx context.Context, args Args) (*VideoList, error) {
	var list VideoList
	ok, err := c.request(ctx, "videos.list", c.baseURL, "/me/videos", DefaultVideoFields, args, &list)
	if err != nil || !ok {
		return nil, err
	}
	return &list, nil
}

// GetVideo fetches one video by reference. A nil result means the upstream
// reported 404.
func (c *Client) GetVideo(ctx context.Context, args Args) (*Video, error) {
	id, err := videoID(args)
	if err != nil {
		return nil, err
	}

	var video Video
	ok, err := c.request(ctx, "videos.get", c.baseURL, "/me/videos/"+id, DefaultVideoFields, args, &video)
	if err != nil || !ok {
		return nil, err
	}
	return &video, nil
}

// GetVideoConfig fetches the player config resource for a video from the
// secondary host. No field projection applies.
func (c *Client) GetVideoConfig(ctx context.Context, args Args) (*VideoConfig, error) {
	id, err := videoID(args)
	if err != nil {
		return nil, err
	}

	var cfg VideoConfig
	ok, err := c.request(ctx, "videos.config", c.playerBaseURL, "/video/"+id+"/config", "", args, &cfg)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

// albumID validates the album reference and extracts its id.
func albumID(args Args) (string, error) {
	if args.AlbumURI == "" {
		return "", invalidArgument("an albumUri is required")
	}
	return lastPathSegment(args.AlbumURI), nil
}

// videoID validates the video reference and extracts its id.
func videoID(args Args) (string, error) {
	if args.VideoURI == "" {
		return "", invalidArgument("a videoUri is required")
	}
	return lastPathSegment(args.VideoURI), nil
}

// lastPathSegment returns the trailing path segment of a reference URI.
func lastPathSegment(uri string) string {
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}

// request is the primitive every operation delegates to. It returns
// (false, nil) on upstream 404 so callers can report "not found" as a nil
// resource rather than an error. Transport errors propagate unchanged.
func (c *Client) request(ctx context.Context, endpoint, baseURL, path, defaultFields string, args Args, result interface{}) (bool, error) {
	token := args.AccessToken
	if token == "" {
		token = c.accessToken
	}
	if token == "" {
		return false, invalidArgument("an access token is required")
	}

	if err := c.checkCooldown(ctx); err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "blocked").Inc()
		metrics.RateLimitBlocks.Inc()
		return false, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, err
		}
	}

	query := url.Values{}
	if defaultFields != "" {
		query.Set("fields", defaultFields)
	}
	for key, values := range args.Query {
		query[key] = values
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.URL.RawQuery = query.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return false, err
	}
	defer resp.Body.Close()
	metrics.ClientRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	switch resp.StatusCode {
	case http.StatusNotFound:
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
		return false, nil
	case http.StatusTooManyRequests:
		until := c.armCooldown(ctx)
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
		return false, &Error{
			Code:    CodeRateLimited,
			Message: fmt.Sprintf("upstream rate limit, cooling down until %s", until.Format(time.RFC3339)),
			RetryAt: until,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return false, err
	}

	contentType := resp.Header.Get("Content-Type")
	if !contentTypeRE.MatchString(contentType) {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "protocol_error").Inc()
		return false, &Error{
			Code:    CodeProtocol,
			Message: fmt.Sprintf("expected an application/*json content type, got %q", contentType),
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "protocol_error").Inc()
		return false, &Error{Code: CodeProtocol, Message: "received an empty JSON body"}
	}

	if resp.StatusCode != http.StatusOK {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			metrics.ClientRequestsTotal.WithLabelValues(endpoint, "protocol_error").Inc()
			return false, &Error{Code: CodeProtocol, Message: "JSON parsing error", Err: err}
		}
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "upstream_error").Inc()
		return false, &Error{
			Code:       CodeUpstream,
			Message:    "unexpected upstream status",
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       parsed,
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, "protocol_error").Inc()
		return false, &Error{Code: CodeProtocol, Message: "JSON parsing error", Err: err}
	}

	metrics.ClientRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return true, nil
}

// checkCooldown fails fast with CodeBlocked while the window is armed and
// clears the state on the first call at or past the deadline.
func (c *Client) checkCooldown(ctx context.Context) error {
	c.mu.Lock()
	until := c.blockedUntil
	if until.IsZero() {
		c.mu.Unlock()
		return nil
	}

	if c.now().Before(until) {
		c.mu.Unlock()
		return &Error{
			Code:    CodeBlocked,
			Message: fmt.Sprintf("rate limit cooldown active until %s", until.Format(time.RFC3339)),
			RetryAt: until,
		}
	}

	c.blockedUntil = time.Time{}
	c.mu.Unlock()

	metrics.CooldownState.Set(0)
	logging.Info().Time("deadline", until).Msg("vimeo rate limit cooldown cleared")
	c.notify(ctx, "info", map[string]interface{}{
		"message": "vimeo rate limit cooldown cleared",
	})
	return nil
}

// armCooldown records a 429 and returns the new deadline. Re-arming while
// already blocked restarts the window.
func (c *Client) armCooldown(ctx context.Context) time.Time {
	c.mu.Lock()
	until := c.now().Add(c.cooldown)
	c.blockedUntil = until
	c.mu.Unlock()

	metrics.CooldownState.Set(1)
	logging.Warn().Time("deadline", until).Msg("vimeo rate limit hit, blocking requests")
	c.notify(ctx, "warn", map[string]interface{}{
		"message": "vimeo rate limit hit, blocking requests",
		"retryAt": until.Format(time.RFC3339),
	})
	return until
}

func (c *Client) notify(ctx context.Context, level string, payload interface{}) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, level, payload)
}
