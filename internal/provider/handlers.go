// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

/*
Package provider turns bus queries for Vimeo albums and videos into
canonical catalog resources.

Two query handlers are registered on initialization:

	provider.get.vimeo-album  expand an album into a collection, emitting
	                          one catalog.setItemSpec command per video
	provider.get.vimeo-video  resolve a single video

Both validate the inbound spec, resolve the channel through the memoizing
channel cache, and delegate to their orchestrator. Failures carry a
machine-readable code back to the caller and, for catalog-level
conditions (not found, invalid account), are broadcast on the error
channel first.
*/
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vimeo-provider/internal/bus"
	"github.com/tomtom215/vimeo-provider/internal/logging"
	"github.com/tomtom215/vimeo-provider/internal/metrics"
	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

const (
	sourceAlbum = "vimeo-album"
	sourceVideo = "vimeo-video"
)

// Options configures Initialize. Client is required; everything else has
// a default.
type Options struct {
	// Client issues the upstream API calls.
	Client vimeo.API

	// CollectionTransform and VideoTransform default to the package
	// transforms; deployments with bespoke catalog shapes inject their own.
	CollectionTransform CollectionTransform
	VideoTransform      VideoTransform

	// PageSize is the album video-list page size. Defaults to
	// DefaultPageSize.
	PageSize int

	// FetchVideoConfig also fetches the player config alongside each
	// video, for accounts whose file listing omits the adaptive manifest.
	FetchVideoConfig bool
}

// Provider is the initialized handler set.
type Provider struct {
	bus      bus.Bus
	client   vimeo.API
	channels *ChannelCache
	albums   *albumFetcher
	videos   *videoFetcher
}

// Initialize registers the album and video query handlers on the bus and
// returns the provider.
func Initialize(b bus.Bus, opts Options) (*Provider, error) {
	if b == nil {
		return nil, errors.New("provider: bus is required")
	}
	if opts.Client == nil {
		return nil, errors.New("provider: client is required")
	}
	if opts.CollectionTransform == nil {
		opts.CollectionTransform = TransformCollection
	}
	if opts.VideoTransform == nil {
		opts.VideoTransform = TransformVideo
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	p := &Provider{
		bus:      b,
		client:   opts.Client,
		channels: NewChannelCache(b),
		albums: &albumFetcher{
			bus:       b,
			client:    opts.Client,
			transform: opts.CollectionTransform,
			pageSize:  opts.PageSize,
		},
		videos: &videoFetcher{
			bus:         b,
			client:      opts.Client,
			transform:   opts.VideoTransform,
			fetchConfig: opts.FetchVideoConfig,
		},
	}

	albumPattern := bus.Pattern{Role: "provider", Cmd: "get", Source: sourceAlbum}
	if err := b.QueryHandler(albumPattern, p.instrument(sourceAlbum, p.handleAlbum)); err != nil {
		return nil, fmt.Errorf("register album handler: %w", err)
	}
	videoPattern := bus.Pattern{Role: "provider", Cmd: "get", Source: sourceVideo}
	if err := b.QueryHandler(videoPattern, p.instrument(sourceVideo, p.handleVideo)); err != nil {
		return nil, fmt.Errorf("register video handler: %w", err)
	}

	logging.Info().Msg("vimeo provider handlers registered")
	return p, nil
}

// instrument wraps a handler with duration and error metrics.
func (p *Provider) instrument(source string, h bus.Handler) bus.Handler {
	return func(ctx context.Context, payload json.RawMessage) (interface{}, error) {
		start := time.Now()
		result, err := h(ctx, payload)
		metrics.HandlerDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.HandlerErrors.WithLabelValues(source, errorCode(err)).Inc()
			logging.Error().Err(err).Str("source", source).Msg("handler failed")
		}
		return result, err
	}
}

// handleAlbum services provider.get.vimeo-album.
func (p *Provider) handleAlbum(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	req, spec, err := decodeRequest(payload)
	if err != nil {
		return nil, err
	}
	if spec.Album == nil || spec.Album.URI == "" {
		return nil, invalidArgument("spec.album.uri is required")
	}

	channel, err := p.channels.Resolve(ctx, spec.Channel)
	if err != nil {
		return nil, err
	}
	return p.albums.Fetch(ctx, channel, req.Spec, req.Object, spec.Album.URI)
}

// handleVideo services provider.get.vimeo-video.
func (p *Provider) handleVideo(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	req, spec, err := decodeRequest(payload)
	if err != nil {
		return nil, err
	}
	if spec.Video == nil || spec.Video.URI == "" {
		return nil, invalidArgument("spec.video.uri is required")
	}

	channel, err := p.channels.Resolve(ctx, spec.Channel)
	if err != nil {
		return nil, err
	}
	return p.videos.Fetch(ctx, channel, req.Spec, spec.Video.URI)
}

func decodeRequest(payload json.RawMessage) (*Request, *specFields, error) {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, nil, invalidArgument("malformed request payload")
	}
	var spec specFields
	if len(req.Spec) > 0 {
		if err := json.Unmarshal(req.Spec, &spec); err != nil {
			return nil, nil, invalidArgument("malformed request spec")
		}
	}
	return &req, &spec, nil
}

// errorCode maps an error to its metric label.
func errorCode(err error) string {
	if code := ErrCode(err); code != "" {
		return code
	}
	if code := vimeo.CodeOf(err); code != "" {
		return string(code)
	}
	return "INTERNAL"
}
