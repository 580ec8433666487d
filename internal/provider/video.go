// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"context"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vimeo-provider/internal/bus"
	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

// videoFetcher resolves one video reference into a canonical video
// resource, optionally consulting the player config for the adaptive
// stream manifest.
type videoFetcher struct {
	bus         bus.Bus
	client      vimeo.API
	transform   VideoTransform
	fetchConfig bool
}

// Fetch runs the video pipeline. The video and, when enabled, its player
// config are fetched concurrently; a missing config (upstream 404) is
// tolerated, a missing video is not.
func (f *videoFetcher) Fetch(ctx context.Context, channel *Channel, spec json.RawMessage, videoURI string) (*VideoResource, error) {
	args := vimeo.Args{VideoURI: videoURI, AccessToken: channel.AccessToken()}

	var (
		video  *vimeo.Video
		config *vimeo.VideoConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		video, err = f.client.GetVideo(gctx, args)
		return err
	})
	if f.fetchConfig {
		g.Go(func() error {
			var err error
			config, err = f.client.GetVideoConfig(gctx, args)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if video == nil {
		failure := videoNotFound(videoURI)
		notifyFailure(ctx, f.bus, spec, failure, "video not found")
		return nil, failure
	}
	if video.Files == nil {
		// Accounts below the Pro tier never expose direct file links.
		failure := accountNotValid()
		notifyFailure(ctx, f.bus, spec, failure, "account not valid")
		return nil, failure
	}

	return f.transform(spec, video, config)
}
