// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vimeo-provider/internal/bus"
	"github.com/tomtom215/vimeo-provider/internal/logging"
	"github.com/tomtom215/vimeo-provider/internal/metrics"
	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

// DefaultPageSize is the video-list page size used when expanding albums.
const DefaultPageSize = 25

var setItemSpecPattern = bus.Pattern{Role: "catalog", Cmd: "setItemSpec"}

// albumFetcher expands one album reference into a fully assembled
// collection: album fetch, paginated video listing, one setItemSpec
// command per video, ordered relationship assembly.
type albumFetcher struct {
	bus       bus.Bus
	client    vimeo.API
	transform CollectionTransform
	pageSize  int
}

// Fetch runs the album pipeline. The returned collection is the caller's
// partial object with the transformed album merged over it (transform
// fields win on conflict) and relationships attached.
func (f *albumFetcher) Fetch(ctx context.Context, channel *Channel, spec, partial json.RawMessage, albumURI string) (map[string]interface{}, error) {
	args := vimeo.Args{AlbumURI: albumURI, AccessToken: channel.AccessToken()}

	album, err := f.client.GetAlbum(ctx, args)
	if err != nil {
		return nil, err
	}
	if album == nil {
		failure := albumNotFound(albumURI)
		f.notifyFailure(ctx, spec, failure, "album not found")
		return nil, failure
	}

	collection, err := mergeCollection(partial, f.transform(spec, album))
	if err != nil {
		return nil, err
	}

	videos, err := f.listVideos(ctx, args, album.VideoCount())
	if err != nil {
		return nil, err
	}

	refs, err := f.sendItemSpecs(ctx, channel, videos)
	if err != nil {
		return nil, err
	}

	collection["relationships"] = Relationships{Entities: Entities{Data: refs}}
	return collection, nil
}

// listVideos returns the album's full video sequence. Totals above the
// page size fan out into one concurrent list call per page, reassembled
// in page order regardless of completion order.
func (f *albumFetcher) listVideos(ctx context.Context, args vimeo.Args, total int) ([]vimeo.Video, error) {
	if total <= f.pageSize {
		list, err := f.client.ListVideosInAlbum(ctx, args)
		if err != nil {
			return nil, err
		}
		if list == nil {
			return nil, nil
		}
		return list.Data, nil
	}

	pageCount := (total + f.pageSize - 1) / f.pageSize
	pages := make([][]vimeo.Video, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			pageArgs := args
			pageArgs.Query = url.Values{
				"page":     []string{strconv.Itoa(i + 1)},
				"per_page": []string{strconv.Itoa(f.pageSize)},
			}
			list, err := f.client.ListVideosInAlbum(gctx, pageArgs)
			if err != nil {
				return fmt.Errorf("list page %d: %w", i+1, err)
			}
			if list != nil {
				pages[i] = list.Data
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	videos := make([]vimeo.Video, 0, total)
	for _, page := range pages {
		videos = append(videos, page...)
	}
	return videos, nil
}

// sendItemSpecs dispatches one setItemSpec command per video, all
// concurrent, and joins the replies positionally so the relationship
// order matches the video order exactly.
func (f *albumFetcher) sendItemSpecs(ctx context.Context, channel *Channel, videos []vimeo.Video) ([]EntityRef, error) {
	replies := make([]SetItemSpecReply, len(videos))

	g, gctx := errgroup.WithContext(ctx)
	for i, video := range videos {
		g.Go(func() error {
			spec := ItemSpec{
				Channel: channel.ID,
				Type:    "videoSpec",
				Source:  "vimeo-video",
				Video:   video,
			}
			if video.URI != "" {
				spec.ID = "spec-video-" + video.URI
			}
			if err := f.bus.SendCommand(gctx, setItemSpecPattern, spec, &replies[i]); err != nil {
				return fmt.Errorf("setItemSpec for %s: %w", video.URI, err)
			}
			metrics.ItemSpecsSent.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Zero videos still yields an empty array, never an absent field.
	refs := make([]EntityRef, 0, len(replies))
	for _, reply := range replies {
		refs = append(refs, EntityRef{
			ID:   reply.Resource,
			Type: strings.TrimSuffix(reply.Type, "Spec"),
		})
	}
	return refs, nil
}

func (f *albumFetcher) notifyFailure(ctx context.Context, spec json.RawMessage, failure *Error, message string) {
	notifyFailure(ctx, f.bus, spec, failure, message)
}

// notifyFailure announces a catalog-level failure on the error channel
// before it propagates. A broadcast failure is logged, never fatal.
func notifyFailure(ctx context.Context, b bus.Bus, spec json.RawMessage, failure *Error, message string) {
	payload := Notification{
		Spec:    spec,
		Error:   failure.Error(),
		Code:    failure.Code,
		Message: message,
	}
	if err := b.Broadcast(ctx, bus.Pattern{Level: "error"}, payload); err != nil {
		logging.Warn().Err(err).Str("code", failure.Code).Msg("failure broadcast failed")
	}
}

// mergeCollection lays the transformed album over the caller's partial
// collection object: caller fields are the base, transform fields win.
func mergeCollection(partial json.RawMessage, transformed *Collection) (map[string]interface{}, error) {
	merged := make(map[string]interface{})
	if len(partial) > 0 {
		if err := json.Unmarshal(partial, &merged); err != nil {
			return nil, fmt.Errorf("decode partial collection: %w", err)
		}
	}

	data, err := json.Marshal(transformed)
	if err != nil {
		return nil, fmt.Errorf("encode transformed collection: %w", err)
	}
	overlay := make(map[string]interface{})
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("decode transformed collection: %w", err)
	}

	for key, value := range overlay {
		merged[key] = value
	}
	return merged, nil
}
