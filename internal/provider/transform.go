// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

// CollectionTransform maps one raw upstream album to the canonical
// collection shape. The spec is the raw request spec, passed through for
// custom transforms that key off it; the default ignores it.
type CollectionTransform func(spec json.RawMessage, album *vimeo.Album) *Collection

// VideoTransform maps one raw upstream video (plus the optional player
// config) to the canonical video shape. Fails only on a data integrity
// problem worth surfacing loudly, like an unparseable release time.
type VideoTransform func(spec json.RawMessage, video *vimeo.Video, config *vimeo.VideoConfig) (*VideoResource, error)

// FormatID extracts the trailing path segment of an upstream URI, e.g.
// "/users/123/albums/456" -> "456". Empty input yields "".
func FormatID(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}

// resourceID derives the stable catalog id for an upstream URI.
func resourceID(uri string) string {
	return "res-vimeo-" + uri
}

func transformImages(pictures *vimeo.Pictures) []Image {
	if pictures == nil {
		return []Image{}
	}
	images := make([]Image, 0, len(pictures.Sizes))
	for _, size := range pictures.Sizes {
		images = append(images, Image{
			URL:    size.Link,
			Width:  size.Width,
			Height: size.Height,
			Label:  fmt.Sprintf("%dx%d", size.Width, size.Height),
		})
	}
	return images
}

// TransformCollection is the default collection transform. Pure: no I/O,
// the album is never mutated. Relationships are not attached here; the
// album orchestrator owns those.
func TransformCollection(_ json.RawMessage, album *vimeo.Album) *Collection {
	return &Collection{
		ID:          resourceID(album.URI),
		Type:        "collection",
		Title:       album.Name,
		Description: album.Description,
		Images:      transformImages(album.Pictures),
	}
}

// mimeSubtype returns the subtype portion of a MIME type, e.g.
// "video/mp4" -> "mp4".
func mimeSubtype(mime string) string {
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		return mime[i+1:]
	}
	return mime
}

const hlsMimeType = "application/x-mpegURL"

func transformSources(video *vimeo.Video, config *vimeo.VideoConfig) []Source {
	sources := make([]Source, 0, len(video.Files))
	hasHLS := false
	for _, file := range video.Files {
		if file.Quality == "hls" {
			hasHLS = true
			sources = append(sources, Source{
				URL:       file.Link,
				Container: "hls",
				MimeType:  hlsMimeType,
				Width:     file.Width,
				Height:    file.Height,
				Label:     "hls",
			})
			continue
		}
		sources = append(sources, Source{
			URL:       file.Link,
			Container: mimeSubtype(file.Type),
			MimeType:  file.Type,
			Width:     file.Width,
			Height:    file.Height,
			Label:     fmt.Sprintf("%s-%d", file.Quality, file.Height),
		})
	}

	// The player config supplies the adaptive manifest for accounts whose
	// file listing omits it.
	if !hasHLS && config != nil && config.Request.Files.HLS != nil {
		sources = append(sources, Source{
			URL:       config.Request.Files.HLS.URL,
			Container: "hls",
			MimeType:  hlsMimeType,
			Width:     config.Video.Width,
			Height:    config.Video.Height,
			Label:     "hls",
		})
	}
	return sources
}

// TransformVideo is the default video transform. Pure: no I/O, inputs are
// never mutated. An unparseable release time fails the whole transform.
func TransformVideo(_ json.RawMessage, video *vimeo.Video, config *vimeo.VideoConfig) (*VideoResource, error) {
	releaseDate, err := time.Parse(time.RFC3339, video.ReleaseTime)
	if err != nil {
		return nil, fmt.Errorf("parse release time %q for %s: %w", video.ReleaseTime, video.URI, err)
	}

	return &VideoResource{
		ID:          resourceID(video.URI),
		Title:       video.Name,
		Description: video.Description,
		Images:      transformImages(video.Pictures),
		Sources:     transformSources(video, config),
		Duration:    video.Duration * 1000,
		ReleaseDate: releaseDate.Format(time.RFC3339),
	}, nil
}
