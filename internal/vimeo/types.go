// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package vimeo

// Upstream response shapes for the six read-only endpoints the provider
// consumes. Only the fields named by the default field projections are
// modeled; the projections guarantee the upstream never sends more.

// PictureSize is one rendition of a thumbnail image.
type PictureSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Link   string `json:"link"`
}

// Pictures is the nested picture group attached to albums and videos.
type Pictures struct {
	URI   string        `json:"uri,omitempty"`
	Sizes []PictureSize `json:"sizes"`
}

// ConnectionCount reports the size of a connected collection.
type ConnectionCount struct {
	URI   string `json:"uri,omitempty"`
	Total int    `json:"total"`
}

// AlbumConnections carries the album's connected collections.
type AlbumConnections struct {
	Videos ConnectionCount `json:"videos"`
}

// AlbumMetadata wraps the album's connection metadata.
type AlbumMetadata struct {
	Connections AlbumConnections `json:"connections"`
}

// Album is an upstream album (a named grouping of videos).
type Album struct {
	URI         string         `json:"uri"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Pictures    *Pictures      `json:"pictures,omitempty"`
	Metadata    *AlbumMetadata `json:"metadata,omitempty"`
}

// VideoCount returns the total video count reported by the album's
// connection metadata, or 0 when the metadata is absent.
func (a *Album) VideoCount() int {
	if a == nil || a.Metadata == nil {
		return 0
	}
	return a.Metadata.Connections.Videos.Total
}

// VideoFile is one playable rendition of a video. Quality "hls" marks the
// adaptive rendition; everything else is a progressive file.
type VideoFile struct {
	Quality string `json:"quality"`
	Type    string `json:"type"` // MIME type, e.g. "video/mp4"
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Link    string `json:"link"`
}

// Video is an upstream video.
//
// Files is nil when the owning account's tier does not expose direct file
// links (non Pro/Business accounts); the orchestrator turns that into an
// account-not-valid failure.
type Video struct {
	URI         string      `json:"uri"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Duration    int         `json:"duration"` // seconds
	ReleaseTime string      `json:"release_time,omitempty"`
	Pictures    *Pictures   `json:"pictures,omitempty"`
	Files       []VideoFile `json:"files,omitempty"`
}

// VideoList is the paging envelope around a video listing.
type VideoList struct {
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Data    []Video `json:"data"`
}

// AlbumList is the paging envelope around an album listing.
type AlbumList struct {
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Data    []Album `json:"data"`
}

// ConfigHLS locates the adaptive-stream manifest in a player config.
type ConfigHLS struct {
	URL string `json:"url"`
}

// ConfigProgressive is one progressive rendition in a player config.
type ConfigProgressive struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	MIME    string `json:"mime"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ConfigFiles groups the renditions in a player config.
type ConfigFiles struct {
	HLS         *ConfigHLS          `json:"hls,omitempty"`
	Progressive []ConfigProgressive `json:"progressive,omitempty"`
}

// ConfigRequest wraps the request section of a player config.
type ConfigRequest struct {
	Files ConfigFiles `json:"files"`
}

// ConfigVideo carries the video dimensions in a player config.
type ConfigVideo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VideoConfig is the secondary player config resource, fetched from the
// player host when adaptive-stream source URLs are needed.
type VideoConfig struct {
	Video   ConfigVideo   `json:"video"`
	Request ConfigRequest `json:"request"`
}
