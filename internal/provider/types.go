// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

// Channel is a tenant boundary carrying credentials and settings for one
// deployment. Supplied by the store collaborator; read-only here.
type Channel struct {
	ID      string  `json:"id"`
	Secrets Secrets `json:"secrets"`
}

// Secrets is a channel's credential bundle. Two shapes are honored for
// the Vimeo token: the nested form wins over the flat legacy form.
type Secrets struct {
	Vimeo            *VimeoSecrets `json:"vimeo,omitempty"`
	VimeoAccessToken string        `json:"vimeoAccessToken,omitempty"`
}

// VimeoSecrets is the nested per-provider credential shape.
type VimeoSecrets struct {
	AccessToken string `json:"accessToken"`
}

// AccessToken resolves the channel's Vimeo token, or "" when the channel
// carries none and the client default applies.
func (c *Channel) AccessToken() string {
	if c == nil {
		return ""
	}
	if c.Secrets.Vimeo != nil && c.Secrets.Vimeo.AccessToken != "" {
		return c.Secrets.Vimeo.AccessToken
	}
	return c.Secrets.VimeoAccessToken
}

// Request is the inbound query payload for both handlers. Spec stays raw:
// it is echoed into broadcasts and ItemSpec messages untouched, beyond the
// few fields the handler itself reads.
type Request struct {
	Spec   json.RawMessage `json:"spec"`
	Object json.RawMessage `json:"object,omitempty"`
}

// specFields are the spec fields the handlers read.
type specFields struct {
	Channel string  `json:"channel"`
	Album   *uriRef `json:"album,omitempty"`
	Video   *uriRef `json:"video,omitempty"`
}

type uriRef struct {
	URI string `json:"uri"`
}

// Image is one canonical thumbnail rendition.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

// Source is one canonical playable rendition.
type Source struct {
	URL        string `json:"url"`
	Container  string `json:"container"`
	MimeType   string `json:"mimeType"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MaxBitrate int    `json:"maxBitrate"`
	Label      string `json:"label"`
}

// Collection is the canonical album resource, without relationships; the
// album orchestrator attaches those after expanding the video list.
type Collection struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Images      []Image `json:"images"`
}

// VideoResource is the canonical video resource.
type VideoResource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []Image  `json:"images"`
	Sources     []Source `json:"sources"`
	Duration    int      `json:"duration"`    // milliseconds
	ReleaseDate string   `json:"releaseDate"` // RFC 3339
}

// EntityRef is one entry of a collection's relationships.entities.data.
type EntityRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Relationships carries the ordered video membership of a collection.
type Relationships struct {
	Entities Entities `json:"entities"`
}

// Entities wraps the ordered entity references.
type Entities struct {
	Data []EntityRef `json:"data"`
}

// ItemSpec asks the catalog collaborator to create or update one video
// resource from the raw upstream object. ID is set only when the raw
// video exposes a URI.
type ItemSpec struct {
	ID      string      `json:"id,omitempty"`
	Channel string      `json:"channel"`
	Type    string      `json:"type"`
	Source  string      `json:"source"`
	Video   vimeo.Video `json:"video"`
}

// SetItemSpecReply is the catalog's answer to one setItemSpec command.
type SetItemSpecReply struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
}

// Notification is the broadcast payload for catalog-level failures.
type Notification struct {
	Spec    json.RawMessage `json:"spec,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}
