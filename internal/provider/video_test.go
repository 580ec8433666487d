// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"context"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vimeo-provider/internal/bus"
	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

func newVideoFetcher(b *bus.MemoryBus, api *stubAPI, fetchConfig bool) *videoFetcher {
	return &videoFetcher{bus: b, client: api, transform: TransformVideo, fetchConfig: fetchConfig}
}

func TestVideoFetchSuccess(t *testing.T) {
	b := bus.NewMemoryBus()
	api := &stubAPI{video: testVideo()}

	f := newVideoFetcher(b, api, false)
	v, err := f.Fetch(context.Background(), &Channel{ID: "ch-1"}, nil, "/videos/789")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if v.ID != "res-vimeo-/videos/789" {
		t.Errorf("ID = %q", v.ID)
	}
	if api.configCalls != 0 {
		t.Errorf("config calls = %d, want 0 when disabled", api.configCalls)
	}
}

func TestVideoNotFound(t *testing.T) {
	b := bus.NewMemoryBus()
	api := &stubAPI{video: nil}

	f := newVideoFetcher(b, api, false)
	_, err := f.Fetch(context.Background(), &Channel{ID: "ch-1"}, json.RawMessage(`{"channel":"ch-1"}`), "/videos/404")
	if err == nil {
		t.Fatal("expected error")
	}
	if ErrCode(err) != CodeVideoNotFound {
		t.Errorf("code = %q, want VIDEO_NOT_FOUND", ErrCode(err))
	}

	errs := b.BroadcastsAt("error")
	if len(errs) != 1 {
		t.Fatalf("error broadcasts = %d, want 1", len(errs))
	}
	var payload Notification
	if err := json.Unmarshal(errs[0].Payload, &payload); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if payload.Code != CodeVideoNotFound {
		t.Errorf("broadcast code = %q", payload.Code)
	}
}

func TestVideoAccountNotValid(t *testing.T) {
	b := bus.NewMemoryBus()
	video := testVideo()
	video.Files = nil
	api := &stubAPI{video: video}

	f := newVideoFetcher(b, api, false)
	_, err := f.Fetch(context.Background(), &Channel{ID: "ch-1"}, nil, "/videos/789")
	if err == nil {
		t.Fatal("expected error")
	}
	if ErrCode(err) != CodeAccountNotValid {
		t.Errorf("code = %q, want ACCOUNT_NOT_VALID", ErrCode(err))
	}
	if len(b.BroadcastsAt("error")) != 1 {
		t.Errorf("error broadcasts = %d, want 1", len(b.BroadcastsAt("error")))
	}
}

func TestVideoConfigFetchedWhenEnabled(t *testing.T) {
	b := bus.NewMemoryBus()
	video := testVideo()
	video.Files = video.Files[:2] // no hls rendition

	api := &stubAPI{
		video: video,
		config: &vimeo.VideoConfig{
			Video: vimeo.ConfigVideo{Width: 1280, Height: 720},
			Request: vimeo.ConfigRequest{
				Files: vimeo.ConfigFiles{
					HLS: &vimeo.ConfigHLS{URL: "https://player/master.m3u8"},
				},
			},
		},
	}

	f := newVideoFetcher(b, api, true)
	v, err := f.Fetch(context.Background(), &Channel{ID: "ch-1"}, nil, "/videos/789")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if api.configCalls != 1 {
		t.Errorf("config calls = %d, want 1", api.configCalls)
	}
	last := v.Sources[len(v.Sources)-1]
	if last.Label != "hls" || last.URL != "https://player/master.m3u8" {
		t.Errorf("hls source = %+v", last)
	}
}
