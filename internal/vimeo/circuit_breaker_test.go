// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package vimeo

import (
	"context"
	"testing"
)

// stubAPI returns canned results for breaker delegation tests.
type stubAPI struct {
	album *Album
	video *Video
	list  *VideoList
	err   error
}

func (s *stubAPI) ListAlbums(context.Context, Args) (*AlbumList, error) { return nil, s.err }
func (s *stubAPI) GetAlbum(context.Context, Args) (*Album, error)       { return s.album, s.err }
func (s *stubAPI) ListVideosInAlbum(context.Context, Args) (*VideoList, error) {
	return s.list, s.err
}
func (s *stubAPI) ListVideos(context.Context, Args) (*VideoList, error)       { return s.list, s.err }
func (s *stubAPI) GetVideo(context.Context, Args) (*Video, error)             { return s.video, s.err }
func (s *stubAPI) GetVideoConfig(context.Context, Args) (*VideoConfig, error) { return nil, s.err }

func TestCircuitBreakerDelegatesResults(t *testing.T) {
	stub := &stubAPI{
		album: &Album{URI: "/users/1/albums/9", Name: "Wrapped"},
		list:  &VideoList{Total: 1, Data: []Video{{URI: "/videos/1"}}},
	}
	cbc := NewCircuitBreakerClient(stub)

	album, err := cbc.GetAlbum(context.Background(), Args{AlbumURI: "/users/1/albums/9"})
	if err != nil {
		t.Fatalf("GetAlbum error: %v", err)
	}
	if album.Name != "Wrapped" {
		t.Errorf("album = %+v", album)
	}

	list, err := cbc.ListVideosInAlbum(context.Background(), Args{AlbumURI: "/users/1/albums/9"})
	if err != nil {
		t.Fatalf("ListVideosInAlbum error: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("list = %+v", list)
	}
}

func TestCircuitBreakerPassesThroughNilResult(t *testing.T) {
	// A 404 (nil, nil) must survive the breaker unchanged.
	cbc := NewCircuitBreakerClient(&stubAPI{})

	album, err := cbc.GetAlbum(context.Background(), Args{AlbumURI: "/users/1/albums/404"})
	if err != nil {
		t.Fatalf("GetAlbum error: %v", err)
	}
	if album != nil {
		t.Errorf("album = %+v, want nil", album)
	}
}

func TestCircuitBreakerPropagatesErrors(t *testing.T) {
	stub := &stubAPI{err: &Error{Code: CodeUpstream, Message: "unexpected upstream status", Status: 500}}
	cbc := NewCircuitBreakerClient(stub)

	_, err := cbc.GetVideo(context.Background(), Args{VideoURI: "/videos/1"})
	if CodeOf(err) != CodeUpstream {
		t.Errorf("code = %q, want UPSTREAM_ERROR", CodeOf(err))
	}
}
