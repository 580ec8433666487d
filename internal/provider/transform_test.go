// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"reflect"
	"testing"

	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"/users/123/albums/456", "456"},
		{"/videos/789", "789"},
		{"bare", "bare"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatID(tt.uri); got != tt.want {
			t.Errorf("FormatID(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func testAlbum() *vimeo.Album {
	return &vimeo.Album{
		URI:         "/users/123/albums/456",
		Name:        "Nature Films",
		Description: "Slow television",
		Pictures: &vimeo.Pictures{
			Sizes: []vimeo.PictureSize{
				{Width: 100, Height: 75, Link: "https://i.vimeocdn.com/small.jpg"},
				{Width: 640, Height: 480, Link: "https://i.vimeocdn.com/large.jpg"},
			},
		},
	}
}

func TestTransformCollection(t *testing.T) {
	c := TransformCollection(nil, testAlbum())

	if c.ID != "res-vimeo-/users/123/albums/456" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.Type != "collection" {
		t.Errorf("Type = %q", c.Type)
	}
	if c.Title != "Nature Films" || c.Description != "Slow television" {
		t.Errorf("Title = %q, Description = %q", c.Title, c.Description)
	}
	if len(c.Images) != 2 {
		t.Fatalf("Images len = %d, want 2", len(c.Images))
	}
	if c.Images[1].Label != "640x480" || c.Images[1].URL != "https://i.vimeocdn.com/large.jpg" {
		t.Errorf("Images[1] = %+v", c.Images[1])
	}
}

func TestTransformCollectionNoPictures(t *testing.T) {
	album := testAlbum()
	album.Pictures = nil

	c := TransformCollection(nil, album)
	if c.Images == nil {
		t.Fatal("Images is nil, want empty slice")
	}
	if len(c.Images) != 0 {
		t.Errorf("Images len = %d, want 0", len(c.Images))
	}
}

func testVideo() *vimeo.Video {
	return &vimeo.Video{
		URI:         "/videos/789",
		Name:        "Winter Coast",
		Description: "Four hours of surf",
		Duration:    90,
		ReleaseTime: "2016-01-25T14:05:13-05:00",
		Pictures: &vimeo.Pictures{
			Sizes: []vimeo.PictureSize{
				{Width: 1280, Height: 720, Link: "https://i.vimeocdn.com/poster.jpg"},
			},
		},
		Files: []vimeo.VideoFile{
			{Quality: "hd", Type: "video/mp4", Width: 1920, Height: 1080, Link: "https://files/hd.mp4"},
			{Quality: "sd", Type: "video/mp4", Width: 640, Height: 360, Link: "https://files/sd.mp4"},
			{Quality: "hls", Type: "video/mp4", Width: 1920, Height: 1080, Link: "https://files/master.m3u8"},
			{Quality: "mobile", Type: "video/mp4", Width: 480, Height: 270, Link: "https://files/mobile.mp4"},
		},
	}
}

func TestTransformVideo(t *testing.T) {
	v, err := TransformVideo(nil, testVideo(), nil)
	if err != nil {
		t.Fatalf("TransformVideo error: %v", err)
	}

	if v.ID != "res-vimeo-/videos/789" {
		t.Errorf("ID = %q", v.ID)
	}
	if v.Duration != 90000 {
		t.Errorf("Duration = %d, want 90000", v.Duration)
	}
	if v.ReleaseDate != "2016-01-25T14:05:13-05:00" {
		t.Errorf("ReleaseDate = %q", v.ReleaseDate)
	}
	if len(v.Sources) != 4 {
		t.Fatalf("Sources len = %d, want 4", len(v.Sources))
	}

	hd := v.Sources[0]
	if hd.Label != "hd-1080" || hd.Container != "mp4" || hd.MimeType != "video/mp4" {
		t.Errorf("hd source = %+v", hd)
	}

	hls := v.Sources[2]
	if hls.Label != "hls" {
		t.Errorf("hls label = %q, want hls", hls.Label)
	}
	if hls.MimeType != "application/x-mpegURL" {
		t.Errorf("hls mimeType = %q, want application/x-mpegURL", hls.MimeType)
	}
	if hls.MaxBitrate != 0 {
		t.Errorf("hls maxBitrate = %d", hls.MaxBitrate)
	}
}

func TestTransformVideoBadReleaseTime(t *testing.T) {
	video := testVideo()
	video.ReleaseTime = "not-a-timestamp"

	if _, err := TransformVideo(nil, video, nil); err == nil {
		t.Error("expected error for unparseable release time")
	}
}

func TestTransformVideoConfigSuppliesHLS(t *testing.T) {
	video := testVideo()
	video.Files = video.Files[:2] // progressive only

	config := &vimeo.VideoConfig{
		Video: vimeo.ConfigVideo{Width: 1920, Height: 1080},
		Request: vimeo.ConfigRequest{
			Files: vimeo.ConfigFiles{
				HLS: &vimeo.ConfigHLS{URL: "https://player/master.m3u8"},
			},
		},
	}

	v, err := TransformVideo(nil, video, config)
	if err != nil {
		t.Fatalf("TransformVideo error: %v", err)
	}
	if len(v.Sources) != 3 {
		t.Fatalf("Sources len = %d, want 3", len(v.Sources))
	}
	hls := v.Sources[2]
	if hls.URL != "https://player/master.m3u8" || hls.Label != "hls" || hls.Height != 1080 {
		t.Errorf("config hls source = %+v", hls)
	}
}

func TestTransformVideoConfigIgnoredWhenFilesHaveHLS(t *testing.T) {
	config := &vimeo.VideoConfig{
		Request: vimeo.ConfigRequest{
			Files: vimeo.ConfigFiles{
				HLS: &vimeo.ConfigHLS{URL: "https://player/other.m3u8"},
			},
		},
	}

	v, err := TransformVideo(nil, testVideo(), config)
	if err != nil {
		t.Fatalf("TransformVideo error: %v", err)
	}
	if len(v.Sources) != 4 {
		t.Errorf("Sources len = %d, want 4", len(v.Sources))
	}
}

func TestTransformsArePure(t *testing.T) {
	album := testAlbum()
	first := TransformCollection(nil, album)
	second := TransformCollection(nil, album)
	if !reflect.DeepEqual(first, second) {
		t.Error("collection transform not deterministic")
	}
	if !reflect.DeepEqual(album, testAlbum()) {
		t.Error("collection transform mutated its input")
	}

	video := testVideo()
	v1, err := TransformVideo(nil, video, nil)
	if err != nil {
		t.Fatalf("TransformVideo error: %v", err)
	}
	v2, _ := TransformVideo(nil, video, nil)
	if !reflect.DeepEqual(v1, v2) {
		t.Error("video transform not deterministic")
	}
	if !reflect.DeepEqual(video, testVideo()) {
		t.Error("video transform mutated its input")
	}
}
