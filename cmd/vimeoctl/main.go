// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

// Command vimeoctl issues ad-hoc authenticated requests against the
// Vimeo API with the same client the daemon uses.
//
//	vimeoctl list
//	vimeoctl req -method GetAlbum -args '{"albumUri":"/me/albums/456"}'
//
// The access token comes from -token or the VIMEO_ACCESS_TOKEN
// environment variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

type method struct {
	args string
	call func(ctx context.Context, client *vimeo.Client, args vimeo.Args) (interface{}, error)
}

var methods = map[string]method{
	"ListAlbums": {
		args: `{"query": {...}}`,
		call: func(ctx context.Context, c *vimeo.Client, a vimeo.Args) (interface{}, error) {
			return c.ListAlbums(ctx, a)
		},
	},
	"GetAlbum": {
		args: `{"albumUri": "/me/albums/{id}"}`,
		call: func(ctx context.Context, c *vimeo.Client, a vimeo.Args) (interface{}, error) {
			return c.GetAlbum(ctx, a)
		},
	},
	"ListVideosInAlbum": {
		args: `{"albumUri": "/me/albums/{id}", "query": {"page": "1"}}`,
		call: func(ctx context.Context, c *vimeo.Client, a vimeo.Args) (interface{}, error) {
			return c.ListVideosInAlbum(ctx, a)
		},
	},
	"ListVideos": {
		args: `{"query": {...}}`,
		call: func(ctx context.Context, c *vimeo.Client, a vimeo.Args) (interface{}, error) {
			return c.ListVideos(ctx, a)
		},
	},
	"GetVideo": {
		args: `{"videoUri": "/videos/{id}"}`,
		call: func(ctx context.Context, c *vimeo.Client, a vimeo.Args) (interface{}, error) {
			return c.GetVideo(ctx, a)
		},
	},
	"GetVideoConfig": {
		args: `{"videoUri": "/videos/{id}"}`,
		call: func(ctx context.Context, c *vimeo.Client, a vimeo.Args) (interface{}, error) {
			return c.GetVideoConfig(ctx, a)
		},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "list":
		listMethods()
	case "req":
		if err := request(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  vimeoctl list
  vimeoctl req -method <name> [-args <json>] [-token <token>]`)
}

func listMethods() {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-20s %s\n", name, methods[name].args)
	}
}

// cliArgs is the JSON argument object accepted by req.
type cliArgs struct {
	AlbumURI string            `json:"albumUri"`
	VideoURI string            `json:"videoUri"`
	Query    map[string]string `json:"query"`
}

func request(argv []string) error {
	fs := flag.NewFlagSet("req", flag.ExitOnError)
	methodName := fs.String("method", "", "client method to call (see vimeoctl list)")
	argsJSON := fs.String("args", "{}", "JSON argument object")
	token := fs.String("token", os.Getenv("VIMEO_ACCESS_TOKEN"), "Vimeo access token")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	if err := fs.Parse(argv); err != nil {
		return err
	}

	m, ok := methods[*methodName]
	if !ok {
		return fmt.Errorf("unknown method %q, try: vimeoctl list", *methodName)
	}
	if *token == "" {
		return fmt.Errorf("access token required: -token or VIMEO_ACCESS_TOKEN")
	}

	var parsed cliArgs
	if err := json.Unmarshal([]byte(*argsJSON), &parsed); err != nil {
		return fmt.Errorf("parse -args: %w", err)
	}

	args := vimeo.Args{AlbumURI: parsed.AlbumURI, VideoURI: parsed.VideoURI}
	if len(parsed.Query) > 0 {
		args.Query = url.Values{}
		for key, value := range parsed.Query {
			args.Query.Set(key, value)
		}
	}

	client := vimeo.NewClient(vimeo.Options{AccessToken: *token})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := m.call(ctx, client, args)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
