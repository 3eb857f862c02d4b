// Package importer ingests library manifests produced by external tooling:
// a batch of track metadata plus optional playlists referencing those tracks
// by (artist, trackName).
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"groovebox/internal/store"
)

// ErrInvalidManifest signals a manifest the importer cannot accept.
var ErrInvalidManifest = errors.New("invalid manifest")

// TrackEntry is one track in a manifest.
type TrackEntry struct {
	Artist        string `json:"artist"`
	TrackName     string `json:"trackName"`
	Album         string `json:"album,omitempty"`
	ReleaseDate   string `json:"releaseDate,omitempty"`
	DurationMs    int64  `json:"durationMs,omitempty"`
	SourceURL     string `json:"sourceUrl,omitempty"`
	FilePath      string `json:"filePath,omitempty"`
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
}

// TrackRef identifies a track within the manifest's playlists.
type TrackRef struct {
	Artist    string `json:"artist"`
	TrackName string `json:"trackName"`
}

// PlaylistEntry is one playlist in a manifest. Track order is the source
// file order and is preserved on import.
type PlaylistEntry struct {
	Name   string     `json:"name"`
	Tracks []TrackRef `json:"tracks"`
}

// Manifest is the full ingestion payload.
type Manifest struct {
	Tracks    []TrackEntry    `json:"tracks"`
	Playlists []PlaylistEntry `json:"playlists,omitempty"`
}

// Result summarizes what an import actually changed.
type Result struct {
	TracksAdded      int `json:"tracksAdded"`
	TracksExisting   int `json:"tracksExisting"`
	PlaylistsCreated int `json:"playlistsCreated"`
	PlaylistsMerged  int `json:"playlistsMerged"`
	TracksSkipped    int `json:"tracksSkipped"`
}

// Importer feeds manifests into the track and playlist repositories.
type Importer struct {
	store *store.Store
}

// New creates an Importer backed by the given store.
func New(s *store.Store) *Importer {
	return &Importer{store: s}
}

// Import ingests the manifest for the given user. Tracks dedup on the
// case-insensitive (artist, trackName) key in one store cycle; playlists
// merge into an existing same-named playlist or are created fresh. Playlist
// refs that match nothing in the library are counted and skipped rather than
// failing the import.
func (i *Importer) Import(ctx context.Context, userID string, m Manifest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var res Result

	incoming := make([]store.Track, 0, len(m.Tracks))
	for _, e := range m.Tracks {
		if strings.TrimSpace(e.Artist) == "" || strings.TrimSpace(e.TrackName) == "" {
			return Result{}, fmt.Errorf("%w: track missing artist or trackName", ErrInvalidManifest)
		}
		incoming = append(incoming, store.Track{
			TrackName:     e.TrackName,
			Artist:        e.Artist,
			Album:         e.Album,
			ReleaseDate:   e.ReleaseDate,
			DurationMs:    e.DurationMs,
			SourceURL:     e.SourceURL,
			FilePath:      e.FilePath,
			ThumbnailPath: e.ThumbnailPath,
		})
	}

	resolved, added, err := i.store.AddTracks(incoming)
	if err != nil {
		return Result{}, err
	}
	res.TracksAdded = added
	res.TracksExisting = len(resolved) - added

	// Index the resolved tracks so playlist refs hit the manifest's own
	// tracks without another store read.
	byKey := make(map[string]string, len(resolved))
	for _, t := range resolved {
		byKey[refKey(t.Artist, t.TrackName)] = t.ID
	}

	for _, pl := range m.Playlists {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ids := make([]string, 0, len(pl.Tracks))
		for _, ref := range pl.Tracks {
			id, ok := byKey[refKey(ref.Artist, ref.TrackName)]
			if !ok {
				t, err := i.store.TrackByArtistAndName(ref.Artist, ref.TrackName)
				if errors.Is(err, store.ErrTrackNotFound) {
					res.TracksSkipped++
					continue
				}
				if err != nil {
					return res, err
				}
				id = t.ID
			}
			ids = append(ids, id)
		}

		_, created, err := i.store.MergePlaylist(userID, pl.Name, ids)
		if err != nil {
			return res, err
		}
		if created {
			res.PlaylistsCreated++
		} else {
			res.PlaylistsMerged++
		}
	}

	return res, nil
}

func refKey(artist, name string) string {
	return strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}
