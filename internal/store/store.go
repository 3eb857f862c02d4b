// Package store provides the repositories for the music library. Every
// resource lives in its own JSON array file; each operation is one
// load-mutate-save cycle against the owning collection.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"groovebox/internal/jsondb"
)

var (
	// ErrTrackNotFound signals a lookup for an unknown track.
	ErrTrackNotFound = errors.New("track not found")
	// ErrPlaylistNotFound covers both absent playlists and mutations issued
	// by a caller who does not own the playlist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrPlaylistForbidden is returned by the playlist read path when the
	// playlist exists but belongs to another user.
	ErrPlaylistForbidden = errors.New("playlist belongs to another user")
	// ErrDuplicatePlaylist signals a name collision within one owner.
	ErrDuplicatePlaylist = errors.New("playlist name already in use")
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound signals a lookup for an unknown user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store provides persistence backed by per-resource JSON files.
type Store struct {
	tracks    *jsondb.Collection[Track]
	playlists *jsondb.Collection[Playlist]
	users     *jsondb.Collection[User]
	blocklist *jsondb.Collection[BlocklistEntry]
}

// New sets up a Store rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		tracks:    jsondb.NewCollection[Track](filepath.Join(dataDir, "tracks.json")),
		playlists: jsondb.NewCollection[Playlist](filepath.Join(dataDir, "playlists.json")),
		users:     jsondb.NewCollection[User](filepath.Join(dataDir, "users.json")),
		blocklist: jsondb.NewCollection[BlocklistEntry](filepath.Join(dataDir, "token_blocklist.json")),
	}, nil
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// paginate clamps limit to [1, maxPageSize] (defaulting when unset) and page
// to [1, totalPages], then slices out the requested window. A page past the
// end returns the last page rather than an empty one.
func paginate[T any](items []T, page, limit int) Page[T] {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
