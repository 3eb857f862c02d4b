// Package httpapi wires the HTTP surface of the music library.
package httpapi

import (
	"context"
	"net/http"

	"groovebox/internal/importer"
	"groovebox/internal/store"

	"github.com/rs/zerolog"
)

// UserService captures the account and session operations needed by the
// HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, username, password string) (store.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, rawToken string) error
	Identify(ctx context.Context, rawToken string) (string, error)
}

// TrackService coordinates track-level operations.
type TrackService interface {
	Get(ctx context.Context, id string) (store.Track, error)
	ByIDs(ctx context.Context, ids []string) ([]store.Track, error)
	Search(ctx context.Context, query string, page, limit int, sort string) (store.Page[store.Track], error)
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	List(ctx context.Context, userID string, page, limit int) (store.Page[store.Playlist], error)
	Get(ctx context.Context, id, userID string) (store.Playlist, error)
	Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error)
	Update(ctx context.Context, id, userID string, upd store.PlaylistUpdate) (store.Playlist, error)
	Delete(ctx context.Context, id, userID string) error
	AddTracks(ctx context.Context, id, userID string, trackIDs []string) (store.Playlist, error)
	RemoveTrack(ctx context.Context, id, userID, trackID string) (store.Playlist, error)
}

// LibraryService ingests external library manifests.
type LibraryService interface {
	Import(ctx context.Context, userID string, m importer.Manifest) (importer.Result, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	tracks    TrackService
	playlists PlaylistService
	library   LibraryService
	songsRoot string
	logger    zerolog.Logger
}

// New configures a Server with the given services and songs root directory.
func New(
	users UserService,
	tracks TrackService,
	playlists PlaylistService,
	library LibraryService,
	songsRoot string,
	logger zerolog.Logger,
) *Server {
	return &Server{
		users:     users,
		tracks:    tracks,
		playlists: playlists,
		library:   library,
		songsRoot: songsRoot,
		logger:    logger,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)

	mux.HandleFunc("GET /api/v1/tracks", s.handleSearchTracks)
	mux.HandleFunc("GET /api/v1/tracks/{id}", s.handleGetTrack)
	mux.HandleFunc("GET /api/v1/tracks/{id}/stream", s.handleStreamTrack)
	mux.HandleFunc("GET /api/v1/tracks/{id}/download", s.handleDownloadTrack)

	mux.HandleFunc("GET /api/v1/playlists", s.handleListPlaylists)
	mux.HandleFunc("POST /api/v1/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("GET /api/v1/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("PUT /api/v1/playlists/{id}", s.handleUpdatePlaylist)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}", s.handleDeletePlaylist)
	mux.HandleFunc("POST /api/v1/playlists/{id}/tracks", s.handleAddPlaylistTracks)
	mux.HandleFunc("DELETE /api/v1/playlists/{id}/tracks/{trackId}", s.handleRemovePlaylistTrack)
	mux.HandleFunc("GET /api/v1/playlists/{id}/download", s.handleDownloadPlaylist)

	mux.HandleFunc("POST /api/v1/library/import", s.handleImport)

	return RequestLogging(s.logger)(Recovery(s.logger)(mux))
}

// authenticate resolves the bearer token to a user id, writing the error
// response itself when the request is not authenticated.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return "", false
	}

	userID, err := s.users.Identify(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return "", false
	}
	return userID, true
}
