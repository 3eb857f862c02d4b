package playlists

import (
	"context"

	"groovebox/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	PlaylistsByOwner(userID string, page, limit int) (store.Page[store.Playlist], error)
	PlaylistByID(id, userID string) (store.Playlist, error)
	CreatePlaylist(playlist store.Playlist) (store.Playlist, error)
	UpdatePlaylist(id, userID string, upd store.PlaylistUpdate) (store.Playlist, error)
	DeletePlaylist(id, userID string) error
	AddTracksToPlaylist(id, userID string, trackIDs []string) (store.Playlist, error)
	RemoveTrackFromPlaylist(id, userID, trackID string) (store.Playlist, error)
}

// Service coordinates playlist-related operations.
type Service interface {
	List(ctx context.Context, userID string, page, limit int) (store.Page[store.Playlist], error)
	Get(ctx context.Context, id, userID string) (store.Playlist, error)
	Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error)
	Update(ctx context.Context, id, userID string, upd store.PlaylistUpdate) (store.Playlist, error)
	Delete(ctx context.Context, id, userID string) error
	AddTracks(ctx context.Context, id, userID string, trackIDs []string) (store.Playlist, error)
	RemoveTrack(ctx context.Context, id, userID, trackID string) (store.Playlist, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(s Store) Service {
	return &service{store: s}
}

func (s *service) List(ctx context.Context, userID string, page, limit int) (store.Page[store.Playlist], error) {
	if err := ctx.Err(); err != nil {
		return store.Page[store.Playlist]{}, err
	}
	return s.store.PlaylistsByOwner(userID, page, limit)
}

func (s *service) Get(ctx context.Context, id, userID string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.PlaylistByID(id, userID)
}

func (s *service) Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.CreatePlaylist(playlist)
}

func (s *service) Update(ctx context.Context, id, userID string, upd store.PlaylistUpdate) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.UpdatePlaylist(id, userID, upd)
}

func (s *service) Delete(ctx context.Context, id, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeletePlaylist(id, userID)
}

func (s *service) AddTracks(ctx context.Context, id, userID string, trackIDs []string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.AddTracksToPlaylist(id, userID, trackIDs)
}

func (s *service) RemoveTrack(ctx context.Context, id, userID, trackID string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.RemoveTrackFromPlaylist(id, userID, trackID)
}
