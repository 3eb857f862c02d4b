package tracks

import (
	"context"

	"groovebox/internal/store"
)

// Store captures the persistence needs for track workflows.
type Store interface {
	TrackByID(id string) (store.Track, error)
	TracksByIDs(ids []string) ([]store.Track, error)
	SearchTracks(query string, page, limit int, sort string) (store.Page[store.Track], error)
}

// Service coordinates track-level operations.
type Service interface {
	Get(ctx context.Context, id string) (store.Track, error)
	ByIDs(ctx context.Context, ids []string) ([]store.Track, error)
	Search(ctx context.Context, query string, page, limit int, sort string) (store.Page[store.Track], error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(s Store) Service {
	return &service{store: s}
}

func (s *service) Get(ctx context.Context, id string) (store.Track, error) {
	if err := ctx.Err(); err != nil {
		return store.Track{}, err
	}
	return s.store.TrackByID(id)
}

func (s *service) ByIDs(ctx context.Context, ids []string) ([]store.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.TracksByIDs(ids)
}

func (s *service) Search(ctx context.Context, query string, page, limit int, sort string) (store.Page[store.Track], error) {
	if err := ctx.Err(); err != nil {
		return store.Page[store.Track]{}, err
	}
	return s.store.SearchTracks(query, page, limit, sort)
}
