package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Playlist is an ordered, duplicate-free sequence of track ids owned by
// exactly one user. Order is meaningful: it defines playback and export
// order and survives every mutation that is not an explicit reorder.
type Playlist struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	TrackIDs  []string  `json:"trackIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlaylistUpdate carries the mutable playlist fields; nil means unchanged.
type PlaylistUpdate struct {
	Name     *string
	TrackIDs []string
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// dedupIDs keeps the first occurrence of each id, preserving order.
func dedupIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// PlaylistsByOwner lists the user's playlists, paginated in insertion order.
func (s *Store) PlaylistsByOwner(userID string, page, limit int) (Page[Playlist], error) {
	playlists, err := s.playlists.LoadAll()
	if err != nil {
		return Page[Playlist]{}, err
	}

	owned := make([]Playlist, 0, len(playlists))
	for _, p := range playlists {
		if p.UserID == userID {
			owned = append(owned, p)
		}
	}
	return paginate(owned, page, limit), nil
}

// PlaylistByID returns a playlist by id. Unlike the mutating operations, the
// read path distinguishes a foreign playlist (ErrPlaylistForbidden) from an
// absent one.
func (s *Store) PlaylistByID(id, userID string) (Playlist, error) {
	playlists, err := s.playlists.LoadAll()
	if err != nil {
		return Playlist{}, err
	}
	for _, p := range playlists {
		if p.ID == id {
			if p.UserID != userID {
				return Playlist{}, ErrPlaylistForbidden
			}
			return p, nil
		}
	}
	return Playlist{}, ErrPlaylistNotFound
}

// PlaylistByOwnerAndName finds the user's playlist with a case-insensitive
// name match. Used as the pre-create duplicate check and the import-merge
// target.
func (s *Store) PlaylistByOwnerAndName(userID, name string) (Playlist, error) {
	playlists, err := s.playlists.LoadAll()
	if err != nil {
		return Playlist{}, err
	}
	for _, p := range playlists {
		if p.UserID == userID && sameName(p.Name, name) {
			return p, nil
		}
	}
	return Playlist{}, ErrPlaylistNotFound
}

// CreatePlaylist persists a new playlist, rejecting a case-insensitive name
// collision within the owner. Track ids are deduplicated, first occurrence
// wins.
func (s *Store) CreatePlaylist(playlist Playlist) (Playlist, error) {
	if playlist.ID == "" {
		playlist.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	playlist.TrackIDs = dedupIDs(playlist.TrackIDs)

	err := s.playlists.Update(func(playlists []Playlist) ([]Playlist, bool, error) {
		for _, p := range playlists {
			if p.UserID == playlist.UserID && sameName(p.Name, playlist.Name) {
				return nil, false, ErrDuplicatePlaylist
			}
		}
		return append(playlists, playlist), true, nil
	})
	if err != nil {
		return Playlist{}, err
	}
	return playlist, nil
}

// UpdatePlaylist renames and/or replaces the track list of an owned
// playlist. Ownership mismatch reports ErrPlaylistNotFound so the operation
// does not confirm the playlist's existence to a non-owner.
func (s *Store) UpdatePlaylist(id, userID string, upd PlaylistUpdate) (Playlist, error) {
	var updated Playlist

	err := s.playlists.Update(func(playlists []Playlist) ([]Playlist, bool, error) {
		idx := findOwnedPlaylist(playlists, id, userID)
		if idx < 0 {
			return nil, false, ErrPlaylistNotFound
		}

		if upd.Name != nil {
			for i, p := range playlists {
				if i != idx && p.UserID == userID && sameName(p.Name, *upd.Name) {
					return nil, false, ErrDuplicatePlaylist
				}
			}
			playlists[idx].Name = *upd.Name
		}
		if upd.TrackIDs != nil {
			playlists[idx].TrackIDs = dedupIDs(upd.TrackIDs)
		}
		playlists[idx].UpdatedAt = time.Now().UTC()

		updated = playlists[idx]
		return playlists, true, nil
	})
	if err != nil {
		return Playlist{}, err
	}
	return updated, nil
}

// DeletePlaylist removes an owned playlist.
func (s *Store) DeletePlaylist(id, userID string) error {
	return s.playlists.Update(func(playlists []Playlist) ([]Playlist, bool, error) {
		idx := findOwnedPlaylist(playlists, id, userID)
		if idx < 0 {
			return nil, false, ErrPlaylistNotFound
		}
		return append(playlists[:idx], playlists[idx+1:]...), true, nil
	})
}

// AddTracksToPlaylist appends the ids not already present, in argument
// order, never reordering existing entries. Already-present ids are silent
// no-ops, and updatedAt moves only when at least one id was actually
// appended.
func (s *Store) AddTracksToPlaylist(id, userID string, trackIDs []string) (Playlist, error) {
	var updated Playlist

	err := s.playlists.Update(func(playlists []Playlist) ([]Playlist, bool, error) {
		idx := findOwnedPlaylist(playlists, id, userID)
		if idx < 0 {
			return nil, false, ErrPlaylistNotFound
		}

		present := make(map[string]struct{}, len(playlists[idx].TrackIDs))
		for _, tid := range playlists[idx].TrackIDs {
			present[tid] = struct{}{}
		}

		appended := false
		for _, tid := range trackIDs {
			if _, ok := present[tid]; ok {
				continue
			}
			present[tid] = struct{}{}
			playlists[idx].TrackIDs = append(playlists[idx].TrackIDs, tid)
			appended = true
		}
		if appended {
			playlists[idx].UpdatedAt = time.Now().UTC()
		}

		updated = playlists[idx]
		return playlists, appended, nil
	})
	if err != nil {
		return Playlist{}, err
	}
	return updated, nil
}

// RemoveTrackFromPlaylist filters the id out of the playlist. Removing an
// absent id is a safe no-op, but updatedAt is bumped either way.
func (s *Store) RemoveTrackFromPlaylist(id, userID, trackID string) (Playlist, error) {
	var updated Playlist

	err := s.playlists.Update(func(playlists []Playlist) ([]Playlist, bool, error) {
		idx := findOwnedPlaylist(playlists, id, userID)
		if idx < 0 {
			return nil, false, ErrPlaylistNotFound
		}

		kept := playlists[idx].TrackIDs[:0]
		for _, tid := range playlists[idx].TrackIDs {
			if tid != trackID {
				kept = append(kept, tid)
			}
		}
		playlists[idx].TrackIDs = kept
		playlists[idx].UpdatedAt = time.Now().UTC()

		updated = playlists[idx]
		return playlists, true, nil
	})
	if err != nil {
		return Playlist{}, err
	}
	return updated, nil
}

// MergePlaylist implements import-merge: when the user already has a
// playlist with this name (case-insensitive) the ids not yet present are
// appended at the end in source order; otherwise a new playlist is created
// with the source ids deduplicated, first occurrence winning. The returned
// flag reports whether a playlist was created.
func (s *Store) MergePlaylist(userID, name string, trackIDs []string) (Playlist, bool, error) {
	var (
		merged  Playlist
		created bool
	)

	err := s.playlists.Update(func(playlists []Playlist) ([]Playlist, bool, error) {
		for i, p := range playlists {
			if p.UserID != userID || !sameName(p.Name, name) {
				continue
			}

			present := make(map[string]struct{}, len(p.TrackIDs))
			for _, tid := range p.TrackIDs {
				present[tid] = struct{}{}
			}
			appended := false
			for _, tid := range trackIDs {
				if _, ok := present[tid]; ok {
					continue
				}
				present[tid] = struct{}{}
				playlists[i].TrackIDs = append(playlists[i].TrackIDs, tid)
				appended = true
			}
			if appended {
				playlists[i].UpdatedAt = time.Now().UTC()
			}

			merged = playlists[i]
			return playlists, appended, nil
		}

		now := time.Now().UTC()
		merged = Playlist{
			ID:        uuid.New().String(),
			UserID:    userID,
			Name:      name,
			TrackIDs:  dedupIDs(trackIDs),
			CreatedAt: now,
			UpdatedAt: now,
		}
		created = true
		return append(playlists, merged), true, nil
	})
	if err != nil {
		return Playlist{}, false, err
	}
	return merged, created, nil
}

// findOwnedPlaylist returns the index of the playlist with the given id only
// when it belongs to userID, -1 otherwise. Ownership is enforced here at the
// data layer so a handler that forgets the check cannot bypass it.
func findOwnedPlaylist(playlists []Playlist, id, userID string) int {
	for i, p := range playlists {
		if p.ID == id && p.UserID == userID {
			return i
		}
	}
	return -1
}
