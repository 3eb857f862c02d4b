package store

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Track is one entry in the library. The case-insensitive (artist, trackName)
// pair is the dedup key for every ingestion path; FilePath is relative to the
// configured songs root and may be empty for metadata-only tracks.
type Track struct {
	ID            string    `json:"id"`
	TrackName     string    `json:"trackName"`
	Artist        string    `json:"artist"`
	Album         string    `json:"album,omitempty"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	DurationMs    int64     `json:"durationMs,omitempty"`
	SourceURL     string    `json:"sourceUrl,omitempty"`
	FilePath      string    `json:"filePath,omitempty"`
	ThumbnailPath string    `json:"thumbnailPath,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func trackKey(artist, name string) string {
	return strings.ToLower(strings.TrimSpace(artist)) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

// TrackByID returns the track with the given id.
func (s *Store) TrackByID(id string) (Track, error) {
	tracks, err := s.tracks.LoadAll()
	if err != nil {
		return Track{}, err
	}
	for _, t := range tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return Track{}, ErrTrackNotFound
}

// TracksByIDs resolves ids to tracks, preserving input order and silently
// skipping ids with no match.
func (s *Store) TracksByIDs(ids []string) ([]Track, error) {
	tracks, err := s.tracks.LoadAll()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}

	resolved := make([]Track, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			resolved = append(resolved, t)
		}
	}
	return resolved, nil
}

// TrackByArtistAndName performs a case-insensitive exact match on both
// fields. This is the sole dedup lookup for ingestion.
func (s *Store) TrackByArtistAndName(artist, name string) (Track, error) {
	tracks, err := s.tracks.LoadAll()
	if err != nil {
		return Track{}, err
	}
	key := trackKey(artist, name)
	for _, t := range tracks {
		if trackKey(t.Artist, t.TrackName) == key {
			return t, nil
		}
	}
	return Track{}, ErrTrackNotFound
}

// SearchTracks filters the library by a case-insensitive substring match
// OR'd across trackName, artist and album. sort=newest orders by createdAt
// descending; the default is insertion order.
func (s *Store) SearchTracks(query string, page, limit int, sortOrder string) (Page[Track], error) {
	tracks, err := s.tracks.LoadAll()
	if err != nil {
		return Page[Track]{}, err
	}

	matches := tracks
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		matches = make([]Track, 0, len(tracks))
		for _, t := range tracks {
			if strings.Contains(strings.ToLower(t.TrackName), q) ||
				strings.Contains(strings.ToLower(t.Artist), q) ||
				strings.Contains(strings.ToLower(t.Album), q) {
				matches = append(matches, t)
			}
		}
	}

	if sortOrder == "newest" {
		sorted := make([]Track, len(matches))
		copy(sorted, matches)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
		matches = sorted
	}

	return paginate(matches, page, limit), nil
}

// AddTrack ingests one track. If a track with the same (artist, trackName)
// already exists the existing track is returned and nothing is written, so
// repeated ingestion of the same source is idempotent.
func (s *Store) AddTrack(track Track) (Track, error) {
	resolved, _, err := s.AddTracks([]Track{track})
	if err != nil {
		return Track{}, err
	}
	return resolved[0], nil
}

// AddTracks applies the dedup rule per element within a single
// load-mutate-save cycle, so concurrent imports of the same file cannot
// overwrite each other. It returns the stored track for every input (new or
// pre-existing, in input order) and the count actually appended.
func (s *Store) AddTracks(incoming []Track) ([]Track, int, error) {
	resolved := make([]Track, 0, len(incoming))
	added := 0

	err := s.tracks.Update(func(tracks []Track) ([]Track, bool, error) {
		byKey := make(map[string]Track, len(tracks))
		for _, t := range tracks {
			byKey[trackKey(t.Artist, t.TrackName)] = t
		}

		for _, in := range incoming {
			key := trackKey(in.Artist, in.TrackName)
			if existing, ok := byKey[key]; ok {
				resolved = append(resolved, existing)
				continue
			}

			if in.ID == "" {
				in.ID = uuid.New().String()
			}
			if in.CreatedAt.IsZero() {
				in.CreatedAt = time.Now().UTC()
			}
			tracks = append(tracks, in)
			byKey[key] = in
			resolved = append(resolved, in)
			added++
		}

		return tracks, added > 0, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return resolved, added, nil
}
