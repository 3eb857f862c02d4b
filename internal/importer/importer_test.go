package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groovebox/internal/store"
)

func newImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	return New(s), s
}

func TestImport_TracksAndPlaylists(t *testing.T) {
	imp, s := newImporter(t)

	m := Manifest{
		Tracks: []TrackEntry{
			{Artist: "Muse", TrackName: "Starlight", Album: "Black Holes and Revelations"},
			{Artist: "Muse", TrackName: "Hysteria"},
			{Artist: "MUSE", TrackName: "starlight"}, // duplicate of the first entry
		},
		Playlists: []PlaylistEntry{
			{Name: "Rock", Tracks: []TrackRef{
				{Artist: "muse", TrackName: "STARLIGHT"},
				{Artist: "Muse", TrackName: "Hysteria"},
				{Artist: "Unknown", TrackName: "Nowhere"},
			}},
		},
	}

	res, err := imp.Import(context.Background(), "user-1", m)
	require.NoError(t, err)

	assert.Equal(t, 2, res.TracksAdded)
	assert.Equal(t, 1, res.TracksExisting)
	assert.Equal(t, 1, res.PlaylistsCreated)
	assert.Equal(t, 0, res.PlaylistsMerged)
	assert.Equal(t, 1, res.TracksSkipped)

	pl, err := s.PlaylistByOwnerAndName("user-1", "Rock")
	require.NoError(t, err)
	require.Len(t, pl.TrackIDs, 2)

	tracks, err := s.TracksByIDs(pl.TrackIDs)
	require.NoError(t, err)
	assert.Equal(t, "Starlight", tracks[0].TrackName)
	assert.Equal(t, "Hysteria", tracks[1].TrackName)
}

func TestImport_MergesExistingPlaylist(t *testing.T) {
	imp, s := newImporter(t)

	first := Manifest{
		Tracks:    []TrackEntry{{Artist: "Muse", TrackName: "Starlight"}},
		Playlists: []PlaylistEntry{{Name: "Rock", Tracks: []TrackRef{{Artist: "Muse", TrackName: "Starlight"}}}},
	}
	_, err := imp.Import(context.Background(), "user-1", first)
	require.NoError(t, err)

	second := Manifest{
		Tracks: []TrackEntry{
			{Artist: "Muse", TrackName: "Starlight"},
			{Artist: "Muse", TrackName: "Hysteria"},
		},
		Playlists: []PlaylistEntry{{Name: "rock", Tracks: []TrackRef{
			{Artist: "Muse", TrackName: "Hysteria"},
			{Artist: "Muse", TrackName: "Starlight"},
		}}},
	}
	res, err := imp.Import(context.Background(), "user-1", second)
	require.NoError(t, err)

	assert.Equal(t, 1, res.TracksAdded)
	assert.Equal(t, 1, res.TracksExisting)
	assert.Equal(t, 0, res.PlaylistsCreated)
	assert.Equal(t, 1, res.PlaylistsMerged)

	// Missing refs append after the existing ids, which keep their order.
	pl, err := s.PlaylistByOwnerAndName("user-1", "Rock")
	require.NoError(t, err)
	tracks, err := s.TracksByIDs(pl.TrackIDs)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Starlight", tracks[0].TrackName)
	assert.Equal(t, "Hysteria", tracks[1].TrackName)
}

func TestImport_RefResolvesAgainstLibrary(t *testing.T) {
	imp, s := newImporter(t)

	// The referenced track is already in the library but absent from the
	// manifest's own track list.
	_, err := s.AddTrack(store.Track{Artist: "Portishead", TrackName: "Glory Box"})
	require.NoError(t, err)

	m := Manifest{
		Playlists: []PlaylistEntry{{Name: "Trip Hop", Tracks: []TrackRef{
			{Artist: "portishead", TrackName: "glory box"},
		}}},
	}
	res, err := imp.Import(context.Background(), "user-1", m)
	require.NoError(t, err)

	assert.Equal(t, 0, res.TracksSkipped)
	pl, err := s.PlaylistByOwnerAndName("user-1", "Trip Hop")
	require.NoError(t, err)
	assert.Len(t, pl.TrackIDs, 1)
}

func TestImport_RejectsInvalidManifest(t *testing.T) {
	imp, _ := newImporter(t)

	m := Manifest{Tracks: []TrackEntry{{Artist: " ", TrackName: "Starlight"}}}
	_, err := imp.Import(context.Background(), "user-1", m)
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

func TestImport_HonorsContextCancellation(t *testing.T) {
	imp, _ := newImporter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := imp.Import(ctx, "user-1", Manifest{})
	assert.ErrorIs(t, err, context.Canceled)
}
