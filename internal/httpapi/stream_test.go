package httpapi_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"groovebox/internal/store"
)

// seedTrackFile stores a track whose audio file holds `size` sequential
// bytes, so range assertions can check exact content.
func (e *env) seedTrackFile(t *testing.T, artist, name, filename string, size int) store.Track {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(filepath.Join(e.songsDir, filename), data, 0o644))

	track, err := e.store.AddTrack(store.Track{Artist: artist, TrackName: name, FilePath: filename})
	require.NoError(t, err)
	return track
}

func (e *env) stream(t *testing.T, token, trackID, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracks/"+trackID+"/stream", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestStreamTrack_Ranges(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "alice", "s3cret")
	track := e.seedTrackFile(t, "Muse", "Starlight", "starlight.mp3", 1000)

	tests := []struct {
		name        string
		rangeHeader string
		wantStatus  int
		wantLen     int
		wantRange   string
		wantFirst   byte
	}{
		{name: "no range serves full file", wantStatus: http.StatusOK, wantLen: 1000, wantFirst: 0},
		{name: "tail range", rangeHeader: "bytes=900-999", wantStatus: http.StatusPartialContent,
			wantLen: 100, wantRange: "bytes 900-999/1000", wantFirst: byte(900 % 251)},
		{name: "open-ended range", rangeHeader: "bytes=500-", wantStatus: http.StatusPartialContent,
			wantLen: 500, wantRange: "bytes 500-999/1000", wantFirst: byte(500 % 251)},
		{name: "single byte", rangeHeader: "bytes=0-0", wantStatus: http.StatusPartialContent,
			wantLen: 1, wantRange: "bytes 0-0/1000", wantFirst: 0},
		{name: "end past file size", rangeHeader: "bytes=0-1023",
			wantStatus: http.StatusRequestedRangeNotSatisfiable},
		{name: "start past file size", rangeHeader: "bytes=1000-",
			wantStatus: http.StatusRequestedRangeNotSatisfiable},
		{name: "inverted range", rangeHeader: "bytes=500-100",
			wantStatus: http.StatusRequestedRangeNotSatisfiable},
		{name: "malformed range", rangeHeader: "bytes=abc",
			wantStatus: http.StatusRequestedRangeNotSatisfiable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.stream(t, token, track.ID, tt.rangeHeader)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusRequestedRangeNotSatisfiable {
				assert.Equal(t, "bytes */1000", rec.Header().Get("Content-Range"))
				return
			}

			assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
			assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
			if tt.wantRange != "" {
				assert.Equal(t, tt.wantRange, rec.Header().Get("Content-Range"))
			}

			body := rec.Body.Bytes()
			require.Len(t, body, tt.wantLen)
			assert.Equal(t, tt.wantFirst, body[0])
		})
	}
}

func TestStreamTrack_Missing(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "alice", "s3cret")

	// Unknown track id.
	rec := e.stream(t, token, "missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec))

	// Metadata-only track, no audio on disk.
	track, err := e.store.AddTrack(store.Track{Artist: "Muse", TrackName: "Unreleased"})
	require.NoError(t, err)
	rec = e.stream(t, token, track.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FILE_NOT_FOUND", decodeError(t, rec))

	// File path recorded but nothing on disk.
	track, err = e.store.AddTrack(store.Track{Artist: "Muse", TrackName: "Lost", FilePath: "gone.mp3"})
	require.NoError(t, err)
	rec = e.stream(t, token, track.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FILE_NOT_FOUND", decodeError(t, rec))
}

func TestStreamTrack_NormalizedFilename(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "alice", "s3cret")

	// File stored under NFD, metadata records NFC.
	onDisk := norm.NFD.String("café.mp3")
	require.NoError(t, os.WriteFile(filepath.Join(e.songsDir, onDisk), []byte("audio"), 0o644))

	track, err := e.store.AddTrack(store.Track{
		Artist: "Curtis", TrackName: "Café Song", FilePath: norm.NFC.String("café.mp3"),
	})
	require.NoError(t, err)

	rec := e.stream(t, token, track.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio", rec.Body.String())
}

func TestDownloadTrack(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "alice", "s3cret")
	track := e.seedTrackFile(t, "AC/DC", "Back in Black", "back-in-black.mp3", 64)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tracks/"+track.ID+"/download", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	// Downloads ignore Range and always serve the whole file.
	req.Header.Set("Range", "bytes=0-9")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="AC_DC - Back in Black.mp3"`, rec.Header().Get("Content-Disposition"))
	assert.Len(t, rec.Body.Bytes(), 64)
}

func TestDownloadPlaylist(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "alice", "s3cret")

	first := e.seedTrackFile(t, "Muse", "Starlight", "starlight.mp3", 32)
	second := e.seedTrackFile(t, "Muse", "Hysteria", "hysteria.mp3", 32)
	// A track whose file vanished is skipped, not fatal.
	ghost, err := e.store.AddTrack(store.Track{Artist: "Muse", TrackName: "Ghost", FilePath: "ghost.mp3"})
	require.NoError(t, err)

	// An id with no library entry and a track with no file both leave a gap
	// in the numbering rather than shifting later entries.
	rec := e.do(t, http.MethodPost, "/api/v1/playlists", token, map[string]any{
		"name":     "Mix",
		"trackIds": []string{first.ID, ghost.ID, "not-in-library", second.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var playlist store.Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlist))

	rec = e.do(t, http.MethodGet, "/api/v1/playlists/"+playlist.ID+"/download", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Mix.zip"`, rec.Header().Get("Content-Disposition"))

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)
	assert.Equal(t, "01 - Muse - Starlight.mp3", reader.File[0].Name)
	assert.Equal(t, "04 - Muse - Hysteria.mp3", reader.File[1].Name)
}

func TestDownloadPlaylist_Empty(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "alice", "s3cret")

	rec := e.do(t, http.MethodPost, "/api/v1/playlists", token, map[string]any{"name": "Empty"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var playlist store.Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlist))

	rec = e.do(t, http.MethodGet, "/api/v1/playlists/"+playlist.ID+"/download", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec))
}
