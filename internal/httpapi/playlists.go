package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"groovebox/internal/archive"
	"groovebox/internal/songfile"
	"groovebox/internal/store"
)

type createPlaylistRequest struct {
	Name     string   `json:"name"`
	TrackIDs []string `json:"trackIds"`
}

type updatePlaylistRequest struct {
	Name     *string  `json:"name"`
	TrackIDs []string `json:"trackIds"`
}

type addTracksRequest struct {
	TrackIDs []string `json:"trackIds"`
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	page, limit := parsePageLimit(r)
	result, err := s.playlists.List(r.Context(), userID, page, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid JSON payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "playlist name is required")
		return
	}

	created, err := s.playlists.Create(r.Context(), store.Playlist{
		UserID:   userID,
		Name:     req.Name,
		TrackIDs: req.TrackIDs,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlist, err := s.playlists.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req updatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid JSON payload")
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "playlist name cannot be empty")
		return
	}

	updated, err := s.playlists.Update(r.Context(), r.PathValue("id"), userID, store.PlaylistUpdate{
		Name:     req.Name,
		TrackIDs: req.TrackIDs,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	if err := s.playlists.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req addTracksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid JSON payload")
		return
	}
	if len(req.TrackIDs) == 0 {
		writeError(w, http.StatusBadRequest, codeValidation, "trackIds is required")
		return
	}

	updated, err := s.playlists.AddTracks(r.Context(), r.PathValue("id"), userID, req.TrackIDs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemovePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	updated, err := s.playlists.RemoveTrack(r.Context(), r.PathValue("id"), userID, r.PathValue("trackId"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDownloadPlaylist streams the playlist's audio files as a ZIP
// archive, numbered in playlist order. Tracks whose file cannot be resolved
// are skipped with a warning; only an empty playlist fails the request.
func (s *Server) handleDownloadPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlist, err := s.playlists.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if len(playlist.TrackIDs) == 0 {
		writeError(w, http.StatusBadRequest, codeValidation, "playlist has no tracks")
		return
	}

	tracks, err := s.tracks.ByIDs(r.Context(), playlist.TrackIDs)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	byID := make(map[string]store.Track, len(tracks))
	for _, track := range tracks {
		byID[track.ID] = track
	}

	// Entries are numbered by playlist position, so a skipped track leaves a
	// gap instead of shifting the names that follow it.
	files := make([]archive.File, 0, len(playlist.TrackIDs))
	for i, trackID := range playlist.TrackIDs {
		track, ok := byID[trackID]
		if !ok {
			s.logger.Warn().Str("track_id", trackID).Msg("skipping unknown track id")
			continue
		}
		if track.FilePath == "" {
			s.logger.Warn().Str("track_id", track.ID).Msg("skipping track without audio file")
			continue
		}
		path, err := songfile.Resolve(s.songsRoot, track.FilePath)
		if err != nil {
			s.logger.Warn().Str("track_id", track.ID).Str("file_path", track.FilePath).Msg("skipping unresolvable track file")
			continue
		}
		name := fmt.Sprintf("%02d - %s", i+1,
			songfile.SanitizeFilename(track.Artist+" - "+track.TrackName+filepath.Ext(path)))
		files = append(files, archive.File{Name: name, Path: path})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", songfile.SanitizeFilename(playlist.Name)+".zip"))
	w.WriteHeader(http.StatusOK)

	if err := archive.WritePlaylist(w, files); err != nil {
		// Headers are already out; nothing to send but a log line.
		s.logger.Error().Err(err).Str("playlist_id", playlist.ID).Msg("playlist archive aborted")
	}
}
