package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"groovebox/internal/songfile"
	"groovebox/internal/store"
)

var errUnsatisfiableRange = errors.New("range not satisfiable")

// handleStreamTrack serves a track's audio with byte-range support: 200 for
// full-body requests, 206 for a valid single range, 416 when the range falls
// outside the file. Multi-range requests are not supported; only the first
// range expression is honored.
func (s *Server) handleStreamTrack(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	track, file, size, ok := s.openTrackFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", songfile.ContentType(file.Name()))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "public, max-age=86400")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		s.copyAudio(w, file, track.ID)
		return
	}

	start, end, err := parseByteRange(rangeHeader, size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		writeError(w, http.StatusRequestedRangeNotSatisfiable, codeRangeNotSatisfied, "requested range not satisfiable")
		return
	}

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		s.writeServiceError(w, fmt.Errorf("seek %s: %w", track.ID, err))
		return
	}

	length := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(http.StatusPartialContent)
	if _, err := io.CopyN(w, file, length); err != nil {
		// Headers are already out; a disconnect here is routine.
		s.logger.Debug().Str("track_id", track.ID).Err(err).Msg("stream copy interrupted")
	}
}

// handleDownloadTrack serves the full file regardless of any Range header,
// as an attachment named after the track.
func (s *Server) handleDownloadTrack(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	track, file, size, ok := s.openTrackFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	name := songfile.SanitizeFilename(track.Artist + " - " + track.TrackName + filepath.Ext(file.Name()))
	w.Header().Set("Content-Type", songfile.ContentType(file.Name()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	s.copyAudio(w, file, track.ID)
}

// openTrackFile resolves the track and its on-disk audio file, writing the
// appropriate error response on failure. A missing track and missing bytes
// are both safe 404s to the caller; they are distinguished only in logs.
func (s *Server) openTrackFile(w http.ResponseWriter, r *http.Request) (store.Track, *os.File, int64, bool) {
	track, err := s.tracks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return store.Track{}, nil, 0, false
	}

	if track.FilePath == "" {
		s.logger.Warn().Str("track_id", track.ID).Msg("track has no audio file")
		writeError(w, http.StatusNotFound, codeFileNotFound, "audio file not found")
		return store.Track{}, nil, 0, false
	}

	path, err := songfile.Resolve(s.songsRoot, track.FilePath)
	if err != nil {
		s.logger.Warn().Str("track_id", track.ID).Str("file_path", track.FilePath).Msg("audio file missing on disk")
		writeError(w, http.StatusNotFound, codeFileNotFound, "audio file not found")
		return store.Track{}, nil, 0, false
	}

	file, err := os.Open(path)
	if err != nil {
		s.writeServiceError(w, fmt.Errorf("open %s: %w", path, err))
		return store.Track{}, nil, 0, false
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		s.writeServiceError(w, fmt.Errorf("stat %s: %w", path, err))
		return store.Track{}, nil, 0, false
	}

	return track, file, info.Size(), true
}

func (s *Server) copyAudio(w io.Writer, file *os.File, trackID string) {
	if _, err := io.Copy(w, file); err != nil {
		s.logger.Debug().Str("track_id", trackID).Err(err).Msg("stream copy interrupted")
	}
}

// parseByteRange parses a bytes=<start>-<end> header against the file size.
// start is required; end defaults to size-1. Ranges that fall outside the
// file (start >= size, end >= size, start > end) and malformed headers all
// report errUnsatisfiableRange.
func parseByteRange(header string, size int64) (start, end int64, err error) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return 0, 0, errUnsatisfiableRange
	}

	spec := strings.TrimPrefix(header, prefix)
	if i := strings.IndexByte(spec, ','); i >= 0 {
		spec = spec[:i]
	}

	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, errUnsatisfiableRange
	}

	start, err = strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil || start < 0 {
		return 0, 0, errUnsatisfiableRange
	}

	end = size - 1
	if trimmed := strings.TrimSpace(endStr); trimmed != "" {
		end, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, 0, errUnsatisfiableRange
		}
	}

	if start >= size || end >= size || start > end {
		return 0, 0, errUnsatisfiableRange
	}
	return start, end, nil
}
