package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"groovebox/internal/auth"
	"groovebox/internal/importer"
	"groovebox/internal/store"
)

// Error codes exposed to clients.
const (
	codeNotFound          = "NOT_FOUND"
	codeForbidden         = "FORBIDDEN"
	codeValidation        = "VALIDATION_ERROR"
	codeRangeNotSatisfied = "RANGE_NOT_SATISFIABLE"
	codeFileNotFound      = "FILE_NOT_FOUND"
	codeInternal          = "INTERNAL_ERROR"
	codeUnauthorized      = "UNAUTHORIZED"
	codeConflict          = "CONFLICT"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: errorBody{Code: code, Message: message}})
}

// writeServiceError maps service-layer errors onto the response taxonomy.
// Ownership mismatches on mutating paths surface as ErrPlaylistNotFound from
// the store, so they land on 404 here; only the playlist read path produces
// ErrPlaylistForbidden. Unexpected faults become an opaque 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrTrackNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "track not found")
	case errors.Is(err, store.ErrPlaylistNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "playlist not found")
	case errors.Is(err, store.ErrPlaylistForbidden):
		writeError(w, http.StatusForbidden, codeForbidden, "playlist belongs to another user")
	case errors.Is(err, store.ErrDuplicatePlaylist):
		writeError(w, http.StatusConflict, codeConflict, "playlist name already in use")
	case errors.Is(err, store.ErrUserExists):
		writeError(w, http.StatusConflict, codeConflict, "username already taken")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "user not found")
	case errors.Is(err, store.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid username or password")
	case errors.Is(err, importer.ErrInvalidManifest):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func parseBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// parsePageLimit reads page and limit query params, leaving clamping to the
// store's pagination.
func parsePageLimit(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
