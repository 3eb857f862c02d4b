package httpapi

import (
	"encoding/json"
	"net/http"

	"groovebox/internal/importer"
)

// maxManifestBytes bounds the import payload size.
const maxManifestBytes = 10 << 20

// handleImport ingests a library manifest for the authenticated user.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var manifest importer.Manifest
	body := http.MaxBytesReader(w, r.Body, maxManifestBytes)
	if err := json.NewDecoder(body).Decode(&manifest); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid manifest payload")
		return
	}

	result, err := s.library.Import(r.Context(), userID, manifest)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
