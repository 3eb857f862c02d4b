package httpapi

import "net/http"

func (s *Server) handleSearchTracks(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	page, limit := parsePageLimit(r)
	query := r.URL.Query().Get("q")
	sort := r.URL.Query().Get("sort")

	result, err := s.tracks.Search(r.Context(), query, page, limit, sort)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	track, err := s.tracks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, track)
}
