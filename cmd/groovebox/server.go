package main

import (
	"net/http"
	"strings"

	"groovebox/internal/app/playlists"
	"groovebox/internal/app/tracks"
	"groovebox/internal/app/users"
	"groovebox/internal/auth"
	"groovebox/internal/httpapi"
	"groovebox/internal/importer"
	"groovebox/internal/store"

	"github.com/rs/zerolog"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, logger zerolog.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userSvc := users.New(dataStore, tokens)
	trackSvc := tracks.New(dataStore)
	playlistSvc := playlists.New(dataStore)
	librarySvc := importer.New(dataStore)

	server := httpapi.New(userSvc, trackSvc, playlistSvc, librarySvc, cfg.SongsDir, logger)
	return withCORS(cfg.AllowedOrigins, server.Routes())
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Range, Accept-Ranges, Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
