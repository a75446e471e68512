package outcome

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts read-only outcome endpoints under /api/outcomes.
// Signals are appended through the decision feedback endpoint, not here.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/outcomes", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/{intentID}", handleGet(store))
		r.Get("/pattern/{hash}", handlePatternStats(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		writeJSON(w, http.StatusOK, store.List(r.Context(), userID, limit))
	}
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		o := store.Get(r.Context(), userID, chi.URLParam(r, "intentID"))
		if o == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func handlePatternStats(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		stats := store.PatternStats(r.Context(), userID, chi.URLParam(r, "hash"))
		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
