package preference

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/longkt99/scribe/internal/intent"
)

type resetBody struct {
	UserID string `json:"user_id"`
	Key    string `json:"key,omitempty"`
}

// RegisterRoutes mounts preference endpoints under /api/preferences.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/preferences", func(r chi.Router) {
		r.Get("/", handleActive(store))
		r.Get("/bias", handleBias(store))
		r.Post("/reset", handleReset(store))
	})
}

func handleActive(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user")
		writeJSON(w, http.StatusOK, store.Active(r.Context(), userID))
	}
}

func handleBias(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		bias := store.Bias(r.Context(), q.Get("user"), BiasContext{
			RouteHint:       intent.Route(q.Get("route")),
			HasActiveSource: q.Get("has_source") == "true",
		})
		writeJSON(w, http.StatusOK, bias)
	}
}

func handleReset(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body resetBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if body.Key != "" {
			store.ResetKey(r.Context(), body.UserID, Key(body.Key))
		} else {
			store.ResetAll(r.Context(), body.UserID)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
