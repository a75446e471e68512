package recovery

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type actionBody struct {
	UserID      string `json:"user_id"`
	PatternHash string `json:"pattern_hash,omitempty"`
}

// RegisterRoutes mounts recovery endpoints under /api/recovery.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/recovery", func(r chi.Router) {
		r.Post("/undo", handle(svc, func(svc *Service, req *http.Request, body actionBody) Result {
			return svc.UndoLast(req.Context(), body.UserID)
		}))
		r.Post("/dismiss", handle(svc, func(svc *Service, req *http.Request, body actionBody) Result {
			return svc.Dismiss(req.Context(), body.UserID)
		}))
		r.Post("/reset-pattern", handle(svc, func(svc *Service, req *http.Request, body actionBody) Result {
			return svc.ResetPattern(req.Context(), body.UserID, body.PatternHash)
		}))
		r.Post("/disable-learning", handle(svc, func(svc *Service, req *http.Request, body actionBody) Result {
			return svc.DisableLearning(req.Context(), body.UserID)
		}))
		r.Post("/enable-learning", handle(svc, func(svc *Service, req *http.Request, body actionBody) Result {
			return svc.EnableLearning(req.Context(), body.UserID)
		}))
		r.Post("/reset-all", handle(svc, func(svc *Service, req *http.Request, body actionBody) Result {
			return svc.ResetAll(req.Context(), body.UserID)
		}))
	})
}

func handle(svc *Service, fn func(*Service, *http.Request, actionBody) Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body actionBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res := fn(svc, r, body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(res)
	}
}
