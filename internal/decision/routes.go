package decision

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/longkt99/scribe/internal/governance"
	"github.com/longkt99/scribe/internal/outcome"
)

type decideBody struct {
	EventID          string `json:"event_id,omitempty"`
	Text             string `json:"text"`
	UserID           string `json:"user_id"`
	HasActiveSource  bool   `json:"has_active_source"`
	HasLastAssistant bool   `json:"has_last_assistant"`
	Role             string `json:"role,omitempty"`
	TeamID           string `json:"team_id,omitempty"`
}

type feedbackBody struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Signal  string `json:"signal"`
	Output  string `json:"output,omitempty"`
	Role    string `json:"role,omitempty"`
	TeamID  string `json:"team_id,omitempty"`
}

// RegisterRoutes mounts the decision endpoints on the given router.
func RegisterRoutes(r chi.Router, engine *Engine) {
	r.Post("/api/decide", handleDecide(engine))
	r.Post("/api/feedback", handleFeedback(engine))
}

func govContext(userID, teamID, role string) governance.Context {
	if role == "" {
		return governance.Context{}
	}
	return governance.NewContext(userID, teamID, governance.Role(role))
}

func handleDecide(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body decideBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		d := engine.Decide(r.Context(), Request{
			EventID:          body.EventID,
			Text:             body.Text,
			UserID:           body.UserID,
			HasActiveSource:  body.HasActiveSource,
			HasLastAssistant: body.HasLastAssistant,
			Governance:       govContext(body.UserID, body.TeamID, body.Role),
		})

		status := http.StatusOK
		if d.Declined != nil {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, d)
	}
}

func handleFeedback(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body feedbackBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if body.EventID == "" || body.Signal == "" {
			http.Error(w, "event_id and signal are required", http.StatusBadRequest)
			return
		}

		o := engine.RecordFeedback(r.Context(), FeedbackRequest{
			EventID:    body.EventID,
			UserID:     body.UserID,
			Signal:     outcome.SignalType(body.Signal),
			Output:     body.Output,
			Governance: govContext(body.UserID, body.TeamID, body.Role),
		})
		if o == nil {
			http.Error(w, "unknown event", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
