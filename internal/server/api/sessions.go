// Package api provides HTTP API handlers for the theremin performance journal.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/theremin/internal/store"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// SessionHandler handles HTTP requests for recorded sessions.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes requests. Expected paths: /api/sessions,
// /api/sessions/{id} and /api/sessions/{id}/tones.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, parts[0])
		case http.MethodDelete:
			h.delete(w, r, parts[0])
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "tones":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.tones(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

type sessionResponse struct {
	ID              string  `json:"id"`
	StartedAt       string  `json:"started_at"`
	EndedAt         string  `json:"ended_at,omitempty"`
	Duration        string  `json:"duration,omitempty"`
	SmoothingFactor float64 `json:"smoothing_factor"`
	ChangeLimit     float64 `json:"change_limit"`
	MinNote         int     `json:"min_note"`
	MaxNote         int     `json:"max_note"`
	Tones           int     `json:"tones"`
}

type toneResponse struct {
	PlayedAt  string  `json:"played_at"`
	Frequency float64 `json:"frequency"`
	Volume    float64 `json:"volume"`
	Note      string  `json:"note"`
	Cents     int     `json:"cents"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type sessionDetailResponse struct {
	Session sessionResponse `json:"session"`
	Tones   []toneResponse  `json:"tones"`
}

type listTonesResponse struct {
	Tones []toneResponse `json:"tones"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:              s.ID,
		StartedAt:       s.StartedAt.Format(timeFormat),
		SmoothingFactor: s.SmoothingFactor,
		ChangeLimit:     s.ChangeLimit,
		MinNote:         s.MinNote,
		MaxNote:         s.MaxNote,
		Tones:           s.ToneCount,
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(timeFormat)
		resp.Duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
	}
	return resp
}

func toToneResponses(tones []store.Tone) []toneResponse {
	out := make([]toneResponse, 0, len(tones))
	for _, t := range tones {
		out = append(out, toneResponse{
			PlayedAt:  t.PlayedAt.Format(timeFormat),
			Frequency: t.Frequency,
			Volume:    t.Volume,
			Note:      t.Note,
			Cents:     t.Cents,
		})
	}
	return out
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id} and returns the session with its tones.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	tones, err := h.store.Tones().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tones")
		return
	}

	writeJSON(w, http.StatusOK, sessionDetailResponse{
		Session: toSessionResponse(session),
		Tones:   toToneResponses(tones),
	})
}

// tones handles GET /api/sessions/{id}/tones.
func (h *SessionHandler) tones(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	tones, err := h.store.Tones().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tones")
		return
	}

	writeJSON(w, http.StatusOK, listTonesResponse{Tones: toToneResponses(tones)})
}

// delete handles DELETE /api/sessions/{id}. Its tones go with it.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
