package web

// handlers.go covers the session endpoints: listing, loading, saving,
// deleting and renaming stored rosters.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"rosteraudit/internal/logging"
	"rosteraudit/internal/roster"
)

var errEmptySessionName = errors.New("session name must not be empty")

// sessionName extracts the {name} route parameter.
func sessionName(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "name"))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	infos, err := s.sessions.List(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"sessions": infos})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	name := sessionName(r)
	table, err := s.sessions.Load(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"name":    name,
		"count":   table.Len(),
		"players": table.Players,
	})
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	name := sessionName(r)
	if name == "" {
		s.respondError(w, r, errEmptySessionName, http.StatusBadRequest)
		return
	}

	var body struct {
		Players []*roster.Player `json:"players"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	table := &roster.Table{Players: body.Players}
	if err := s.sessions.Save(r.Context(), name, table); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("session saved", "session", name, "players", table.Len())
	writeJSON(w, map[string]any{"name": name, "count": table.Len()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	name := sessionName(r)
	if err := s.sessions.Delete(r.Context(), name); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("session deleted", "session", name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	name := sessionName(r)

	var body struct {
		NewName string `json:"new_name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	newName := strings.TrimSpace(body.NewName)
	if newName == "" {
		s.respondError(w, r, errEmptySessionName, http.StatusBadRequest)
		return
	}

	if err := s.sessions.Rename(r.Context(), name, newName); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("session renamed", "from", name, "to", newName)
	writeJSON(w, map[string]any{"name": newName})
}
