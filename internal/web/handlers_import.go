package web

// handlers_import.go covers roster ingestion: importing a CSV entry list
// into a classified table, and merging a follow-up batch into a stored
// session.

import (
	"encoding/csv"
	"net/http"

	"github.com/google/uuid"

	"rosteraudit/internal/logging"
	"rosteraudit/internal/roster"
)

// readRoster parses the request body as CSV, locates the header and maps
// the columns, then classifies the resulting players with the configured
// equivalences and fuzzy threshold.
func (s *Server) readRoster(w http.ResponseWriter, r *http.Request) (*roster.Table, error) {
	reader := csv.NewReader(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxImportBytes))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	table, err := roster.Ingest(rows)
	if err != nil {
		return nil, err
	}

	eq, err := s.configs.Equivalences(r.Context())
	if err != nil {
		return nil, err
	}
	roster.Classify(table, eq, s.cfg.Audit.FuzzyThreshold)
	return table, nil
}

// handleImport ingests a CSV entry list. With ?session=NAME the result is
// also saved under that session name.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	importID := uuid.NewString()
	logger := logging.WithFields(r.Context(), "import_id", importID)

	table, err := s.readRoster(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	session := r.URL.Query().Get("session")
	if session != "" {
		if err := s.sessions.Save(r.Context(), session, table); err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
	}

	logger.Info("roster imported",
		"players", table.Len(),
		"teams", len(table.Teams()),
		"session", session,
	)
	writeJSON(w, map[string]any{
		"import_id": importID,
		"count":     table.Len(),
		"session":   session,
		"players":   table.Players,
	})
}

// handleMerge ingests a follow-up CSV batch and merges it into the named
// session: new license IDs are appended, existing ones get club and team
// updates with an audit note. The merged roster replaces the session.
func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	name := sessionName(r)
	current, err := s.sessions.Load(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	incoming, err := s.readRoster(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	merged, report := roster.Merge(current, incoming)

	eq, err := s.configs.Equivalences(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	roster.Classify(merged, eq, s.cfg.Audit.FuzzyThreshold)

	if err := s.sessions.Save(r.Context(), name, merged); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("roster merged",
		"session", name,
		"added", report.Added,
		"updated", report.Updated,
		"skipped", report.Skipped,
	)
	writeJSON(w, map[string]any{
		"session": name,
		"added":   report.Added,
		"updated": report.Updated,
		"skipped": report.Skipped,
		"log":     report.Log,
		"count":   merged.Len(),
	})
}
