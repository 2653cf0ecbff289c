package web

// handlers_compliance.go evaluates a stored session against the current
// rule configuration.

import (
	"net/http"

	"rosteraudit/internal/compliance"
	"rosteraudit/internal/logging"
	"rosteraudit/internal/roster"
)

// handleCompliance loads the named session, reclassifies it with the
// current equivalences, annotates per-player violations and returns the
// per-team summaries next to the annotated players. The stored session is
// not modified; evaluation is a read.
func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	name := sessionName(r)
	table, err := s.sessions.Load(r.Context(), name)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	cfg, err := s.configs.Rules(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	eq, err := s.configs.Equivalences(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	cats, err := s.configs.Categories(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	roster.Classify(table, eq, s.cfg.Audit.FuzzyThreshold)
	compliance.Annotate(table, cfg, cats)
	summaries := compliance.Audit(table, cfg, cats)

	failed := 0
	for _, sum := range summaries {
		if sum.Verdict == compliance.VerdictFail {
			failed++
		}
	}
	logging.FromContext(r.Context()).Info("compliance evaluated",
		"session", name,
		"teams", len(summaries),
		"failed", failed,
	)

	writeJSON(w, map[string]any{
		"session": name,
		"teams":   summaries,
		"players": table.Players,
	})
}
