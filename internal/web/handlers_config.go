package web

// handlers_config.go covers the rule configuration endpoints. PUTs
// replace the whole document; the store's last write wins.

import (
	"net/http"

	"rosteraudit/internal/logging"
	"rosteraudit/internal/rules"
)

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Rules(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, cfg)
}

func (s *Server) handlePutRules(w http.ResponseWriter, r *http.Request) {
	var cfg rules.Config
	if err := decodeJSON(r, &cfg); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.configs.SaveRules(r.Context(), cfg); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	logging.FromContext(r.Context()).Info("rules updated", "categories", len(cfg))
	writeJSON(w, cfg)
}

func (s *Server) handleGetEquivalences(w http.ResponseWriter, r *http.Request) {
	eq, err := s.configs.Equivalences(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, eq)
}

func (s *Server) handlePutEquivalences(w http.ResponseWriter, r *http.Request) {
	var eq rules.Equivalences
	if err := decodeJSON(r, &eq); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.configs.SaveEquivalences(r.Context(), eq); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	logging.FromContext(r.Context()).Info("equivalences updated", "clubs", len(eq))
	writeJSON(w, eq)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.configs.Categories(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, cats)
}

func (s *Server) handlePutCategories(w http.ResponseWriter, r *http.Request) {
	var cats rules.Categories
	if err := decodeJSON(r, &cats); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if err := s.configs.SaveCategories(r.Context(), cats); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	logging.FromContext(r.Context()).Info("team categories updated", "teams", len(cats))
	writeJSON(w, cats)
}
