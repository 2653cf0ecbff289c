package store

// local.go is the file-backed store: one JSON document per concern under a
// data directory. Writes go to a temp file in the same directory followed
// by a rename, so a crash mid-write never corrupts existing data. Corrupt
// or missing configuration degrades to the factory defaults instead of
// failing the caller.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/rules"
)

const (
	sessionsFile     = "sessions.json"
	rulesFile        = "rules.json"
	equivalencesFile = "equivalences.json"
	categoriesFile   = "team_categories.json"
)

// Local stores sessions and configuration as JSON files under a data
// directory. It implements SessionStore and ConfigStore.
type Local struct {
	dir string
}

// NewLocal opens (creating if needed) a file store rooted at dir and
// seeds the factory rule sets and equivalences on first run.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	l := &Local{dir: dir}

	if _, err := os.Stat(l.path(rulesFile)); os.IsNotExist(err) {
		if err := l.writeJSON(rulesFile, rules.Defaults()); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(l.path(equivalencesFile)); os.IsNotExist(err) {
		if err := l.writeJSON(equivalencesFile, rules.DefaultEquivalences()); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Local) path(name string) string { return filepath.Join(l.dir, name) }

// writeJSON writes a document atomically: temp file in the same directory,
// then rename over the target.
func (l *Local) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(l.dir, name+".tmp")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, l.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// readJSON decodes a document into v. Missing or corrupt files report ok
// false so callers can fall back to defaults.
func (l *Local) readJSON(name string, v any) (ok bool) {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// ----------------------------------------------------------------------------
// SessionStore
// ----------------------------------------------------------------------------

func (l *Local) loadSessions() map[string]sessionDoc {
	sessions := make(map[string]sessionDoc)
	l.readJSON(sessionsFile, &sessions)
	return sessions
}

func (l *Local) List(ctx context.Context) ([]SessionInfo, error) {
	sessions := l.loadSessions()
	infos := make([]SessionInfo, 0, len(sessions))
	for name, doc := range sessions {
		infos = append(infos, SessionInfo{Name: name, SavedAt: doc.SavedAt, Count: len(doc.Players)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (l *Local) Load(ctx context.Context, name string) (*roster.Table, error) {
	sessions := l.loadSessions()
	doc, ok := sessions[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &roster.Table{Players: doc.Players}, nil
}

func (l *Local) Save(ctx context.Context, name string, t *roster.Table) error {
	sessions := l.loadSessions()
	sessions[name] = sessionDoc{SavedAt: time.Now().UTC(), Players: t.Players}
	return l.writeJSON(sessionsFile, sessions)
}

func (l *Local) Delete(ctx context.Context, name string) error {
	sessions := l.loadSessions()
	if _, ok := sessions[name]; !ok {
		return ErrNotFound
	}
	delete(sessions, name)
	return l.writeJSON(sessionsFile, sessions)
}

func (l *Local) Rename(ctx context.Context, oldName, newName string) error {
	sessions := l.loadSessions()
	doc, ok := sessions[oldName]
	if !ok {
		return ErrNotFound
	}
	delete(sessions, oldName)
	sessions[newName] = doc
	return l.writeJSON(sessionsFile, sessions)
}

// ----------------------------------------------------------------------------
// ConfigStore
// ----------------------------------------------------------------------------

func (l *Local) Rules(ctx context.Context) (rules.Config, error) {
	cfg := rules.Config{}
	if !l.readJSON(rulesFile, &cfg) || len(cfg) == 0 {
		return rules.Defaults(), nil
	}
	return cfg, nil
}

func (l *Local) SaveRules(ctx context.Context, cfg rules.Config) error {
	return l.writeJSON(rulesFile, cfg)
}

func (l *Local) Equivalences(ctx context.Context) (rules.Equivalences, error) {
	eq := rules.Equivalences{}
	if !l.readJSON(equivalencesFile, &eq) || len(eq) == 0 {
		return rules.DefaultEquivalences(), nil
	}
	return eq, nil
}

func (l *Local) SaveEquivalences(ctx context.Context, eq rules.Equivalences) error {
	return l.writeJSON(equivalencesFile, eq)
}

func (l *Local) Categories(ctx context.Context) (rules.Categories, error) {
	cats := rules.Categories{}
	l.readJSON(categoriesFile, &cats)
	return cats, nil
}

func (l *Local) SaveCategories(ctx context.Context, cats rules.Categories) error {
	return l.writeJSON(categoriesFile, cats)
}
