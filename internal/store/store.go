// Package store persists roster sessions and rule configuration.
//
// Two backends implement the same interfaces: Local keeps JSON documents
// on disk (atomic writes, survives crashes mid-save), Postgres keeps them
// in a database for shared deployments. Saving is last-write-wins at the
// session-name boundary; there is deliberately no optimistic-concurrency
// check across concurrent editors.
package store

import (
	"context"
	"errors"
	"time"

	"rosteraudit/internal/roster"
	"rosteraudit/internal/rules"
)

// ErrNotFound is returned when a named session does not exist.
var ErrNotFound = errors.New("session not found")

// SessionInfo is the listing metadata of a stored session.
type SessionInfo struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Count   int       `json:"count"`
}

// SessionStore persists named roster sessions (one imported competition
// entry list each).
type SessionStore interface {
	List(ctx context.Context) ([]SessionInfo, error)
	Load(ctx context.Context, name string) (*roster.Table, error)
	Save(ctx context.Context, name string, t *roster.Table) error
	Delete(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
}

// ConfigStore persists the rule sets, club equivalences and team-category
// assignments the compliance engine consumes.
type ConfigStore interface {
	Rules(ctx context.Context) (rules.Config, error)
	SaveRules(ctx context.Context, cfg rules.Config) error

	Equivalences(ctx context.Context) (rules.Equivalences, error)
	SaveEquivalences(ctx context.Context, eq rules.Equivalences) error

	Categories(ctx context.Context) (rules.Categories, error)
	SaveCategories(ctx context.Context, cats rules.Categories) error
}

// sessionDoc is the stored form of one session.
type sessionDoc struct {
	SavedAt time.Time        `json:"saved_at"`
	Players []*roster.Player `json:"players"`
}
